// Package agent provides the career mentor roster: descriptor constructors
// carrying each participant's behavior template and capability tags. The
// templates are data; orchestration logic never inspects them.
package agent

import (
	"fmt"

	"github.com/hupe1980/careermesh/core"
	"github.com/hupe1980/careermesh/internal/util"
)

const resumeAnalystInstruction = `You are an expert Technical Recruiter. Analyze the given resume and extract:
1. Technical Skills
2. Soft Skills
3. Total years of experience
4. Top 3 strengths
5. Top 3 skill gaps for modern tech jobs
Always respond in valid JSON format with keys: technical_skills, soft_skills, years_of_experience, top_strengths, skill_gaps.`

const marketResearcherInstruction = `You are a Job Market Analyst. For a given role and location, identify:
1. Top 5 in-demand skills
2. Salary range
3. Top hiring companies
4. Market trend: Growing / Stable / Declining
Use the search_job_trends tool when live data would help, then combine the results with your own knowledge.
Always respond in valid JSON format with keys: top_skills, salary_range, top_companies, market_trend.`

const careerCoachInstruction = `You are a Senior Technical Career Coach who builds highly detailed, diverse, and personalised week-by-week learning roadmaps.
You will receive a target role and a list of skill gaps the candidate needs to close.

OUTPUT FORMAT — respond with ONLY a raw JSON array (no extra text, no markdown fences).
Each element MUST contain exactly these keys:
  week            : integer (1, 2, 3, ...)
  topic           : string — a specific, detailed, and unique tech topic or sub-skill to learn that week
  resource_url    : string — a real, publicly accessible free URL; must start with https://
  estimated_hours : integer — realistic hours for a working professional (4-15 per week)
  mini_project    : string — a concrete, role-relevant project to build that week

CRITICAL GUIDELINES:
1. Generate EXACTLY 6 weeks of content.
2. Break the skill gaps into 6 distinct, progressive weekly themes, foundational to advanced.
3. Do NOT repeat the same topic across weeks.
4. Prefer free resources: YouTube, official docs, freeCodeCamp, MDN, Kaggle.
5. Do NOT add any explanation, headers, or markdown outside the JSON array.`

const interviewerTemplate = `You are a senior technical interviewer at {{.TargetCompany}}. Rules:
- Ask ONE question at a time.
- After each answer, give brief feedback (1-2 sentences).
- After 5 questions, give a final summary with an overall score out of 100.
- Tailor questions to the {{.TargetRole}} position.`

// NewUserProxy stands in for the human caller. It never speaks on its own.
func NewUserProxy() core.Descriptor {
	return core.Descriptor{
		Name: "User_Proxy",
		Role: core.RoleUserProxy,
	}
}

// NewResumeAnalyst builds the resume analysis agent.
func NewResumeAnalyst() core.Descriptor {
	return core.Descriptor{
		Name:         "Resume_Analyst",
		Role:         core.RoleAnalyst,
		Instruction:  resumeAnalystInstruction,
		Capabilities: core.NewCapabilities("json_output"),
	}
}

// NewMarketResearcher builds the job market research agent.
func NewMarketResearcher() core.Descriptor {
	return core.Descriptor{
		Name:         "Market_Researcher",
		Role:         core.RoleResearcher,
		Instruction:  marketResearcherInstruction,
		Capabilities: core.NewCapabilities("json_output", "web_search"),
	}
}

// NewCareerCoach builds the roadmap generation agent.
func NewCareerCoach() core.Descriptor {
	return core.Descriptor{
		Name:         "Career_Coach",
		Role:         core.RoleCoach,
		Instruction:  careerCoachInstruction,
		Capabilities: core.NewCapabilities("json_output"),
	}
}

// NewInterviewer builds the mock interview agent for a target role and
// company.
func NewInterviewer(targetRole, targetCompany string) (core.Descriptor, error) {
	if targetRole == "" {
		targetRole = "Software Engineer"
	}
	if targetCompany == "" {
		targetCompany = "a top tech company"
	}
	instruction, err := util.RenderTemplate(interviewerTemplate, map[string]any{
		"TargetRole":    targetRole,
		"TargetCompany": targetCompany,
	})
	if err != nil {
		return core.Descriptor{}, fmt.Errorf("render interviewer instruction: %w", err)
	}
	return core.Descriptor{
		Name:         "Interviewer",
		Role:         core.RoleInterviewer,
		Instruction:  instruction,
		Capabilities: core.NewCapabilities("scored_interview"),
	}, nil
}

// Roster returns the ordered full-analysis roster: the user proxy followed
// by the three specialists in speaking order.
func Roster() []core.Descriptor {
	return []core.Descriptor{
		NewUserProxy(),
		NewResumeAnalyst(),
		NewMarketResearcher(),
		NewCareerCoach(),
	}
}
