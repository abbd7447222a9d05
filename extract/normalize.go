package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults substituted when a candidate misses a field entirely.
const (
	defaultResourceURL = "https://roadmap.sh"
	defaultHours       = 8
	defaultMiniProject = "Build a small hands-on project using the week's skill."
)

// RoadmapWeek is one validated entry of a learning roadmap. Week numbers
// are re-derived from array position by NormalizeWeeks, guaranteeing a
// contiguous 1..N sequence.
type RoadmapWeek struct {
	Week           int    `json:"week"`
	Topic          string `json:"topic"`
	ResourceURL    string `json:"resource_url"`
	EstimatedHours int    `json:"estimated_hours"`
	MiniProject    string `json:"mini_project"`
}

// ResumeAnalysis is the validated output of the resume analyst.
type ResumeAnalysis struct {
	TechnicalSkills   []string `json:"technical_skills"`
	SoftSkills        []string `json:"soft_skills"`
	YearsOfExperience float64  `json:"years_of_experience"`
	TopStrengths      []string `json:"top_strengths"`
	SkillGaps         []string `json:"skill_gaps"`
}

// MarketTrends is the validated output of the market researcher.
type MarketTrends struct {
	Role         string   `json:"role,omitempty"`
	Location     string   `json:"location,omitempty"`
	TopSkills    []string `json:"top_skills"`
	SalaryRange  string   `json:"salary_range"`
	TopCompanies []string `json:"top_companies"`
	MarketTrend  string   `json:"market_trend"`
}

// NormalizeWeek coerces a raw candidate object into a RoadmapWeek,
// tolerating the alternate key names agents tend to use and substituting
// defaults rather than failing. position is the zero-based array index.
func NormalizeWeek(candidate map[string]any, position int) RoadmapWeek {
	week := coerceInt(candidate["week"], position+1)

	topic, ok := firstString(candidate, "topic", "title", "subject")
	if !ok {
		topic = fmt.Sprintf("Week %d", position+1)
	}

	resourceURL, ok := firstString(candidate, "resource_url", "resource", "url", "link", "free_resource")
	if !ok {
		resourceURL = defaultResourceURL
	}
	if !strings.HasPrefix(resourceURL, "http") {
		resourceURL = "https://" + resourceURL
	}

	var hoursRaw any
	for _, key := range []string{"estimated_hours", "hours", "time", "duration"} {
		if v, exists := candidate[key]; exists && v != nil {
			hoursRaw = v
			break
		}
	}
	hours := coerceInt(hoursRaw, defaultHours)
	if hours <= 0 {
		hours = defaultHours
	}

	miniProject, ok := firstString(candidate, "mini_project", "project", "task", "assignment", "practice")
	if !ok {
		miniProject = defaultMiniProject
	}

	return RoadmapWeek{
		Week:           week,
		Topic:          topic,
		ResourceURL:    resourceURL,
		EstimatedHours: hours,
		MiniProject:    miniProject,
	}
}

// NormalizeWeeks normalizes each entry, then renumbers the week field
// sequentially by array position, overriding whatever the source claimed.
// The pass is idempotent on already-sequential input and repairs
// duplicate, missing and zero-based numbering.
func NormalizeWeeks(candidates []any) []RoadmapWeek {
	weeks := make([]RoadmapWeek, 0, len(candidates))
	for i, c := range candidates {
		obj, _ := c.(map[string]any)
		if obj == nil {
			obj = map[string]any{}
		}
		weeks = append(weeks, NormalizeWeek(obj, i))
	}
	for i := range weeks {
		weeks[i].Week = i + 1
	}
	return weeks
}

// NormalizeResume coerces a candidate object into a ResumeAnalysis,
// substituting empty values for anything missing.
func NormalizeResume(candidate map[string]any) ResumeAnalysis {
	return ResumeAnalysis{
		TechnicalSkills:   stringList(candidate["technical_skills"]),
		SoftSkills:        stringList(candidate["soft_skills"]),
		YearsOfExperience: coerceFloat(candidate["years_of_experience"], 0),
		TopStrengths:      stringList(candidate["top_strengths"]),
		SkillGaps:         stringList(candidate["skill_gaps"]),
	}
}

// NormalizeMarket coerces a candidate object into MarketTrends.
func NormalizeMarket(candidate map[string]any) MarketTrends {
	trends := MarketTrends{
		TopSkills:    stringList(candidate["top_skills"]),
		SalaryRange:  "Unknown",
		TopCompanies: stringList(candidate["top_companies"]),
		MarketTrend:  "Unknown",
	}
	if s, ok := firstString(candidate, "salary_range", "salary"); ok {
		trends.SalaryRange = s
	}
	if s, ok := firstString(candidate, "market_trend", "trend"); ok {
		trends.MarketTrend = s
	}
	return trends
}

// firstString returns the first non-empty string value found under the
// given alias keys.
func firstString(candidate map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		v, exists := candidate[key]
		if !exists || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprintf("%v", v)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, true
		}
	}
	return "", false
}

// coerceInt converts an arbitrary candidate value to an integer: stringify,
// take the first whitespace token, parse as a number, truncate. Any failure
// substitutes def.
func coerceInt(v any, def int) int {
	return int(coerceFloat(v, float64(def)))
}

func coerceFloat(v any, def float64) float64 {
	if v == nil {
		return def
	}
	fields := strings.Fields(fmt.Sprintf("%v", v))
	if len(fields) == 0 {
		return def
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return def
	}
	return f
}

// stringList converts a loosely-typed candidate list into []string,
// dropping nothing: non-string elements are rendered with %v. A missing or
// non-list value yields an empty (non-nil) slice.
func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		out = append(out, fmt.Sprintf("%v", item))
	}
	return out
}
