package agent

import (
	"testing"

	"github.com/hupe1980/careermesh/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_OrderAndRoles(t *testing.T) {
	roster := Roster()
	require.Len(t, roster, 4)

	assert.Equal(t, core.RoleUserProxy, roster[0].Role)
	assert.Equal(t, core.RoleAnalyst, roster[1].Role)
	assert.Equal(t, core.RoleResearcher, roster[2].Role)
	assert.Equal(t, core.RoleCoach, roster[3].Role)

	seen := map[string]bool{}
	for _, d := range roster {
		assert.False(t, seen[d.Name], "duplicate name %q", d.Name)
		seen[d.Name] = true
	}
}

func TestNewMarketResearcher_HasWebSearchCapability(t *testing.T) {
	d := NewMarketResearcher()
	assert.True(t, d.Capabilities.Has("web_search"))
}

func TestNewInterviewer_RendersTemplate(t *testing.T) {
	d, err := NewInterviewer("Backend Engineer", "Acme Corp")
	require.NoError(t, err)
	assert.Contains(t, d.Instruction, "Acme Corp")
	assert.Contains(t, d.Instruction, "Backend Engineer")
	assert.Equal(t, core.RoleInterviewer, d.Role)
}

func TestNewInterviewer_Defaults(t *testing.T) {
	d, err := NewInterviewer("", "")
	require.NoError(t, err)
	assert.Contains(t, d.Instruction, "Software Engineer")
	assert.Contains(t, d.Instruction, "a top tech company")
}
