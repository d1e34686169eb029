package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownPrompts(t *testing.T) {
	p, err := Get("analysis.json", "analyze_answer")
	require.NoError(t, err)
	assert.Contains(t, p, "{{.Answer}}")
	assert.Contains(t, p, "{{.UnmetCategories}}")

	p, err = Get("generation.json", "gap_fill_question")
	require.NoError(t, err)
	assert.Contains(t, p, "{{.Category}}")
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Get("analysis.json", "no_such_key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_key")
}

func TestGet_MissingFile(t *testing.T) {
	_, err := Get("missing.json", "whatever")
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("Ask about {{.Category}}: {{.Gaps}}", map[string]string{
		"Category": "tech_stack",
		"Gaps":     "crm, integrations",
	})
	assert.Equal(t, "Ask about tech_stack: crm, integrations", out)
	assert.False(t, strings.Contains(out, "{{"))
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("analysis.json", "nope") })
	assert.NotPanics(t, func() { MustGet("analysis.json", "analyze_answer") })
}
