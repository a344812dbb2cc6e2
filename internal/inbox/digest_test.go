package inbox

import (
	"strings"
	"testing"

	"github.com/roeyazroel/linear-inbox/internal/linearapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	urgent := issue("1", 1, "started", "In Review")
	urgent.PriorityLabel = "Urgent"
	urgent.URL = "https://linear.app/t/issue/ENG-1"
	urgent.Title = "Fix [login] bug"
	plain := issue("2", 0, "unstarted", "Todo")

	md := Markdown("My Issues", Classify([]linearapi.Issue{urgent, plain}))

	assert.True(t, strings.HasPrefix(md, "# My Issues\n"))
	assert.Contains(t, md, "## In Review (1)")
	assert.Contains(t, md, "## Todo (1)")
	assert.NotContains(t, md, "Backlog", "empty sections are omitted")
	assert.Contains(t, md, `- [**ENG-1**](https://linear.app/t/issue/ENG-1) Fix \[login\] bug _(Urgent)_`)
	assert.Contains(t, md, "- **ENG-2** Issue 2 _(No priority)_")
	assert.Less(t, strings.Index(md, "In Review"), strings.Index(md, "Todo"))
}

func TestMarkdown_Empty(t *testing.T) {
	md := Markdown("", Classify(nil))

	assert.Equal(t, "_No issues._\n", md)
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("## Todo (1)\n\n- **ENG-2** thing\n", "notty", 80)

	require.NoError(t, err)
	assert.Contains(t, out, "ENG-2")
	assert.Contains(t, out, "Todo (1)")
}
