package inbox

import (
	"testing"

	"github.com/roeyazroel/linear-inbox/internal/linearapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issue(id string, priority int, stateType, stateName string) linearapi.Issue {
	return linearapi.Issue{
		ID:         id,
		Identifier: "ENG-" + id,
		Title:      "Issue " + id,
		Priority:   priority,
		State:      linearapi.WorkflowState{ID: "s-" + stateName, Name: stateName, Type: stateType},
	}
}

func ids(issues []linearapi.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.ID)
	}
	return out
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		stateType, name string
		want            Bucket
		ok              bool
	}{
		{"started", "Ready to Merge", BucketReadyToMerge, true},
		{"started", "In Review", BucketInReview, true},
		{"started", "In Progress", BucketInProgress, true},
		{"started", "in review", BucketInProgress, true},
		{"started", "", BucketInProgress, true},
		{"unstarted", "Ready to Merge", BucketTodo, true},
		{"backlog", "In Review", BucketBacklog, true},
		{"completed", "Done", 0, false},
		{"canceled", "Canceled", 0, false},
		{"triage", "Triage", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.stateType+"/"+tt.name, func(t *testing.T) {
			got, ok := BucketFor(linearapi.WorkflowState{Type: tt.stateType, Name: tt.name})
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestClassify_Empty(t *testing.T) {
	b := Classify(nil)

	assert.Equal(t, 0, b.Total())
	assert.True(t, b.IsEmpty())
	sections := b.Sections()
	require.Len(t, sections, 5)
	for _, s := range sections {
		assert.NotNil(t, s.Issues)
		assert.Empty(t, s.Issues)
	}
}

func TestClassify_UnrecognizedExcluded(t *testing.T) {
	b := Classify([]linearapi.Issue{
		issue("1", 1, "completed", "Done"),
		issue("2", 2, "canceled", "Canceled"),
		issue("3", 3, "triage", "Triage"),
	})

	assert.Equal(t, 0, b.Total())
}

func TestClassify_AssignsEachIssueOnce(t *testing.T) {
	input := []linearapi.Issue{
		issue("1", 1, "started", "Ready to Merge"),
		issue("2", 1, "started", "In Review"),
		issue("3", 1, "started", "Doing"),
		issue("4", 1, "unstarted", "Todo"),
		issue("5", 1, "backlog", "Backlog"),
		issue("6", 1, "completed", "Done"),
	}
	b := Classify(input)

	assert.Equal(t, []string{"1"}, ids(b.ReadyToMerge))
	assert.Equal(t, []string{"2"}, ids(b.InReview))
	assert.Equal(t, []string{"3"}, ids(b.InProgress))
	assert.Equal(t, []string{"4"}, ids(b.Todo))
	assert.Equal(t, []string{"5"}, ids(b.Backlog))
	assert.Equal(t, 5, b.Total())

	seen := map[string]int{}
	for _, s := range b.Sections() {
		for _, i := range s.Issues {
			seen[i.ID]++
		}
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "issue %s in %d buckets", id, n)
	}
}

func TestClassify_PriorityZeroLast(t *testing.T) {
	b := Classify([]linearapi.Issue{
		issue("none", 0, "started", "In Progress"),
		issue("high", 2, "started", "In Progress"),
	})

	assert.Equal(t, []string{"high", "none"}, ids(b.InProgress))
}

func TestClassify_SortOrderAndStability(t *testing.T) {
	b := Classify([]linearapi.Issue{
		issue("a", 0, "unstarted", "Todo"),
		issue("b", 3, "unstarted", "Todo"),
		issue("c", 1, "unstarted", "Todo"),
		issue("d", 3, "unstarted", "Todo"),
		issue("e", 0, "unstarted", "Todo"),
		issue("f", 4, "unstarted", "Todo"),
		issue("g", 1, "unstarted", "Todo"),
	})

	assert.Equal(t, []string{"c", "g", "b", "d", "f", "a", "e"}, ids(b.Todo))
}

func TestClassify_DoesNotModifyInput(t *testing.T) {
	input := []linearapi.Issue{
		issue("1", 0, "backlog", "Backlog"),
		issue("2", 1, "backlog", "Backlog"),
	}
	_ = Classify(input)

	assert.Equal(t, []string{"1", "2"}, ids(input))
}

func TestClassify_Deterministic(t *testing.T) {
	input := []linearapi.Issue{
		issue("1", 2, "started", "In Review"),
		issue("2", 2, "started", "In Review"),
		issue("3", 0, "started", "In Review"),
		issue("4", 1, "started", "In Review"),
	}

	first := Classify(input)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(input))
	}
}

func TestSortByPriority_LargeValuesBeforeZero(t *testing.T) {
	issues := []linearapi.Issue{
		issue("zero", 0, "started", "x"),
		issue("nine", 9, "started", "x"),
	}
	SortByPriority(issues)

	assert.Equal(t, []string{"nine", "zero"}, ids(issues))
}

func TestSections_OrderTitlesKeys(t *testing.T) {
	sections := Classify(nil).Sections()

	var titles, keys []string
	for _, s := range sections {
		titles = append(titles, s.Title())
		keys = append(keys, s.Key())
	}
	assert.Equal(t, []string{"Ready to Merge", "In Review", "In Progress", "Todo", "Backlog"}, titles)
	assert.Equal(t, []string{"ready_to_merge", "in_review", "in_progress", "todo", "backlog"}, keys)
}
