// Package inbox groups assigned issues for triage and keeps the refreshed
// inbox state.
package inbox

import (
	"math"
	"sort"

	"github.com/roeyazroel/linear-inbox/internal/linearapi"
)

// Workflow state names that split the started type into finer buckets.
// Matching is exact and case-sensitive.
const (
	StateReadyToMerge = "Ready to Merge"
	StateInReview     = "In Review"
)

// Bucket identifies one of the five display groups.
type Bucket int

const (
	BucketReadyToMerge Bucket = iota
	BucketInReview
	BucketInProgress
	BucketTodo
	BucketBacklog
)

// AllBuckets lists buckets in display order.
var AllBuckets = []Bucket{BucketReadyToMerge, BucketInReview, BucketInProgress, BucketTodo, BucketBacklog}

// Title returns the section heading for the bucket.
func (b Bucket) Title() string {
	switch b {
	case BucketReadyToMerge:
		return "Ready to Merge"
	case BucketInReview:
		return "In Review"
	case BucketInProgress:
		return "In Progress"
	case BucketTodo:
		return "Todo"
	case BucketBacklog:
		return "Backlog"
	default:
		return ""
	}
}

// Key returns a stable identifier for persisting per-section settings.
func (b Bucket) Key() string {
	switch b {
	case BucketReadyToMerge:
		return "ready_to_merge"
	case BucketInReview:
		return "in_review"
	case BucketInProgress:
		return "in_progress"
	case BucketTodo:
		return "todo"
	case BucketBacklog:
		return "backlog"
	default:
		return ""
	}
}

// BucketFor returns the bucket an issue belongs to. The second result is
// false for issues whose state type is not started, unstarted or backlog.
func BucketFor(state linearapi.WorkflowState) (Bucket, bool) {
	switch state.StateType() {
	case linearapi.StateStarted:
		switch state.Name {
		case StateReadyToMerge:
			return BucketReadyToMerge, true
		case StateInReview:
			return BucketInReview, true
		default:
			return BucketInProgress, true
		}
	case linearapi.StateUnstarted:
		return BucketTodo, true
	case linearapi.StateBacklog:
		return BucketBacklog, true
	default:
		return 0, false
	}
}

// Buckets holds classified issues, each slice sorted by priority.
type Buckets struct {
	ReadyToMerge []linearapi.Issue `json:"readyToMerge"`
	InReview     []linearapi.Issue `json:"inReview"`
	InProgress   []linearapi.Issue `json:"inProgress"`
	Todo         []linearapi.Issue `json:"todo"`
	Backlog      []linearapi.Issue `json:"backlog"`
}

// Section is one non-persisted display group.
type Section struct {
	Bucket Bucket
	Issues []linearapi.Issue
}

// Title returns the section heading.
func (s Section) Title() string { return s.Bucket.Title() }

// Key returns the section's stable key.
func (s Section) Key() string { return s.Bucket.Key() }

// Classify sorts issues into buckets. Issues with an unrecognized state type
// are left out. The input slice is not modified.
func Classify(issues []linearapi.Issue) Buckets {
	b := Buckets{
		ReadyToMerge: []linearapi.Issue{},
		InReview:     []linearapi.Issue{},
		InProgress:   []linearapi.Issue{},
		Todo:         []linearapi.Issue{},
		Backlog:      []linearapi.Issue{},
	}
	for _, issue := range issues {
		bucket, ok := BucketFor(issue.State)
		if !ok {
			continue
		}
		list := b.list(bucket)
		*list = append(*list, issue)
	}
	for _, bucket := range AllBuckets {
		SortByPriority(*b.list(bucket))
	}
	return b
}

func (b *Buckets) list(bucket Bucket) *[]linearapi.Issue {
	switch bucket {
	case BucketReadyToMerge:
		return &b.ReadyToMerge
	case BucketInReview:
		return &b.InReview
	case BucketInProgress:
		return &b.InProgress
	case BucketTodo:
		return &b.Todo
	default:
		return &b.Backlog
	}
}

// Get returns the issues of one bucket.
func (b Buckets) Get(bucket Bucket) []linearapi.Issue {
	return *b.list(bucket)
}

// Sections returns all five buckets in display order, including empty ones.
func (b Buckets) Sections() []Section {
	sections := make([]Section, 0, len(AllBuckets))
	for _, bucket := range AllBuckets {
		sections = append(sections, Section{Bucket: bucket, Issues: b.Get(bucket)})
	}
	return sections
}

// Total returns the number of classified issues.
func (b Buckets) Total() int {
	return len(b.ReadyToMerge) + len(b.InReview) + len(b.InProgress) + len(b.Todo) + len(b.Backlog)
}

// IsEmpty reports whether no issue was classified.
func (b Buckets) IsEmpty() bool {
	return b.Total() == 0
}

// SortByPriority sorts issues in place by Linear's priority semantics:
// 1 (urgent) first, 4 (low) last among prioritized issues, and 0 (no
// priority) after all of them. Equal priorities keep their input order.
func SortByPriority(issues []linearapi.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return priorityRank(issues[i].Priority) < priorityRank(issues[j].Priority)
	})
}

func priorityRank(p int) int {
	// Map 0 (no priority) past every real value so it sorts last.
	if p == 0 {
		return math.MaxInt
	}
	return p
}
