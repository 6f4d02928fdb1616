package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewHabitFilters(t *testing.T) {
	tests := []struct {
		name     string
		category HabitCategory
		status   StatusSelection
		want     map[string]string
		absent   []string
	}{
		{
			name:   "all categories active",
			status: StatusSelectActive,
			want:   map[string]string{"status": "active"},
			absent: []string{"category", "include_archived"},
		},
		{
			name:     "learning active",
			category: CategoryLearning,
			status:   StatusSelectActive,
			want:     map[string]string{"category": "Learning", "status": "active"},
			absent:   []string{"include_archived"},
		},
		{
			name:   "status all",
			status: StatusSelectAll,
			want:   map[string]string{"include_archived": "true"},
			absent: []string{"status", "category"},
		},
		{
			name:   "archived",
			status: StatusSelectArchived,
			want:   map[string]string{"status": "archived", "include_archived": "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewHabitFilters(tt.category, tt.status, 0).Query()
			for k, v := range tt.want {
				if got := q.Get(k); got != v {
					t.Errorf("%s = %q, want %q", k, got, v)
				}
			}
			for _, k := range tt.absent {
				if q.Has(k) {
					t.Errorf("query should not contain %s, got %q", k, q.Get(k))
				}
			}
		})
	}
}

func TestTaskFiltersQuery(t *testing.T) {
	q := TaskFilters{Search: "milk", Sort: SortCreatedDesc, Page: 2, Limit: 20}.Query()
	if q.Get("search") != "milk" {
		t.Errorf("search = %q, want milk", q.Get("search"))
	}
	if q.Has("sort") {
		t.Errorf("default sort should be omitted, got %q", q.Get("sort"))
	}
	if q.Get("page") != "2" || q.Get("limit") != "20" {
		t.Errorf("paging = %q/%q, want 2/20", q.Get("page"), q.Get("limit"))
	}

	q = TaskFilters{Sort: SortDueDateAsc, Priority: PriorityHigh}.Query()
	if q.Get("sort") != "due_date_asc" || q.Get("priority") != "high" {
		t.Errorf("unexpected query %v", q)
	}
}

func TestHabitCompletedOn(t *testing.T) {
	loc := time.FixedZone("test", -5*3600)
	last := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC) // 21:00 on the 9th in loc
	h := Habit{LastCompletedAt: &last}

	if !h.CompletedOn(time.Date(2026, 3, 9, 12, 0, 0, 0, loc)) {
		t.Error("expected completion on the 9th in the local zone")
	}
	if h.CompletedOn(time.Date(2026, 3, 10, 12, 0, 0, 0, loc)) {
		t.Error("did not expect completion on the 10th in the local zone")
	}
	if (Habit{}).CompletedOn(time.Now()) {
		t.Error("habit without completions reported as completed")
	}
}

func TestTaskPriorityJSON(t *testing.T) {
	b, err := PriorityNone.MarshalJSON()
	if err != nil || string(b) != "null" {
		t.Errorf("PriorityNone marshals to %s (%v), want null", b, err)
	}
	b, _ = PriorityHigh.MarshalJSON()
	if string(b) != `"high"` {
		t.Errorf("PriorityHigh marshals to %s", b)
	}
}

func TestTaskUpdateJSON_Tags(t *testing.T) {
	title := "renamed"
	tests := []struct {
		name string
		in   TaskUpdate
		want string
	}{
		{"nil tags omitted", TaskUpdate{Title: &title}, `{"title":"renamed"}`},
		{"empty tags cleared", TaskUpdate{Tags: []string{}}, `{"tags":[]}`},
		{"tags sent", TaskUpdate{Tags: []string{"a"}}, `{"tags":["a"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("got %s, want %s", b, tt.want)
			}
		})
	}
}
