package models

import (
	"net/url"
	"strconv"
)

// StatusSelection is the value of the habit status selector. It is wider than
// HabitStatus because it includes "all".
type StatusSelection string

const (
	StatusSelectActive   StatusSelection = "active"
	StatusSelectArchived StatusSelection = "archived"
	StatusSelectAll      StatusSelection = "all"
)

// HabitFilters narrows a habit listing. Zero values are omitted from the query.
type HabitFilters struct {
	Status          HabitStatus
	Category        HabitCategory
	IncludeArchived bool
	Page            int
	Limit           int
}

// NewHabitFilters builds filters from the category and status selectors.
// An empty category means "All" and places no category constraint.
func NewHabitFilters(category HabitCategory, status StatusSelection, limit int) HabitFilters {
	f := HabitFilters{Category: category, Limit: limit}
	switch status {
	case StatusSelectAll:
		f.IncludeArchived = true
	case StatusSelectArchived:
		f.Status = HabitStatusArchived
		f.IncludeArchived = true
	default:
		f.Status = HabitStatusActive
	}
	return f
}

// Query encodes the filters as URL query parameters
func (f HabitFilters) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Category != "" {
		q.Set("category", string(f.Category))
	}
	if f.IncludeArchived {
		q.Set("include_archived", "true")
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Key returns a stable identifier for the filter combination, used as a cache key
func (f HabitFilters) Key() string {
	return "habits?" + f.Query().Encode()
}

// TaskFilters narrows a task listing. Tags is a comma-separated list.
type TaskFilters struct {
	Status   TaskStatus
	Priority TaskPriority
	Tags     string
	Search   string
	Sort     TaskSort
	Page     int
	Limit    int
}

// Query encodes the filters as URL query parameters. The default sort
// (created_desc) is left implicit.
func (f TaskFilters) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	if f.Tags != "" {
		q.Set("tags", f.Tags)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Sort != "" && f.Sort != SortCreatedDesc {
		q.Set("sort", string(f.Sort))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Key returns a stable identifier for the filter combination, used as a cache key
func (f TaskFilters) Key() string {
	return "tasks?" + f.Query().Encode()
}
