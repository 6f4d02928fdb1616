package utils

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// IsOverdue reports whether a task with the given due date and status is past due at now
func IsOverdue(due *time.Time, status models.TaskStatus, now time.Time) bool {
	if due == nil {
		return false
	}
	return due.Before(now) && status != models.TaskStatusCompleted
}

// FormatDueDate renders a due date relative to now, e.g. "Due Tomorrow" or "Overdue (Jan 2, 2026)"
func FormatDueDate(due *time.Time, status models.TaskStatus, now time.Time) string {
	if due == nil {
		return "No due date"
	}
	d := due.In(now.Location())
	overdue := IsOverdue(due, status, now)

	if sameDay(d, now) {
		if overdue {
			return "Overdue (Today)"
		}
		return "Due Today"
	}
	if sameDay(d, now.AddDate(0, 0, 1)) {
		return "Due Tomorrow"
	}
	if overdue {
		return fmt.Sprintf("Overdue (%s)", d.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("Due %s", d.Format("Jan 2, 2006"))
}

// RelativeTime renders t relative to now, e.g. "3 days ago"
func RelativeTime(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// LastCompleted describes a habit's most recent completion
func LastCompleted(h models.Habit, now time.Time) string {
	if h.LastCompletedAt == nil {
		return "never completed"
	}
	if sameDay(h.LastCompletedAt.In(now.Location()), now) {
		return "completed today"
	}
	return "last completed " + RelativeTime(*h.LastCompletedAt, now)
}
