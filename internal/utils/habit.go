package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
)

var identityPrefixRe = regexp.MustCompile(`(?i)^I am a person who `)

// GenerateStackingCue derives a habit stacking cue from the anchor habit's
// identity statement. The "I am a person who " prefix and a trailing period
// are stripped; statements without the prefix are used as-is.
func GenerateStackingCue(anchorIdentity, twoMinuteVersion string) string {
	anchorPart := identityPrefixRe.ReplaceAllString(anchorIdentity, "")
	anchorPart = strings.TrimSuffix(anchorPart, ".")
	action := twoMinuteVersion
	if action == "" {
		action = "..."
	}
	return fmt.Sprintf("After I %s, I will %s", anchorPart, action)
}

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// FormatRecurringSchedule renders a schedule for display, e.g. "Weekly: Mon, Wed"
func FormatRecurringSchedule(s models.RecurringSchedule) string {
	var out string
	switch s.Type {
	case models.ScheduleDaily:
		out = "Daily"
	case models.ScheduleWeekly:
		days := make([]string, 0, len(s.Days))
		for _, d := range s.Days {
			if d >= 0 && d < len(weekdayNames) {
				days = append(days, weekdayNames[d])
			}
		}
		out = "Weekly: " + strings.Join(days, ", ")
	case models.ScheduleMonthly:
		out = fmt.Sprintf("Monthly: %d%s", s.DayOfMonth, ordinalSuffix(s.DayOfMonth))
	default:
		return "Unknown schedule"
	}
	if s.Until != "" {
		out += " until " + s.Until
	}
	return out
}

func ordinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	}
	return "th"
}

// Truncate shortens s to at most maxLen runes, ending in "..." when cut
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// StreakMilestone returns the celebration text for streak, or "" below the first milestone
func StreakMilestone(streak int) string {
	switch {
	case streak >= 30:
		return "Unstoppable — 30 day streak!"
	case streak >= 21:
		return "Incredible — 21 day streak!"
	case streak >= 7:
		return "Amazing — 7 day streak!"
	}
	return ""
}

// Plural returns singular when n == 1 and plural otherwise
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
