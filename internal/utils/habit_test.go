package utils

import (
	"testing"

	"github.com/julianstephens/habitual/internal/models"
)

func TestGenerateStackingCue(t *testing.T) {
	tests := []struct {
		name      string
		identity  string
		twoMinute string
		expected  string
	}{
		{
			name:      "standard identity",
			identity:  "I am a person who drinks coffee",
			twoMinute: "stretch",
			expected:  "After I drinks coffee, I will stretch",
		},
		{
			name:      "trailing period stripped",
			identity:  "I am a person who makes the bed.",
			twoMinute: "meditate for one breath",
			expected:  "After I makes the bed, I will meditate for one breath",
		},
		{
			name:      "prefix match is case insensitive",
			identity:  "i am a PERSON who walks the dog",
			twoMinute: "floss one tooth",
			expected:  "After I walks the dog, I will floss one tooth",
		},
		{
			name:      "empty two minute version",
			identity:  "I am a person who drinks coffee",
			twoMinute: "",
			expected:  "After I drinks coffee, I will ...",
		},
		{
			name:      "missing prefix is left alone",
			identity:  "Runner",
			twoMinute: "stretch",
			expected:  "After I Runner, I will stretch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateStackingCue(tt.identity, tt.twoMinute)
			if got != tt.expected {
				t.Errorf("GenerateStackingCue(%q, %q) = %q, want %q", tt.identity, tt.twoMinute, got, tt.expected)
			}
		})
	}
}

func TestFormatRecurringSchedule(t *testing.T) {
	tests := []struct {
		schedule models.RecurringSchedule
		expected string
	}{
		{models.RecurringSchedule{Type: models.ScheduleDaily}, "Daily"},
		{models.RecurringSchedule{Type: models.ScheduleWeekly, Days: []int{1, 3, 5}}, "Weekly: Mon, Wed, Fri"},
		{models.RecurringSchedule{Type: models.ScheduleMonthly, DayOfMonth: 1}, "Monthly: 1st"},
		{models.RecurringSchedule{Type: models.ScheduleMonthly, DayOfMonth: 22}, "Monthly: 22nd"},
		{models.RecurringSchedule{Type: models.ScheduleMonthly, DayOfMonth: 13}, "Monthly: 13th"},
		{models.RecurringSchedule{Type: models.ScheduleDaily, Until: "2026-12-31"}, "Daily until 2026-12-31"},
		{models.RecurringSchedule{Type: "yearly"}, "Unknown schedule"},
	}

	for _, tt := range tests {
		if got := FormatRecurringSchedule(tt.schedule); got != tt.expected {
			t.Errorf("FormatRecurringSchedule(%+v) = %q, want %q", tt.schedule, got, tt.expected)
		}
	}
}

func TestStreakMilestone(t *testing.T) {
	cases := map[int]string{
		0:  "",
		6:  "",
		7:  "Amazing — 7 day streak!",
		20: "Amazing — 7 day streak!",
		21: "Incredible — 21 day streak!",
		30: "Unstoppable — 30 day streak!",
		99: "Unstoppable — 30 day streak!",
	}
	for streak, want := range cases {
		if got := StreakMilestone(streak); got != want {
			t.Errorf("StreakMilestone(%d) = %q, want %q", streak, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 50); got != "short" {
		t.Errorf("Truncate kept = %q", got)
	}
	if got := Truncate("I am a person who writes very long identity statements", 20); got != "I am a person who..." {
		t.Errorf("Truncate cut = %q", got)
	}
}
