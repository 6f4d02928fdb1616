package validation

import (
	"testing"

	"github.com/julianstephens/habitual/internal/models"
)

func TestScheduleError(t *testing.T) {
	tests := []struct {
		name     string
		schedule models.RecurringSchedule
		want     string
	}{
		{"daily", models.RecurringSchedule{Type: models.ScheduleDaily}, ""},
		{"weekly weekdays", models.RecurringSchedule{Type: models.ScheduleWeekly, Days: []int{1, 2, 3, 4, 5}}, ""},
		{"weekly sunday", models.RecurringSchedule{Type: models.ScheduleWeekly, Days: []int{0}}, ""},
		{"weekly no days", models.RecurringSchedule{Type: models.ScheduleWeekly}, "Weekly habits must specify at least one day"},
		{"weekly bad day", models.RecurringSchedule{Type: models.ScheduleWeekly, Days: []int{7}}, "Days must be between 0 (Sunday) and 6 (Saturday)"},
		{"monthly", models.RecurringSchedule{Type: models.ScheduleMonthly, DayOfMonth: 31}, ""},
		{"monthly missing day", models.RecurringSchedule{Type: models.ScheduleMonthly}, "Monthly habits must specify day_of_month"},
		{"monthly out of range", models.RecurringSchedule{Type: models.ScheduleMonthly, DayOfMonth: 32}, "day_of_month must be between 1 and 31"},
		{"until", models.RecurringSchedule{Type: models.ScheduleDaily, Until: "2026-12-31"}, ""},
		{"bad until", models.RecurringSchedule{Type: models.ScheduleDaily, Until: "next year"}, "until must be a date (YYYY-MM-DD)"},
		{"missing type", models.RecurringSchedule{}, "Schedule type is required"},
		{"unknown type", models.RecurringSchedule{Type: "hourly"}, `Unknown schedule type "hourly"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScheduleError(tt.schedule); got != tt.want {
				t.Errorf("ScheduleError() = %q, want %q", got, tt.want)
			}
		})
	}
}
