package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// FieldError is a single form validation failure, keyed by the JSON field name
type FieldError struct {
	Field   string
	Message string
}

// ValidationResult contains all detected field errors
type ValidationResult struct {
	Errors []FieldError
}

// HasErrors returns true if there are any field errors
func (vr ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// For returns the message for field, or "" when the field is valid
func (vr ValidationResult) For(field string) string {
	for _, fe := range vr.Errors {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Err folds the result into a single error, or nil when valid
func (vr ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	msgs := make([]string, len(vr.Errors))
	for i, fe := range vr.Errors {
		msgs[i] = fe.Message
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Validator checks request payloads before they are sent to the backend
type Validator struct {
	v *validator.Validate
}

// New creates a Validator with the habit-specific rules registered
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.HabitCategory(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.TaskPriority(fl.Field().String()).IsValid()
	})
	return &Validator{v: v}
}

func (val *Validator) ValidateHabit(h models.HabitCreate) ValidationResult {
	result := val.run(h, habitMessage)
	if msg := ScheduleError(h.RecurringSchedule); msg != "" {
		result.Errors = append(result.Errors, FieldError{Field: "recurring_schedule", Message: msg})
	}
	return result
}

func (val *Validator) ValidateHabitUpdate(h models.HabitUpdate) ValidationResult {
	result := val.run(h, habitMessage)
	if h.RecurringSchedule != nil {
		if msg := ScheduleError(*h.RecurringSchedule); msg != "" {
			result.Errors = append(result.Errors, FieldError{Field: "recurring_schedule", Message: msg})
		}
	}
	return result
}

func (val *Validator) ValidateTask(t models.TaskCreate) ValidationResult {
	return val.run(t, taskMessage)
}

func (val *Validator) ValidateTaskUpdate(t models.TaskUpdate) ValidationResult {
	return val.run(t, taskMessage)
}

func (val *Validator) ValidateCredentials(c models.Credentials) ValidationResult {
	return val.run(c, func(field, tag, param string) string {
		switch field {
		case "email":
			return "Enter a valid email address"
		case "password":
			if tag == "min" {
				return fmt.Sprintf("Password must be at least %s characters", param)
			}
			return "Password is required"
		}
		return field + " is invalid"
	})
}

func (val *Validator) run(s interface{}, message func(field, tag, param string) string) ValidationResult {
	var result ValidationResult
	err := val.v.Struct(s)
	if err == nil {
		return result
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.Errors = append(result.Errors, FieldError{Field: "", Message: err.Error()})
		return result
	}
	for _, fe := range verrs {
		result.Errors = append(result.Errors, FieldError{
			Field:   fe.Field(),
			Message: message(fe.Field(), fe.Tag(), fe.Param()),
		})
	}
	return result
}

func habitMessage(field, tag, param string) string {
	switch field {
	case "identity_statement":
		if tag == "max" {
			return "Identity statement must be 2000 characters or less"
		}
		return "Identity statement cannot be empty"
	case "two_minute_version":
		if tag == "max" {
			return "2-minute version must be 500 characters or less"
		}
		return "2-minute version cannot be empty"
	case "category":
		names := make([]string, len(models.HabitCategories))
		for i, c := range models.HabitCategories {
			names[i] = string(c)
		}
		return "Category must be one of: " + strings.Join(names, ", ")
	case "full_description":
		return "Full description must be 5000 characters or less"
	case "habit_stacking_cue":
		return "Habit stacking cue must be 500 characters or less"
	case "motivation":
		return "Motivation must be 2000 characters or less"
	case "anchor_habit_id":
		return "Anchor habit must be a valid habit id"
	case "status":
		return "Status must be active or archived"
	}
	return fmt.Sprintf("%s failed %s", field, tag)
}

func taskMessage(field, tag, param string) string {
	if strings.HasPrefix(field, "tags[") {
		field = "tags"
	}
	switch field {
	case "title":
		if tag == "max" {
			return "Title must be 500 characters or less"
		}
		return "Title cannot be empty"
	case "description":
		return "Description must be 5000 characters or less"
	case "priority":
		return "Priority must be high, medium, or low"
	case "status":
		return "Status must be pending, in_progress, or completed"
	case "tags":
		return "Tags cannot be blank"
	}
	return fmt.Sprintf("%s failed %s", field, tag)
}

// ScheduleError returns a message describing what is wrong with s, or "" if it is valid
func ScheduleError(s models.RecurringSchedule) string {
	switch s.Type {
	case "":
		return "Schedule type is required"
	case models.ScheduleDaily:
	case models.ScheduleWeekly:
		if len(s.Days) == 0 {
			return "Weekly habits must specify at least one day"
		}
		for _, d := range s.Days {
			if d < 0 || d > 6 {
				return "Days must be between 0 (Sunday) and 6 (Saturday)"
			}
		}
	case models.ScheduleMonthly:
		if s.DayOfMonth == 0 {
			return "Monthly habits must specify day_of_month"
		}
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return "day_of_month must be between 1 and 31"
		}
	default:
		return fmt.Sprintf("Unknown schedule type %q", s.Type)
	}
	if s.Until != "" {
		if _, err := time.Parse(constants.DateFormat, s.Until); err != nil {
			return "until must be a date (YYYY-MM-DD)"
		}
	}
	return ""
}
