package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// CredentialsFormModel backs the login and register forms
type CredentialsFormModel struct {
	Email    string
	Password string
	Confirm  string
}

func (fm *CredentialsFormModel) Credentials() models.Credentials {
	return models.Credentials{Email: strings.TrimSpace(fm.Email), Password: fm.Password}
}

// HabitFormModel backs the create and edit habit form
type HabitFormModel struct {
	EditingID         string
	IdentityStatement string
	TwoMinuteVersion  string
	FullDescription   string
	Motivation        string
	Category          models.HabitCategory
	ScheduleType      models.ScheduleType
	Days              []int
	DayOfMonth        string
	Until             string
	AnchorID          string
	StackingCue       string

	anchors    []models.Habit
	lastAnchor string
	cueInput   *huh.Input
}

// NewHabitFormModel prefills the form from h when editing. anchors are the
// habits that may be chosen as the anchor; h itself is never offered.
func NewHabitFormModel(h *models.Habit, anchors []models.Habit) *HabitFormModel {
	fm := &HabitFormModel{
		IdentityStatement: constants.IdentityPrefix,
		Category:          models.CategoryHealthFitness,
		ScheduleType:      models.ScheduleDaily,
	}
	if h != nil {
		fm.EditingID = h.ID
		fm.IdentityStatement = h.IdentityStatement
		fm.TwoMinuteVersion = h.TwoMinuteVersion
		fm.FullDescription = deref(h.FullDescription)
		fm.Motivation = deref(h.Motivation)
		fm.Category = h.Category
		fm.ScheduleType = h.RecurringSchedule.Type
		fm.Days = append([]int(nil), h.RecurringSchedule.Days...)
		if h.RecurringSchedule.DayOfMonth > 0 {
			fm.DayOfMonth = strconv.Itoa(h.RecurringSchedule.DayOfMonth)
		}
		fm.Until = h.RecurringSchedule.Until
		fm.AnchorID = deref(h.AnchorHabitID)
		fm.StackingCue = deref(h.HabitStackingCue)
		fm.lastAnchor = fm.AnchorID
	}
	for _, a := range anchors {
		if h == nil || a.ID != h.ID {
			fm.anchors = append(fm.anchors, a)
		}
	}
	return fm
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (fm *HabitFormModel) anchor() (models.Habit, bool) {
	for _, a := range fm.anchors {
		if a.ID == fm.AnchorID {
			return a, true
		}
	}
	return models.Habit{}, false
}

// GeneratedCue is the stacking cue suggested for the chosen anchor, or ""
// when no anchor is chosen
func (fm *HabitFormModel) GeneratedCue() string {
	a, ok := fm.anchor()
	if !ok {
		return ""
	}
	return utils.GenerateStackingCue(a.IdentityStatement, strings.TrimSpace(fm.TwoMinuteVersion))
}

// SyncCue replaces the cue with the generated one whenever the anchor
// changed since the last call, and clears it when the anchor is removed.
// It reports whether the cue was replaced.
func (fm *HabitFormModel) SyncCue() bool {
	if fm.AnchorID == fm.lastAnchor {
		return false
	}
	fm.lastAnchor = fm.AnchorID
	fm.StackingCue = fm.GeneratedCue()
	if fm.cueInput != nil {
		fm.cueInput.Value(&fm.StackingCue)
	}
	return true
}

// Cue is the cue that will be saved
func (fm *HabitFormModel) Cue() string {
	return strings.TrimSpace(fm.StackingCue)
}

func (fm *HabitFormModel) schedule() models.RecurringSchedule {
	s := models.RecurringSchedule{Type: fm.ScheduleType, Until: strings.TrimSpace(fm.Until)}
	switch fm.ScheduleType {
	case models.ScheduleWeekly:
		s.Days = append([]int(nil), fm.Days...)
	case models.ScheduleMonthly:
		s.DayOfMonth, _ = strconv.Atoi(strings.TrimSpace(fm.DayOfMonth))
	}
	return s
}

func (fm *HabitFormModel) ToCreate() models.HabitCreate {
	return models.HabitCreate{
		IdentityStatement: strings.TrimSpace(fm.IdentityStatement),
		TwoMinuteVersion:  strings.TrimSpace(fm.TwoMinuteVersion),
		Category:          fm.Category,
		RecurringSchedule: fm.schedule(),
		FullDescription:   strings.TrimSpace(fm.FullDescription),
		Motivation:        strings.TrimSpace(fm.Motivation),
		AnchorHabitID:     fm.AnchorID,
		HabitStackingCue:  fm.Cue(),
	}
}

// ToUpdate sends every field so that cleared optional text is cleared on
// the backend too. An empty anchor is left out.
func (fm *HabitFormModel) ToUpdate() models.HabitUpdate {
	c := fm.ToCreate()
	schedule := c.RecurringSchedule
	u := models.HabitUpdate{
		IdentityStatement: &c.IdentityStatement,
		TwoMinuteVersion:  &c.TwoMinuteVersion,
		FullDescription:   &c.FullDescription,
		Motivation:        &c.Motivation,
		Category:          &c.Category,
		RecurringSchedule: &schedule,
		HabitStackingCue:  &c.HabitStackingCue,
	}
	if c.AnchorHabitID != "" {
		u.AnchorHabitID = &c.AnchorHabitID
	}
	return u
}

// TaskFormModel backs the create and edit task form. Tags are comma separated.
type TaskFormModel struct {
	EditingID   string
	Title       string
	Description string
	Priority    models.TaskPriority
	Status      models.TaskStatus
	DueDate     string
	Tags        string

	suggestions []string
}

func NewTaskFormModel(t *models.Task, suggestions []string) *TaskFormModel {
	fm := &TaskFormModel{Status: models.TaskStatusPending, suggestions: suggestions}
	if t != nil {
		fm.EditingID = t.ID
		fm.Title = t.Title
		fm.Description = deref(t.Description)
		fm.Priority = t.Priority
		fm.Status = t.Status
		if t.DueDate != nil {
			fm.DueDate = t.DueDate.Format(constants.DateFormat)
		}
		fm.Tags = strings.Join(t.Tags, ", ")
	}
	return fm
}

// SplitTags turns "a, b,,c" into [a b c], dropping duplicates
func SplitTags(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func (fm *TaskFormModel) dueDate(loc *time.Location) (*time.Time, error) {
	s := strings.TrimSpace(fm.DueDate)
	if s == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(s, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (fm *TaskFormModel) ToCreate(loc *time.Location) (models.TaskCreate, error) {
	due, err := fm.dueDate(loc)
	if err != nil {
		return models.TaskCreate{}, err
	}
	return models.TaskCreate{
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		Priority:    fm.Priority,
		Status:      fm.Status,
		Tags:        SplitTags(fm.Tags),
		DueDate:     due,
	}, nil
}

func (fm *TaskFormModel) ToUpdate(loc *time.Location) (models.TaskUpdate, error) {
	c, err := fm.ToCreate(loc)
	if err != nil {
		return models.TaskUpdate{}, err
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.TaskUpdate{
		Title:       &c.Title,
		Description: &c.Description,
		Priority:    &c.Priority,
		Status:      &c.Status,
		Tags:        tags,
		DueDate:     c.DueDate,
	}, nil
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func optionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

// NewLoginForm creates the sign-in form
func NewLoginForm(fm *CredentialsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(notBlank("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(notBlank("password")),
		).Title("Log in").Description("ctrl+r to create an account"),
	).WithTheme(huh.ThemeDracula())
}

// NewRegisterForm creates the sign-up form
func NewRegisterForm(fm *CredentialsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(notBlank("email")),
			huh.NewInput().
				Title("Password").
				Description("At least 8 characters").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(func(s string) error {
					if len(s) < 8 {
						return fmt.Errorf("password must be at least 8 characters")
					}
					return nil
				}),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Confirm).
				Validate(func(s string) error {
					if s != fm.Password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		).Title("Create account").Description("ctrl+l to log in instead"),
	).WithTheme(huh.ThemeDracula())
}

var weekdayOptions = []huh.Option[int]{
	huh.NewOption("Sunday", 0),
	huh.NewOption("Monday", 1),
	huh.NewOption("Tuesday", 2),
	huh.NewOption("Wednesday", 3),
	huh.NewOption("Thursday", 4),
	huh.NewOption("Friday", 5),
	huh.NewOption("Saturday", 6),
}

func categoryOptions() []huh.Option[models.HabitCategory] {
	opts := make([]huh.Option[models.HabitCategory], len(models.HabitCategories))
	for i, c := range models.HabitCategories {
		opts[i] = huh.NewOption(string(c), c)
	}
	return opts
}

func (fm *HabitFormModel) anchorOptions() []huh.Option[string] {
	opts := []huh.Option[string]{huh.NewOption("None", "")}
	for _, a := range fm.anchors {
		opts = append(opts, huh.NewOption(utils.Truncate(a.IdentityStatement, 60), a.ID))
	}
	return opts
}

func (fm *HabitFormModel) newCueInput() *huh.Input {
	fm.cueInput = huh.NewInput().
		Title("Stacking cue").
		DescriptionFunc(func() string {
			if fm.AnchorID != "" {
				return "Generated from the anchor, edit freely (ctrl+y copies)"
			}
			return "Optional"
		}, &fm.AnchorID).
		CharLimit(constants.MaxStackingCueLen).
		Value(&fm.StackingCue)
	return fm.cueInput
}

// NewHabitForm creates the habit form. Choosing an anchor fills the stacking
// cue with a generated one; ctrl+y copies it.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	title := "New habit"
	if fm.EditingID != "" {
		title = "Edit habit"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Identity statement").
				Placeholder("I am a person who ...").
				CharLimit(constants.MaxIdentityStatementLen).
				Value(&fm.IdentityStatement).
				Validate(notBlank("identity statement")),
			huh.NewInput().
				Title("2-minute version").
				Description("The smallest version you can always do").
				CharLimit(constants.MaxTwoMinuteVersionLen).
				Value(&fm.TwoMinuteVersion).
				Validate(notBlank("2-minute version")),
			huh.NewSelect[models.HabitCategory]().
				Title("Category").
				Options(categoryOptions()...).
				Value(&fm.Category),
			huh.NewText().
				Title("Full description").
				CharLimit(constants.MaxFullDescriptionLen).
				Value(&fm.FullDescription),
			huh.NewText().
				Title("Motivation").
				CharLimit(constants.MaxMotivationLen).
				Value(&fm.Motivation),
		).Title(title),
		huh.NewGroup(
			huh.NewSelect[models.ScheduleType]().
				Title("Schedule").
				Options(
					huh.NewOption("Daily", models.ScheduleDaily),
					huh.NewOption("Weekly", models.ScheduleWeekly),
					huh.NewOption("Monthly", models.ScheduleMonthly),
				).
				Value(&fm.ScheduleType),
			huh.NewInput().
				Title("Until").
				Description("Optional end date (YYYY-MM-DD)").
				Value(&fm.Until).
				Validate(optionalDate),
		),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Days").
				Options(weekdayOptions...).
				Value(&fm.Days).
				Validate(func(days []int) error {
					if len(days) == 0 {
						return fmt.Errorf("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.ScheduleType != models.ScheduleWeekly }),
		huh.NewGroup(
			huh.NewInput().
				Title("Day of month").
				Value(&fm.DayOfMonth).
				Validate(func(s string) error {
					d, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || d < 1 || d > 31 {
						return fmt.Errorf("day of month must be 1-31")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return fm.ScheduleType != models.ScheduleMonthly }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Stack on").
				Description("Do this habit right after another one").
				Options(fm.anchorOptions()...).
				Value(&fm.AnchorID),
			fm.newCueInput(),
		),
	).WithTheme(huh.ThemeDracula())
}

func priorityOptions() []huh.Option[models.TaskPriority] {
	return []huh.Option[models.TaskPriority]{
		huh.NewOption("None", models.PriorityNone),
		huh.NewOption("High", models.PriorityHigh),
		huh.NewOption("Medium", models.PriorityMedium),
		huh.NewOption("Low", models.PriorityLow),
	}
}

// NewTaskForm creates the task form; tag suggestions come from the tags endpoint
func NewTaskForm(fm *TaskFormModel) *huh.Form {
	title := "New task"
	if fm.EditingID != "" {
		title = "Edit task"
	}
	tagHelp := "Comma separated"
	if len(fm.suggestions) > 0 {
		tagHelp += ". In use: " + utils.Truncate(strings.Join(fm.suggestions, ", "), 80)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				CharLimit(constants.MaxTaskTitleLen).
				Value(&fm.Title).
				Validate(notBlank("title")),
			huh.NewText().
				Title("Description").
				CharLimit(constants.MaxTaskDescriptionLen).
				Value(&fm.Description),
			huh.NewSelect[models.TaskPriority]().
				Title("Priority").
				Options(priorityOptions()...).
				Value(&fm.Priority),
			huh.NewSelect[models.TaskStatus]().
				Title("Status").
				Options(
					huh.NewOption("Pending", models.TaskStatusPending),
					huh.NewOption("In progress", models.TaskStatusInProgress),
					huh.NewOption("Completed", models.TaskStatusCompleted),
				).
				Value(&fm.Status),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD, optional").
				Value(&fm.DueDate).
				Validate(optionalDate),
			huh.NewInput().
				Title("Tags").
				Description(tagHelp).
				Suggestions(fm.suggestions).
				Value(&fm.Tags),
		).Title(title),
	).WithTheme(huh.ThemeDracula())
}
