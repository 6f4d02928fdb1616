package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// YAMLSchedule mirrors the recurring schedule object
type YAMLSchedule struct {
	Type       string `yaml:"type"`
	Until      string `yaml:"until,omitempty"`
	Days       []int  `yaml:"days,omitempty"`
	DayOfMonth int    `yaml:"day_of_month,omitempty"`
}

// YAMLHabit is a habit in the import file. Anchor names another habit by its
// identity statement, either earlier in the same file or already on the
// backend; when the cue is empty one is generated from the anchor.
type YAMLHabit struct {
	IdentityStatement string       `yaml:"identity_statement"`
	TwoMinuteVersion  string       `yaml:"two_minute_version"`
	Category          string       `yaml:"category"`
	Schedule          YAMLSchedule `yaml:"schedule"`
	FullDescription   string       `yaml:"full_description,omitempty"`
	Motivation        string       `yaml:"motivation,omitempty"`
	Anchor            string       `yaml:"anchor,omitempty"`
	StackingCue       string       `yaml:"stacking_cue,omitempty"`
}

// YAMLTask is a task in the import file
type YAMLTask struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description,omitempty"`
	Priority    string   `yaml:"priority,omitempty"`
	Status      string   `yaml:"status,omitempty"`
	DueDate     string   `yaml:"due_date,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

// YAMLInput is the root of an import file
type YAMLInput struct {
	Habits []YAMLHabit `yaml:"habits"`
	Tasks  []YAMLTask  `yaml:"tasks"`
}

// Backend is the subset of the API client the importer needs
type Backend interface {
	ListHabits(ctx context.Context, userID string, f models.HabitFilters) (*models.HabitListResponse, error)
	CreateHabit(ctx context.Context, userID string, in models.HabitCreate) (*models.Habit, error)
	CreateTask(ctx context.Context, userID string, in models.TaskCreate) (*models.Task, error)
}

// Result summarizes an import
type Result struct {
	Habits []models.Habit
	Tasks  []models.Task
}

// Parse decodes an import file. Unknown keys are rejected so typos surface.
func Parse(r io.Reader) (*YAMLInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var input YAMLInput
	if err := dec.Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if len(input.Habits) == 0 && len(input.Tasks) == 0 {
		return nil, fmt.Errorf("no habits or tasks found in YAML")
	}
	return &input, nil
}

func (h YAMLHabit) toCreate() models.HabitCreate {
	return models.HabitCreate{
		IdentityStatement: strings.TrimSpace(h.IdentityStatement),
		TwoMinuteVersion:  strings.TrimSpace(h.TwoMinuteVersion),
		Category:          models.HabitCategory(h.Category),
		RecurringSchedule: models.RecurringSchedule{
			Type:       models.ScheduleType(h.Schedule.Type),
			Until:      h.Schedule.Until,
			Days:       h.Schedule.Days,
			DayOfMonth: h.Schedule.DayOfMonth,
		},
		FullDescription:  h.FullDescription,
		Motivation:       h.Motivation,
		HabitStackingCue: h.StackingCue,
	}
}

func (t YAMLTask) toCreate(loc *time.Location) (models.TaskCreate, error) {
	out := models.TaskCreate{
		Title:       strings.TrimSpace(t.Title),
		Description: t.Description,
		Priority:    models.TaskPriority(t.Priority),
		Status:      models.TaskStatus(t.Status),
		Tags:        t.Tags,
	}
	if t.DueDate != "" {
		due, err := utils.ParseDate(t.DueDate, loc)
		if err != nil {
			return out, err
		}
		out.DueDate = &due
	}
	return out, nil
}

type prepared struct {
	habits  []models.HabitCreate
	anchors []string
	tasks   []models.TaskCreate
}

// prepare converts and validates every entry so that nothing is created
// when any entry is invalid
func prepare(input *YAMLInput, loc *time.Location) (*prepared, error) {
	v := validation.New()
	p := &prepared{}
	var problems []string

	for i, h := range input.Habits {
		hc := h.toCreate()
		if r := v.ValidateHabit(hc); r.HasErrors() {
			problems = append(problems, fmt.Sprintf("habit %d (%q): %v", i+1, utils.Truncate(hc.IdentityStatement, 40), r.Err()))
		}
		p.habits = append(p.habits, hc)
		p.anchors = append(p.anchors, strings.TrimSpace(h.Anchor))
	}
	for i, t := range input.Tasks {
		tc, err := t.toCreate(loc)
		if err != nil {
			problems = append(problems, fmt.Sprintf("task %d (%q): %v", i+1, t.Title, err))
			continue
		}
		if r := v.ValidateTask(tc); r.HasErrors() {
			problems = append(problems, fmt.Sprintf("task %d (%q): %v", i+1, t.Title, r.Err()))
		}
		p.tasks = append(p.tasks, tc)
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid import file:\n  %s", strings.Join(problems, "\n  "))
	}
	return p, nil
}

// Validate checks an import file without contacting the backend
func Validate(input *YAMLInput, loc *time.Location) error {
	_, err := prepare(input, loc)
	return err
}

// Import creates the habits (in file order, so anchors may refer to earlier
// entries) and then the tasks. It stops at the first backend error and
// returns what was created so far.
func Import(ctx context.Context, b Backend, userID string, input *YAMLInput, loc *time.Location) (*Result, error) {
	p, err := prepare(input, loc)
	if err != nil {
		return nil, err
	}

	known := map[string]models.Habit{}
	if anyAnchor(p.anchors) {
		existing, err := b.ListHabits(ctx, userID, models.NewHabitFilters("", models.StatusSelectAll, 0))
		if err != nil {
			return nil, fmt.Errorf("failed to load existing habits: %w", err)
		}
		for _, h := range existing.Habits {
			known[strings.ToLower(h.IdentityStatement)] = h
		}
	}

	res := &Result{}
	for i, hc := range p.habits {
		if name := p.anchors[i]; name != "" {
			anchor, ok := known[strings.ToLower(name)]
			if !ok {
				return res, fmt.Errorf("habit %q: anchor %q not found", hc.IdentityStatement, name)
			}
			hc.AnchorHabitID = anchor.ID
			if hc.HabitStackingCue == "" {
				hc.HabitStackingCue = utils.GenerateStackingCue(anchor.IdentityStatement, hc.TwoMinuteVersion)
			}
		}
		created, err := b.CreateHabit(ctx, userID, hc)
		if err != nil {
			return res, fmt.Errorf("create habit %q: %w", hc.IdentityStatement, err)
		}
		known[strings.ToLower(created.IdentityStatement)] = *created
		res.Habits = append(res.Habits, *created)
	}

	for _, tc := range p.tasks {
		created, err := b.CreateTask(ctx, userID, tc)
		if err != nil {
			return res, fmt.Errorf("create task %q: %w", tc.Title, err)
		}
		res.Tasks = append(res.Tasks, *created)
	}
	return res, nil
}

func anyAnchor(anchors []string) bool {
	for _, a := range anchors {
		if a != "" {
			return true
		}
	}
	return false
}
