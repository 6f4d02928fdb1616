package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/api/apitest"
	"github.com/julianstephens/habitual/internal/models"
)

const sample = `
habits:
  - identity_statement: I am a person who drinks coffee
    two_minute_version: Brew one cup
    category: Health & Fitness
    schedule:
      type: daily
  - identity_statement: I am a person who stretches
    two_minute_version: stretch
    category: Health & Fitness
    schedule:
      type: weekly
      days: [1, 3, 5]
    anchor: I am a person who drinks coffee
tasks:
  - title: Buy beans
    priority: high
    due_date: 2026-05-01
    tags: [errands, coffee]
  - title: Clean grinder
`

func signedIn(t *testing.T) (*api.Client, *apitest.Server, models.User) {
	t.Helper()
	srv := apitest.New(t)
	user := srv.SeedUser("a@b.co", "correcthorse")
	c, err := api.New(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Login(context.Background(), models.Credentials{Email: user.Email, Password: "correcthorse"}); err != nil {
		t.Fatal(err)
	}
	return c, srv, user
}

func TestParse(t *testing.T) {
	input, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(input.Habits) != 2 || len(input.Tasks) != 2 {
		t.Fatalf("got %d habits, %d tasks", len(input.Habits), len(input.Tasks))
	}
	if input.Habits[1].Anchor != "I am a person who drinks coffee" {
		t.Errorf("anchor = %q", input.Habits[1].Anchor)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"no entries":  "habits: []\ntasks: []\n",
		"unknown key": "tasks:\n  - title: x\n    colour: red\n",
		"bad yaml":    "tasks: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	input := &YAMLInput{
		Habits: []YAMLHabit{{IdentityStatement: "", TwoMinuteVersion: "x", Category: "Learning", Schedule: YAMLSchedule{Type: "daily"}}},
		Tasks:  []YAMLTask{{Title: "ok", DueDate: "tomorrow"}},
	}
	err := Validate(input, time.UTC)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "habit 1") || !strings.Contains(err.Error(), "task 1") {
		t.Errorf("error should mention both entries: %v", err)
	}
}

func TestImport(t *testing.T) {
	c, _, user := signedIn(t)
	ctx := context.Background()

	input, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	res, err := Import(ctx, c, user.ID, input, time.UTC)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(res.Habits) != 2 || len(res.Tasks) != 2 {
		t.Fatalf("created %d habits, %d tasks", len(res.Habits), len(res.Tasks))
	}

	stretch := res.Habits[1]
	if stretch.AnchorHabitID == nil || *stretch.AnchorHabitID != res.Habits[0].ID {
		t.Errorf("anchor not resolved: %v", stretch.AnchorHabitID)
	}
	if stretch.HabitStackingCue == nil || *stretch.HabitStackingCue != "After I drinks coffee, I will stretch" {
		t.Errorf("cue = %v", stretch.HabitStackingCue)
	}

	beans := res.Tasks[0]
	if beans.DueDate == nil || beans.DueDate.Format("2006-01-02") != "2026-05-01" {
		t.Errorf("due date = %v", beans.DueDate)
	}
	if beans.Priority != models.PriorityHigh || len(beans.Tags) != 2 {
		t.Errorf("task = %+v", beans)
	}
}

func TestImport_AnchorOnBackend(t *testing.T) {
	c, srv, user := signedIn(t)
	existing := srv.SeedHabit(user.ID, models.HabitCreate{
		IdentityStatement: "I am a person who makes the bed.",
		TwoMinuteVersion:  "Pull the sheet",
		Category:          models.CategoryOther,
	})

	input := &YAMLInput{Habits: []YAMLHabit{{
		IdentityStatement: "I am a person who meditates",
		TwoMinuteVersion:  "One breath",
		Category:          "Mindfulness",
		Schedule:          YAMLSchedule{Type: "daily"},
		Anchor:            "i am a person who makes the bed.",
	}}}

	res, err := Import(context.Background(), c, user.ID, input, time.UTC)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if *res.Habits[0].AnchorHabitID != existing.ID {
		t.Errorf("anchor = %s, want %s", *res.Habits[0].AnchorHabitID, existing.ID)
	}
}

func TestImport_UnknownAnchor(t *testing.T) {
	c, _, user := signedIn(t)
	input := &YAMLInput{Habits: []YAMLHabit{{
		IdentityStatement: "I am a person who reads",
		TwoMinuteVersion:  "One page",
		Category:          "Learning",
		Schedule:          YAMLSchedule{Type: "daily"},
		Anchor:            "nobody",
	}}}
	if _, err := Import(context.Background(), c, user.ID, input, time.UTC); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want anchor not found", err)
	}
}
