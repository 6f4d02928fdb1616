package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/api/apitest"
	"github.com/julianstephens/habitual/internal/cache"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/sound"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

const (
	testEmail    = "reader@example.com"
	testPassword = "correcthorse"
)

type testEnv struct {
	ctx  *Context
	srv  *apitest.Server
	user models.User
	out  *bytes.Buffer
	errs *bytes.Buffer
}

func (e *testEnv) reset() {
	e.out.Reset()
	e.errs.Reset()
}

// newTestEnv builds a Context against a fake backend. The user is signed in
// unless signedOut is set.
func newTestEnv(t *testing.T, signedOut bool) *testEnv {
	t.Helper()
	gokeyring.MockInit()
	sound.SetEnabled(false)

	srv := apitest.New(t)
	user := srv.SeedUser(testEmail, testPassword)

	dir := t.TempDir()
	cfg, err := config.Load(filepath.Join(dir, "config.yaml"), config.Overrides{APIURL: srv.URL})
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}
	cfg.Timezone = "UTC"
	cfg.Timeout = 2 * time.Second

	client, err := api.New(cfg.APIURL, api.WithTimeout(cfg.Timeout))
	if err != nil {
		t.Fatal(err)
	}
	store, err := cache.Open(context.Background(), cfg.CachePath())
	if err != nil {
		t.Fatalf("cache.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	env := &testEnv{srv: srv, user: user, out: &bytes.Buffer{}, errs: &bytes.Buffer{}}
	env.ctx = &Context{
		Config:     cfg,
		ConfigPath: filepath.Join(dir, "config.yaml"),
		Client:     client,
		Session:    session.NewManager(client, keyring.New(""), session.WithUserCache(store)),
		Cache:      store,
		Validator:  validation.New(),
		Out:        env.out,
		Err:        env.errs,
	}

	if !signedOut {
		creds := models.Credentials{Email: testEmail, Password: testPassword}
		if _, err := env.ctx.Session.SignIn(context.Background(), creds); err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
	}
	return env
}

func (e *testEnv) seedHabit(identity string, anchor string) models.Habit {
	return e.srv.SeedHabit(e.user.ID, models.HabitCreate{
		IdentityStatement: identity,
		TwoMinuteVersion:  "do it for two minutes",
		Category:          models.CategoryLearning,
		RecurringSchedule: models.RecurringSchedule{Type: models.ScheduleDaily},
		AnchorHabitID:     anchor,
	})
}

func TestRequireUser_NoSession(t *testing.T) {
	env := newTestEnv(t, true)
	_, err := env.ctx.RequireUser()
	if !errors.Is(err, ErrLoginRequired) {
		t.Fatalf("RequireUser error = %v, want ErrLoginRequired", err)
	}

	err = (&HabitListCmd{Status: "active"}).Run(env.ctx)
	if !errors.Is(err, ErrLoginRequired) {
		t.Errorf("habit list error = %v, want ErrLoginRequired", err)
	}
}

func TestAuthLogout_NotLoggedIn(t *testing.T) {
	env := newTestEnv(t, true)
	if err := (&AuthLogoutCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Not logged in") {
		t.Errorf("output = %q", env.out.String())
	}
}

func TestAuthLogin_PasswordFlag(t *testing.T) {
	env := newTestEnv(t, true)
	cmd := &AuthLoginCmd{CredentialFlags{Email: testEmail, Password: testPassword}}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Logged in as "+testEmail) {
		t.Errorf("output = %q", env.out.String())
	}

	env.reset()
	if err := (&AuthWhoamiCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	if !strings.Contains(env.out.String(), env.user.ID) {
		t.Errorf("whoami output = %q", env.out.String())
	}
}

func TestAuthLogin_PromptsForPassword(t *testing.T) {
	env := newTestEnv(t, true)
	orig := promptPassword
	t.Cleanup(func() { promptPassword = orig })

	prompts := 0
	promptPassword = func(string) (string, error) {
		prompts++
		return testPassword, nil
	}
	if err := (&AuthLoginCmd{CredentialFlags{Email: testEmail}}).Run(env.ctx); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if prompts != 1 {
		t.Errorf("prompted %d times, want 1", prompts)
	}
}

func TestAuthRegister_PasswordMismatch(t *testing.T) {
	env := newTestEnv(t, true)
	orig := promptPassword
	t.Cleanup(func() { promptPassword = orig })

	answers := []string{"firstpassword", "secondpassword"}
	promptPassword = func(string) (string, error) {
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	err := (&AuthRegisterCmd{CredentialFlags{Email: "new@example.com"}}).Run(env.ctx)
	if err == nil || !strings.Contains(err.Error(), "do not match") {
		t.Fatalf("register error = %v", err)
	}
}

func TestHabitAddListComplete(t *testing.T) {
	env := newTestEnv(t, false)

	add := &HabitAddCmd{
		Identity:  "I am a person who reads",
		TwoMinute: "read one page",
		Category:  "learning",
	}
	if err := add.Run(env.ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Created habit: I am a person who reads") {
		t.Errorf("add output = %q", env.out.String())
	}

	env.reset()
	if err := (&HabitListCmd{Status: "active"}).Run(env.ctx); err != nil {
		t.Fatalf("habit list failed: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "I am a person who reads") || !strings.Contains(out, "Daily") {
		t.Errorf("list output = %q", out)
	}

	resp, err := env.ctx.Client.ListHabits(context.Background(), env.user.ID,
		models.NewHabitFilters("", models.StatusSelectAll, 10))
	if err != nil || len(resp.Habits) != 1 {
		t.Fatalf("ListHabits = %+v, %v", resp, err)
	}
	id := resp.Habits[0].ID

	env.reset()
	if err := (&HabitCompleteCmd{ID: id}).Run(env.ctx); err != nil {
		t.Fatalf("habit complete failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Completed") || !strings.Contains(env.out.String(), "1 day") {
		t.Errorf("complete output = %q", env.out.String())
	}

	env.reset()
	if err := (&HabitCompleteCmd{ID: id, TwoMinute: true}).Run(env.ctx); err != nil {
		t.Fatalf("second complete failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "Already completed today") {
		t.Errorf("second complete output = %q", env.out.String())
	}
}

func TestHabitAdd_InvalidInput(t *testing.T) {
	env := newTestEnv(t, false)
	tests := []struct {
		name string
		cmd  HabitAddCmd
	}{
		{"blank identity", HabitAddCmd{Identity: "  ", TwoMinute: "read", Category: "Other"}},
		{"unknown category", HabitAddCmd{Identity: "I read", TwoMinute: "read", Category: "Chores"}},
		{"weekly without days", HabitAddCmd{Identity: "I read", TwoMinute: "read", Category: "Other",
			ScheduleFlags: ScheduleFlags{Schedule: "weekly"}}},
		{"bad weekday", HabitAddCmd{Identity: "I read", TwoMinute: "read", Category: "Other",
			ScheduleFlags: ScheduleFlags{Schedule: "weekly", Days: "funday"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(env.ctx); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if n := env.srv.Requests("POST", "/api/{uid}/habits"); n != 0 {
		t.Errorf("%d create requests reached the backend", n)
	}
}

func TestHabitAdd_GeneratesCueFromAnchor(t *testing.T) {
	env := newTestEnv(t, false)
	anchor := env.seedHabit("I am a person who drinks coffee", "")

	add := &HabitAddCmd{
		Identity:  "I am a person who stretches",
		TwoMinute: "touch my toes",
		Category:  "Other",
		Anchor:    anchor.ID,
	}
	if err := add.Run(env.ctx); err != nil {
		t.Fatalf("habit add failed: %v", err)
	}
	want := utils.GenerateStackingCue(anchor.IdentityStatement, "touch my toes")
	if !strings.Contains(env.out.String(), want) {
		t.Errorf("output %q does not contain cue %q", env.out.String(), want)
	}
}

func TestHabitEdit_MergesSchedule(t *testing.T) {
	env := newTestEnv(t, false)
	h := env.seedHabit("I am a person who runs", "")

	edit := &HabitEditCmd{ID: h.ID, ScheduleFlags: ScheduleFlags{Schedule: "weekly", Days: "mon,fri"}}
	if err := edit.Run(env.ctx); err != nil {
		t.Fatalf("habit edit failed: %v", err)
	}
	got, err := env.ctx.Client.GetHabit(context.Background(), env.user.ID, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RecurringSchedule.Type != models.ScheduleWeekly || len(got.RecurringSchedule.Days) != 2 {
		t.Errorf("schedule = %+v", got.RecurringSchedule)
	}

	if err := (&HabitEditCmd{ID: h.ID}).Run(env.ctx); err == nil {
		t.Error("edit without flags should fail")
	}
}

func TestHabitDelete_Anchor(t *testing.T) {
	env := newTestEnv(t, false)
	anchor := env.seedHabit("I am a person who wakes early", "")
	env.seedHabit("I am a person who meditates", anchor.ID)

	err := (&HabitDeleteCmd{ID: anchor.ID}).Run(env.ctx)
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("delete error = %v, want a --force hint", err)
	}

	if err := (&HabitDeleteCmd{ID: anchor.ID, Force: true}).Run(env.ctx); err != nil {
		t.Fatalf("forced delete failed: %v", err)
	}
	if _, err := env.ctx.Client.GetHabit(context.Background(), env.user.ID, anchor.ID); !api.IsNotFound(err) {
		t.Errorf("habit still present: %v", err)
	}
}

func TestHabitArchiveRestore(t *testing.T) {
	env := newTestEnv(t, false)
	h := env.seedHabit("I am a person who journals", "")

	if err := (&HabitArchiveCmd{ID: h.ID}).Run(env.ctx); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	env.reset()
	if err := (&HabitListCmd{Status: "active"}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "No habits found") {
		t.Errorf("active list after archive = %q", env.out.String())
	}

	if err := (&HabitRestoreCmd{ID: h.ID}).Run(env.ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	env.reset()
	if err := (&HabitListCmd{Status: "active"}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "journals") {
		t.Errorf("active list after restore = %q", env.out.String())
	}
}

func TestHabitHistoryAndUndo(t *testing.T) {
	env := newTestEnv(t, false)
	h := env.seedHabit("I am a person who reads", "")
	c := env.srv.SeedCompletion(h.ID, time.Now().UTC(), models.CompletionTwoMinute)

	if err := (&HabitHistoryCmd{ID: h.ID, Days: 7}).Run(env.ctx); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(env.out.String(), c.ID) {
		t.Errorf("history output = %q", env.out.String())
	}

	env.reset()
	if err := (&HabitUndoCmd{ID: h.ID, CompletionID: c.ID}).Run(env.ctx); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "no streak") {
		t.Errorf("undo output = %q", env.out.String())
	}
}

func TestFetch_FallsBackToCacheWhenOffline(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedHabit("I am a person who reads", "")

	if err := (&HabitListCmd{Status: "active"}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	env.srv.Close()

	env.reset()
	if err := (&HabitListCmd{Status: "active"}).Run(env.ctx); err != nil {
		t.Fatalf("offline list failed: %v", err)
	}
	if !strings.Contains(env.out.String(), "I am a person who reads") {
		t.Errorf("offline output = %q", env.out.String())
	}
	if !strings.Contains(env.errs.String(), "backend unreachable") {
		t.Errorf("stderr = %q", env.errs.String())
	}

	// nothing cached for this filter
	err := (&HabitListCmd{Status: "archived"}).Run(env.ctx)
	if !api.IsNetwork(err) {
		t.Errorf("uncached offline list error = %v", err)
	}
}

func TestMutationInvalidatesCache(t *testing.T) {
	env := newTestEnv(t, false)
	if err := (&TaskListCmd{Status: "all", Priority: "all", Sort: "created_desc", Limit: 20}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	keys, _ := env.ctx.Cache.Keys(context.Background(), env.user.ID)
	if len(keys) != 1 {
		t.Fatalf("keys after list = %v", keys)
	}

	if err := (&TaskAddCmd{Title: "Buy beans", Priority: "none", Status: "pending"}).Run(env.ctx); err != nil {
		t.Fatalf("task add failed: %v", err)
	}
	keys, _ = env.ctx.Cache.Keys(context.Background(), env.user.ID)
	if len(keys) != 0 {
		t.Errorf("keys after add = %v", keys)
	}
}

func TestTaskListFilters(t *testing.T) {
	env := newTestEnv(t, false)
	env.srv.SeedTask(env.user.ID, models.TaskCreate{Title: "Buy beans", Priority: models.PriorityHigh, Tags: []string{"errands"}})
	env.srv.SeedTask(env.user.ID, models.TaskCreate{Title: "Clean grinder", Priority: models.PriorityLow})

	cmd := &TaskListCmd{Status: "all", Priority: "high", Sort: "created_desc", Limit: 20}
	if err := cmd.Run(env.ctx); err != nil {
		t.Fatal(err)
	}
	out := env.out.String()
	if !strings.Contains(out, "Buy beans") || strings.Contains(out, "Clean grinder") {
		t.Errorf("filtered output = %q", out)
	}
	if !strings.Contains(out, "#errands") {
		t.Errorf("tags missing from %q", out)
	}
}

func TestTaskEdit_ClearsTags(t *testing.T) {
	env := newTestEnv(t, false)
	task := env.srv.SeedTask(env.user.ID, models.TaskCreate{Title: "Buy beans", Tags: []string{"errands", "coffee"}})

	empty := ""
	if err := (&TaskEditCmd{ID: task.ID, Tags: &empty}).Run(env.ctx); err != nil {
		t.Fatalf("task edit failed: %v", err)
	}
	got, err := env.ctx.Client.GetTask(context.Background(), env.user.ID, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("tags = %v, want none", got.Tags)
	}
}

func TestTaskCompleteAndDelete(t *testing.T) {
	env := newTestEnv(t, false)
	task := env.srv.SeedTask(env.user.ID, models.TaskCreate{Title: "Buy beans"})

	if err := (&TaskCompleteCmd{ID: task.ID}).Run(env.ctx); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	got, err := env.ctx.Client.GetTask(context.Background(), env.user.ID, task.ID)
	if err != nil || got.Status != models.TaskStatusCompleted {
		t.Fatalf("task after complete = %+v, %v", got, err)
	}

	if err := (&TaskDeleteCmd{ID: task.ID}).Run(env.ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := (&TaskShowCmd{ID: task.ID}).Run(env.ctx); !api.IsNotFound(err) {
		t.Errorf("show after delete error = %v", err)
	}
}

const importYAML = `
habits:
  - identity_statement: I am a person who drinks coffee
    two_minute_version: Brew one cup
    category: Health & Fitness
    schedule:
      type: daily
tasks:
  - title: Buy beans
    priority: high
`

func writeImport(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImport(t *testing.T) {
	env := newTestEnv(t, false)
	path := writeImport(t, importYAML)

	dry := &HabitImportCmd{ImportFlags{File: path, DryRun: true}}
	if err := dry.Run(env.ctx); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if n := env.srv.Requests("POST", "/api/{uid}/habits"); n != 0 {
		t.Errorf("dry run created %d habits", n)
	}

	env.reset()
	if err := (&TaskImportCmd{ImportFlags{File: path}}).Run(env.ctx); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "Created habit: I am a person who drinks coffee") || !strings.Contains(out, "Created task: Buy beans") {
		t.Errorf("import output = %q", out)
	}
}

func TestValidateCmd(t *testing.T) {
	env := newTestEnv(t, true)
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", importYAML, false},
		{"missing two minute version", "habits:\n  - identity_statement: I read\n    category: Other\n    schedule:\n      type: daily\n", true},
		{"unknown key", "habbits: []\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&ValidateCmd{File: writeImport(t, tt.body)}).Run(env.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitCmd(t *testing.T) {
	env := newTestEnv(t, true)
	if err := (&InitCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	cfg, err := config.Load(env.ctx.ConfigPath, config.Overrides{})
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.APIURL != env.srv.URL || cfg.Timeout != 2*time.Second {
		t.Errorf("loaded config = %+v", cfg)
	}

	if err := (&InitCmd{}).Run(env.ctx); err == nil {
		t.Error("second init without --force should fail")
	}
	if err := (&InitCmd{Force: true}).Run(env.ctx); err != nil {
		t.Errorf("init --force failed: %v", err)
	}
}

func TestCacheClear(t *testing.T) {
	env := newTestEnv(t, false)
	env.seedHabit("I am a person who reads", "")
	if err := (&HabitListCmd{Status: "active"}).Run(env.ctx); err != nil {
		t.Fatal(err)
	}

	env.reset()
	if err := (&CacheClearCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
	if strings.Contains(env.out.String(), "Removed 0") {
		t.Errorf("output = %q", env.out.String())
	}
	keys, _ := env.ctx.Cache.Keys(context.Background(), env.user.ID)
	if len(keys) != 0 {
		t.Errorf("keys after clear = %v", keys)
	}
}

func TestDoctor(t *testing.T) {
	env := newTestEnv(t, false)
	orig := keyringAvailable
	t.Cleanup(func() { keyringAvailable = orig })
	keyringAvailable = func() bool { return true }

	if err := (&DoctorCmd{}).Run(env.ctx); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, env.out.String())
	}
	if !strings.Contains(env.out.String(), "All diagnostics passed!") {
		t.Errorf("output = %q", env.out.String())
	}

	env.srv.Close()
	env.reset()
	if err := (&DoctorCmd{}).Run(env.ctx); err == nil {
		t.Error("doctor should fail when the backend is down")
	}
	if !strings.Contains(env.out.String(), "❌ Backend reachable") {
		t.Errorf("output = %q", env.out.String())
	}
}
