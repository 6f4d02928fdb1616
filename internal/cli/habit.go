package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/importer"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/sound"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitCmd struct {
	List     HabitListCmd     `cmd:"" help:"List habits."`
	Show     HabitShowCmd     `cmd:"" help:"Show a habit."`
	Add      HabitAddCmd      `cmd:"" help:"Create a habit."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit."`
	Archive  HabitArchiveCmd  `cmd:"" help:"Archive a habit."`
	Restore  HabitRestoreCmd  `cmd:"" help:"Restore an archived habit."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit."`
	Complete HabitCompleteCmd `cmd:"" help:"Mark a habit as done today."`
	Streak   HabitStreakCmd   `cmd:"" help:"Show a habit's streak."`
	History  HabitHistoryCmd  `cmd:"" help:"Show a habit's completions."`
	Undo     HabitUndoCmd     `cmd:"" help:"Remove a completion."`
	Import   HabitImportCmd   `cmd:"" help:"Create habits (and tasks) from a YAML file."`
}

func parseCategory(s string) (models.HabitCategory, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return "", nil
	}
	for _, c := range models.HabitCategories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	names := make([]string, len(models.HabitCategories))
	for i, c := range models.HabitCategories {
		names[i] = string(c)
	}
	return "", fmt.Errorf("unknown category %q (one of: %s)", s, strings.Join(names, ", "))
}

func streakText(n int) string {
	if n <= 0 {
		return "no streak"
	}
	return fmt.Sprintf("🔥 %d %s", n, utils.Plural(n, "day", "days"))
}

func printJSON(c *Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(b))
	return nil
}

type HabitListCmd struct {
	Category string `short:"c" help:"Only this category (default all)."`
	Status   string `short:"s" help:"Which habits to show." enum:"active,archived,all" default:"active"`
	JSON     bool   `help:"Print raw JSON."`
}

func (cmd *HabitListCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	category, err := parseCategory(cmd.Category)
	if err != nil {
		return err
	}

	f := models.NewHabitFilters(category, models.StatusSelection(cmd.Status), constants.DefaultHabitPageLimit)
	resp, err := fetch(ctx, u.ID, f.Key(), func(rc context.Context) (*models.HabitListResponse, error) {
		return ctx.Client.ListHabits(rc, u.ID, f)
	})
	if err != nil {
		return err
	}
	if cmd.JSON {
		return printJSON(ctx, resp)
	}

	if len(resp.Habits) == 0 {
		ctx.println("No habits found")
		return nil
	}

	now := ctx.now()
	ctx.println("Habits:")
	for _, h := range resp.Habits {
		mark := "○"
		switch {
		case h.IsArchived():
			mark = "-"
		case h.CompletedOn(now):
			mark = "✓"
		}
		ctx.printf("  %s %s\n", mark, utils.Truncate(h.IdentityStatement, 70))
		ctx.printf("      %s · %s · %s · %s (ID: %s)\n",
			h.Category, utils.FormatRecurringSchedule(h.RecurringSchedule),
			streakText(h.CurrentStreak), utils.LastCompleted(h, now), h.ID)
	}
	if resp.Total > len(resp.Habits) {
		ctx.printf("Showing %d of %d habits\n", len(resp.Habits), resp.Total)
	}
	return nil
}

type HabitShowCmd struct {
	ID   string `arg:"" help:"Habit ID."`
	JSON bool   `help:"Print raw JSON."`
}

func (cmd *HabitShowCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	h, err := fetch(ctx, u.ID, habitKey(cmd.ID), func(rc context.Context) (*models.Habit, error) {
		return ctx.Client.GetHabit(rc, u.ID, cmd.ID)
	})
	if err != nil {
		return err
	}
	if cmd.JSON {
		return printJSON(ctx, h)
	}
	printHabit(ctx, *h)
	return nil
}

func printHabit(ctx *Context, h models.Habit) {
	now := ctx.now()
	ctx.println(h.IdentityStatement)
	ctx.printf("  2-minute version: %s\n", h.TwoMinuteVersion)
	ctx.printf("  Category:         %s\n", h.Category)
	ctx.printf("  Schedule:         %s\n", utils.FormatRecurringSchedule(h.RecurringSchedule))
	ctx.printf("  Status:           %s\n", h.Status)
	ctx.printf("  Streak:           %s\n", streakText(h.CurrentStreak))
	if m := utils.StreakMilestone(h.CurrentStreak); m != "" {
		ctx.printf("                    %s\n", m)
	}
	ctx.printf("  Last completed:   %s\n", utils.LastCompleted(h, now))
	if cue := deref(h.HabitStackingCue); cue != "" {
		ctx.printf("  Stacking cue:     %s\n", cue)
	}
	if d := deref(h.FullDescription); d != "" {
		ctx.printf("  Description:      %s\n", d)
	}
	if m := deref(h.Motivation); m != "" {
		ctx.printf("  Motivation:       %s\n", m)
	}
	ctx.printf("  ID:               %s\n", h.ID)
}

// ScheduleFlags are shared by add and edit
type ScheduleFlags struct {
	Schedule   string `short:"s" help:"Schedule type: daily, weekly or monthly."`
	Days       string `short:"w" help:"Weekdays for weekly schedules, e.g. mon,wed,fri or 1,3,5."`
	DayOfMonth int    `short:"m" help:"Day of the month (1-31) for monthly schedules."`
	Until      string `help:"Last day of the schedule (YYYY-MM-DD)."`
}

func (f ScheduleFlags) set() bool {
	return f.Schedule != "" || f.Days != "" || f.DayOfMonth != 0 || f.Until != ""
}

// merge applies the flags over base. Switching type drops fields of the old type.
func (f ScheduleFlags) merge(base models.RecurringSchedule) (models.RecurringSchedule, error) {
	s := base
	if f.Schedule != "" {
		t := models.ScheduleType(strings.ToLower(f.Schedule))
		if t != s.Type {
			s = models.RecurringSchedule{Type: t, Until: s.Until}
		}
	}
	if f.Days != "" {
		days, err := parseWeekdays(f.Days)
		if err != nil {
			return s, err
		}
		s.Days = days
	}
	if f.DayOfMonth != 0 {
		s.DayOfMonth = f.DayOfMonth
	}
	if f.Until != "" {
		s.Until = f.Until
		if strings.EqualFold(f.Until, "none") {
			s.Until = ""
		}
	}
	switch s.Type {
	case models.ScheduleDaily:
		s.Days, s.DayOfMonth = nil, 0
	case models.ScheduleWeekly:
		s.DayOfMonth = 0
	case models.ScheduleMonthly:
		s.Days = nil
	}
	return s, nil
}

// stackingCue returns cue, or a cue generated from the anchor when cue is blank
func stackingCue(ctx *Context, userID, anchorID, cue, twoMinute string) (string, error) {
	if cue != "" || anchorID == "" {
		return cue, nil
	}
	rc, cancel := ctx.requestContext()
	defer cancel()
	anchor, err := ctx.Client.GetHabit(rc, userID, anchorID)
	if err != nil {
		return "", fmt.Errorf("failed to load anchor habit: %w", err)
	}
	return utils.GenerateStackingCue(anchor.IdentityStatement, twoMinute), nil
}

type HabitAddCmd struct {
	Identity    string `arg:"" help:"Identity statement, e.g. \"I am a person who reads\"."`
	TwoMinute   string `short:"t" help:"The 2-minute version of the habit." required:""`
	Category    string `short:"c" help:"Category." default:"Other"`
	Description string `short:"d" help:"Full description."`
	Motivation  string `help:"Why this habit matters."`
	Anchor      string `help:"ID of the habit to stack this one on."`
	Cue         string `help:"Stacking cue; generated from the anchor when omitted."`

	ScheduleFlags `embed:""`
}

func (cmd *HabitAddCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	category, err := parseCategory(cmd.Category)
	if err != nil || category == "" {
		return fmt.Errorf("invalid category %q", cmd.Category)
	}
	flags := cmd.ScheduleFlags
	if flags.Schedule == "" {
		flags.Schedule = string(models.ScheduleDaily)
	}
	schedule, err := flags.merge(models.RecurringSchedule{})
	if err != nil {
		return err
	}
	cue, err := stackingCue(ctx, u.ID, cmd.Anchor, cmd.Cue, cmd.TwoMinute)
	if err != nil {
		return err
	}

	in := models.HabitCreate{
		IdentityStatement: strings.TrimSpace(cmd.Identity),
		TwoMinuteVersion:  strings.TrimSpace(cmd.TwoMinute),
		Category:          category,
		RecurringSchedule: schedule,
		FullDescription:   cmd.Description,
		Motivation:        cmd.Motivation,
		AnchorHabitID:     cmd.Anchor,
		HabitStackingCue:  cue,
	}
	if err := ctx.Validator.ValidateHabit(in).Err(); err != nil {
		return err
	}

	rc, cancel := ctx.requestContext()
	defer cancel()
	h, err := ctx.Client.CreateHabit(rc, u.ID, in)
	if err != nil {
		return err
	}
	ctx.invalidate(u.ID, habitsPrefix)
	ctx.printf("Created habit: %s (ID: %s)\n", h.IdentityStatement, h.ID)
	if cue != "" {
		ctx.printf("  %s\n", cue)
	}
	return nil
}

type HabitEditCmd struct {
	ID          string  `arg:"" help:"Habit ID."`
	Identity    *string `short:"i" help:"New identity statement."`
	TwoMinute   *string `short:"t" help:"New 2-minute version."`
	Category    *string `short:"c" help:"New category."`
	Description *string `short:"d" help:"New full description (empty clears)."`
	Motivation  *string `help:"New motivation (empty clears)."`
	Anchor      *string `help:"ID of the habit to stack on."`
	Cue         *string `help:"New stacking cue (empty clears)."`

	ScheduleFlags `embed:""`
}

func (cmd *HabitEditCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	var in models.HabitUpdate
	in.IdentityStatement = cmd.Identity
	in.TwoMinuteVersion = cmd.TwoMinute
	in.FullDescription = cmd.Description
	in.Motivation = cmd.Motivation
	in.HabitStackingCue = cmd.Cue
	if cmd.Anchor != nil && *cmd.Anchor != "" {
		in.AnchorHabitID = cmd.Anchor
	}
	if cmd.Category != nil {
		category, err := parseCategory(*cmd.Category)
		if err != nil || category == "" {
			return fmt.Errorf("invalid category %q", *cmd.Category)
		}
		in.Category = &category
	}

	if cmd.ScheduleFlags.set() || (in.AnchorHabitID != nil && cmd.Cue == nil) {
		rc, cancel := ctx.requestContext()
		current, err := ctx.Client.GetHabit(rc, u.ID, cmd.ID)
		cancel()
		if err != nil {
			return err
		}
		if cmd.ScheduleFlags.set() {
			schedule, err := cmd.ScheduleFlags.merge(current.RecurringSchedule)
			if err != nil {
				return err
			}
			in.RecurringSchedule = &schedule
		}
		if in.AnchorHabitID != nil && cmd.Cue == nil {
			twoMinute := current.TwoMinuteVersion
			if cmd.TwoMinute != nil {
				twoMinute = *cmd.TwoMinute
			}
			cue, err := stackingCue(ctx, u.ID, *in.AnchorHabitID, "", twoMinute)
			if err != nil {
				return err
			}
			in.HabitStackingCue = &cue
		}
	}

	if in == (models.HabitUpdate{}) {
		return errors.New("nothing to change")
	}
	if err := ctx.Validator.ValidateHabitUpdate(in).Err(); err != nil {
		return err
	}

	rc, cancel := ctx.requestContext()
	defer cancel()
	h, err := ctx.Client.UpdateHabit(rc, u.ID, cmd.ID, in)
	if err != nil {
		return err
	}
	ctx.invalidate(u.ID, habitsPrefix)
	ctx.printf("Updated habit: %s\n", h.IdentityStatement)
	return nil
}

type HabitArchiveCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (cmd *HabitArchiveCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()
	h, err := ctx.Client.ArchiveHabit(rc, u.ID, cmd.ID)
	if err != nil {
		return err
	}
	ctx.invalidate(u.ID, habitsPrefix)
	ctx.printf("Archived habit: %s\n", h.IdentityStatement)
	return nil
}

type HabitRestoreCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (cmd *HabitRestoreCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()
	h, err := ctx.Client.RestoreHabit(rc, u.ID, cmd.ID)
	if err != nil {
		return err
	}
	ctx.invalidate(u.ID, habitsPrefix)
	ctx.printf("Restored habit: %s\n", h.IdentityStatement)
	return nil
}

type HabitDeleteCmd struct {
	ID    string `arg:"" help:"Habit ID."`
	Force bool   `short:"f" help:"Delete even when other habits stack on this one."`
}

func (cmd *HabitDeleteCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()
	if err := ctx.Client.DeleteHabit(rc, u.ID, cmd.ID, cmd.Force); err != nil {
		if api.IsConflict(err) && !cmd.Force {
			return fmt.Errorf("%w; rerun with --force to delete it anyway", err)
		}
		return err
	}
	ctx.invalidate(u.ID, habitsPrefix, tasksPrefix)
	ctx.printf("Deleted habit %s\n", cmd.ID)
	return nil
}

type HabitCompleteCmd struct {
	ID        string `arg:"" help:"Habit ID."`
	TwoMinute bool   `short:"2" name:"two-minute" help:"Record the 2-minute version instead of the full habit."`
}

func (cmd *HabitCompleteCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	t := models.CompletionFull
	if cmd.TwoMinute {
		t = models.CompletionTwoMinute
	}

	rc, cancel := ctx.requestContext()
	defer cancel()
	resp, err := ctx.Client.CompleteHabit(rc, u.ID, cmd.ID, t)
	if api.IsConflict(err) {
		ctx.println("Already completed today")
		return nil
	}
	if err != nil {
		return err
	}
	sound.PlayCompletion()
	ctx.invalidate(u.ID, habitsPrefix)
	ctx.printf("✓ Completed (%s) · %s\n", t.Label(), streakText(resp.CurrentStreak))
	if m := utils.StreakMilestone(resp.CurrentStreak); m != "" {
		ctx.println(m)
	}
	return nil
}

type HabitStreakCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (cmd *HabitStreakCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	info, err := fetch(ctx, u.ID, habitKey(cmd.ID)+"/streak", func(rc context.Context) (*models.StreakInfo, error) {
		return ctx.Client.HabitStreak(rc, u.ID, cmd.ID)
	})
	if err != nil {
		return err
	}
	ctx.println(streakText(info.CurrentStreak))
	if m := utils.StreakMilestone(info.CurrentStreak); m != "" {
		ctx.println(m)
	}
	if info.LastCompletedAt != nil {
		ctx.printf("Last completed %s\n", utils.RelativeTime(*info.LastCompletedAt, ctx.now()))
	}
	if info.ConsecutiveMisses > 0 {
		ctx.printf("Missed %d %s in a row\n", info.ConsecutiveMisses, utils.Plural(info.ConsecutiveMisses, "time", "times"))
	}
	return nil
}

type HabitHistoryCmd struct {
	ID   string `arg:"" help:"Habit ID."`
	From string `help:"First day to include (YYYY-MM-DD)."`
	To   string `help:"Last day to include (YYYY-MM-DD)."`
	Days int    `short:"n" help:"Only the last N days; overrides --from and --to."`
	JSON bool   `help:"Print raw JSON."`
}

func (cmd *HabitHistoryCmd) dateRange(ctx *Context) (models.DateRange, error) {
	if cmd.Days > 0 {
		now := ctx.now()
		return models.DateRange{
			Start: now.AddDate(0, 0, -(cmd.Days - 1)).Format(constants.DateFormat),
			End:   now.Format(constants.DateFormat),
		}, nil
	}
	for _, d := range []string{cmd.From, cmd.To} {
		if _, err := ctx.parseDue(d); err != nil {
			return models.DateRange{}, err
		}
	}
	return models.DateRange{Start: cmd.From, End: cmd.To}, nil
}

func (cmd *HabitHistoryCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	r, err := cmd.dateRange(ctx)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/completions?start=%s&end=%s", habitKey(cmd.ID), r.Start, r.End)
	resp, err := fetch(ctx, u.ID, key, func(rc context.Context) (*models.CompletionHistoryResponse, error) {
		return ctx.Client.CompletionHistory(rc, u.ID, cmd.ID, r)
	})
	if err != nil {
		return err
	}
	if cmd.JSON {
		return printJSON(ctx, resp)
	}

	if len(resp.Completions) == 0 {
		ctx.println("No completions yet")
		return nil
	}
	ctx.printf("%d %s total\n", resp.Total, utils.Plural(resp.Total, "completion", "completions"))
	loc := ctx.Config.Location()
	for _, c := range resp.Completions {
		ctx.printf("  %s  %-16s (ID: %s)\n",
			c.CompletedAt.In(loc).Format(constants.DisplayDateFormat), c.CompletionType.Label(), c.ID)
	}
	return nil
}

type HabitUndoCmd struct {
	ID           string `arg:"" help:"Habit ID."`
	CompletionID string `arg:"" help:"Completion ID (see 'habit history')."`
}

func (cmd *HabitUndoCmd) Run(ctx *Context) error {
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	rc, cancel := ctx.requestContext()
	defer cancel()
	resp, err := ctx.Client.UndoCompletion(rc, u.ID, cmd.ID, cmd.CompletionID)
	if err != nil {
		return err
	}
	ctx.invalidate(u.ID, habitsPrefix)
	ctx.printf("Completion removed · %s\n", streakText(resp.RecalculatedStreak))
	return nil
}

// ImportFlags are shared by the habit and task import commands
type ImportFlags struct {
	File   string `arg:"" type:"existingfile" help:"YAML file to import."`
	DryRun bool   `help:"Only validate the file."`
}

func (f ImportFlags) load(ctx *Context) (*importer.YAMLInput, error) {
	file, err := os.Open(f.File)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	input, err := importer.Parse(file)
	if err != nil {
		return nil, err
	}
	if err := importer.Validate(input, ctx.Config.Location()); err != nil {
		return nil, err
	}
	return input, nil
}

func (f ImportFlags) run(ctx *Context, input *importer.YAMLInput) error {
	if f.DryRun {
		ctx.printf("%s is valid: %d habits, %d tasks\n", f.File, len(input.Habits), len(input.Tasks))
		return nil
	}
	u, err := ctx.RequireUser()
	if err != nil {
		return err
	}

	rc, cancel := context.WithTimeout(context.Background(), ctx.Config.Timeout*time.Duration(1+len(input.Habits)+len(input.Tasks)))
	defer cancel()
	res, err := importer.Import(rc, ctx.Client, u.ID, input, ctx.Config.Location())
	if res != nil {
		if len(res.Habits) > 0 {
			ctx.invalidate(u.ID, habitsPrefix)
		}
		if len(res.Tasks) > 0 {
			ctx.invalidate(u.ID, tasksPrefix)
		}
		for _, h := range res.Habits {
			ctx.printf("Created habit: %s (ID: %s)\n", h.IdentityStatement, h.ID)
		}
		for _, t := range res.Tasks {
			ctx.printf("Created task: %s (ID: %s)\n", t.Title, t.ID)
		}
	}
	return err
}

type HabitImportCmd struct {
	ImportFlags `embed:""`
}

func (cmd *HabitImportCmd) Run(ctx *Context) error {
	input, err := cmd.load(ctx)
	if err != nil {
		return err
	}
	return cmd.run(ctx, input)
}
