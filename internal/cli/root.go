package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/api"
	"github.com/julianstephens/habitual/internal/cache"
	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/session"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// ErrLoginRequired is returned by commands that need a session when there is none
var ErrLoginRequired = errors.New("not logged in (run 'habitual auth login')")

type Context struct {
	Config     *config.Config
	ConfigPath string
	Client     *api.Client
	Session    *session.Manager
	Cache      *cache.Store // nil when caching is disabled or unavailable
	Validator  *validation.Validator

	Out io.Writer
	Err io.Writer
	Now func() time.Time

	restored bool
}

func (c *Context) stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) stderr() io.Writer {
	if c.Err == nil {
		return os.Stderr
	}
	return c.Err
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now().In(c.Config.Location())
	}
	return c.Now().In(c.Config.Location())
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.stdout(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.stdout(), args...)
}

func (c *Context) warnf(format string, args ...any) {
	fmt.Fprintf(c.stderr(), "Warning: "+format+"\n", args...)
}

// requestContext bounds a single backend call
func (c *Context) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Config.Timeout)
}

// Close releases the cache database
func (c *Context) Close() error {
	if c.Cache != nil {
		return c.Cache.Close()
	}
	return nil
}

// RestoreSession loads the saved session once per process
func (c *Context) RestoreSession() error {
	if c.restored || c.Session.Authenticated() {
		return nil
	}
	c.restored = true

	ctx, cancel := c.requestContext()
	defer cancel()
	_, err := c.Session.Initialize(ctx)
	switch {
	case err == nil:
		if c.Session.Offline() {
			c.warnf("backend unreachable, working from the cache")
		}
		return nil
	case errors.Is(err, session.ErrNoSession):
		return ErrLoginRequired
	case errors.Is(err, session.ErrExpired):
		return fmt.Errorf("%w (run 'habitual auth login')", err)
	}
	return err
}

// RequireUser returns the signed-in user, restoring the saved session first
func (c *Context) RequireUser() (models.User, error) {
	if err := c.RestoreSession(); err != nil {
		return models.User{}, err
	}
	return c.Session.RequireUser()
}

// fetch runs get against the backend and caches the result. When the
// backend is unreachable the last snapshot stored under key is used instead.
func fetch[T any](c *Context, userID, key string, get func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := c.requestContext()
	defer cancel()

	v, err := get(ctx)
	if err == nil {
		if c.Cache != nil {
			if perr := c.Cache.Put(context.Background(), userID, key, v); perr != nil {
				logger.Warn("Failed to cache response", "key", key, "error", perr)
			}
		}
		return v, nil
	}
	if !api.IsNetwork(err) || c.Cache == nil {
		return v, err
	}

	var cached T
	at, cerr := c.Cache.Get(context.Background(), userID, key, &cached)
	if cerr != nil {
		logger.Debug("No cached snapshot", "key", key, "error", cerr)
		return v, err
	}
	c.warnf("backend unreachable, showing results cached %s", utils.RelativeTime(at, c.now()))
	return cached, nil
}

// invalidate drops cached snapshots after a mutation
func (c *Context) invalidate(userID string, prefixes ...string) {
	if c.Cache == nil {
		return
	}
	for _, p := range prefixes {
		if err := c.Cache.Invalidate(context.Background(), userID, p); err != nil {
			logger.Warn("Failed to invalidate cache", "prefix", p, "error", err)
		}
	}
}

const (
	habitsPrefix = "habits"
	tasksPrefix  = "tasks"
)

func habitKey(id string) string { return habitsPrefix + "/" + id }
func taskKey(id string) string  { return tasksPrefix + "/" + id }

// parseWeekdays parses "mon,wed,fri" or "1,3,5" into backend day numbers
// (0=Sunday..6=Saturday)
func parseWeekdays(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	var days []int

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	seen := map[int]bool{}
	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		day := -1
		if wd, ok := dayMap[part]; ok {
			day = int(wd)
		} else if num, err := strconv.Atoi(part); err == nil && num >= 0 && num <= 6 {
			day = num
		}
		if day < 0 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days, nil
}

// parseDue parses an optional YYYY-MM-DD flag in the configured timezone
func (c *Context) parseDue(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := utils.ParseDate(s, c.Config.Location())
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return &d, nil
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
