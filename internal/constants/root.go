package constants

import "time"

// ToastKind represents the visual flavor of a toast notification
type ToastKind string

const (
	AppName            = "habitual"
	DefaultKeyringUser = "session-token"
	DefaultAPIURL      = "http://localhost:8000"
	DefaultConfigDir   = "~/.config/habitual"
	Version            = "v0.3.0"

	// SessionCookieName is the httpOnly cookie the backend issues on login
	SessionCookieName = "auth_token"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayDateFormat is used when rendering dates to the user
	DisplayDateFormat = "Mon, Jan 2"

	// Timing constants
	DebounceDelay      = 300 * time.Millisecond
	PulseDuration      = 600 * time.Millisecond
	BounceDuration     = 400 * time.Millisecond
	ToastDuration      = 5 * time.Second
	DefaultHTTPTimeout = 15 * time.Second

	// Paging
	DefaultHabitPageLimit = 100
	DefaultTaskPageLimit  = 20

	// Field limits enforced client-side before a round trip
	MaxIdentityStatementLen = 2000
	MaxFullDescriptionLen   = 5000
	MaxTwoMinuteVersionLen  = 500
	MaxStackingCueLen       = 500
	MaxMotivationLen        = 2000
	MaxTaskTitleLen         = 500
	MaxTaskDescriptionLen   = 5000

	// IdentityPrefix is the prefix every identity statement is expected to start with
	IdentityPrefix = "I am a person who "

	// Toast kinds
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Route paths, shared by the CLI and the TUI router
const (
	PathHome      = "/"
	PathLogin     = "/login"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
	PathHabits    = "/habits"
	PathHabitNew  = "/habits/new"
	PathTasks     = "/tasks"
	PathTaskNew   = "/tasks/new"
)
