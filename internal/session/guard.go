package session

import (
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
)

var protectedPrefixes = []string{
	constants.PathDashboard,
	constants.PathTasks,
	constants.PathHabits,
}

var authPaths = []string{
	constants.PathLogin,
	constants.PathRegister,
}

// IsProtected reports whether path requires a signed-in user
func IsProtected(path string) bool {
	for _, p := range protectedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Guard decides where a navigation to path should land. Signed-out users are
// sent from protected screens to the login screen, and signed-in users are
// sent from the login and register screens to the dashboard.
func Guard(path string, authenticated bool) string {
	if !authenticated && IsProtected(path) {
		return constants.PathLogin
	}
	if authenticated {
		for _, p := range authPaths {
			if path == p {
				return constants.PathDashboard
			}
		}
	}
	return path
}
