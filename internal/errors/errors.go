package errors

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/julianstephens/habitual/internal/logger"
)

// statusCoder is implemented by errors that carry an HTTP status from the backend
type statusCoder interface {
	HTTPStatus() int
}

// Format formats an error message with a consistent "Error: " prefix.
// Backend errors with well-known statuses are rewritten into actionable hints.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", Describe(err))
}

// Describe returns the user-facing text for err without the prefix
func Describe(err error) string {
	var sc statusCoder
	if errors.As(err, &sc) {
		switch sc.HTTPStatus() {
		case http.StatusUnauthorized:
			return "not logged in (run 'habitual auth login')"
		case 0:
			return fmt.Sprintf("backend unreachable: %v", err)
		}
	}
	return err.Error()
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
