package devserver

import (
	"os"

	"golang.org/x/term"
)

// Interactive reports whether stdout is a terminal outside of CI. The browser
// is only opened for interactive sessions.
func Interactive() bool {
	switch os.Getenv("CI") {
	case "true", "1":
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
