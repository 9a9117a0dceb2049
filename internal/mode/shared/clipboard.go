package shared

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/muesli/termenv"
)

// Clipboard receives text the player asked to copy, such as the board.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard writes to the system clipboard. Over SSH, inside GNU
// screen, or when no clipboard tool is installed it asks the terminal to
// set the clipboard with an OSC 52 sequence instead.
type SystemClipboard struct{}

// Copy copies text.
func (SystemClipboard) Copy(text string) error {
	if isRemoteSession() || isGNUScreen() || clipboard.Unsupported {
		return copyViaTerminal(text)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return copyViaTerminal(text)
	}
	return nil
}

func isRemoteSession() bool {
	return os.Getenv("SSH_TTY") != "" ||
		os.Getenv("SSH_CLIENT") != "" ||
		os.Getenv("SSH_CONNECTION") != ""
}

func isGNUScreen() bool {
	return os.Getenv("STY") != ""
}

// copyViaTerminal writes the OSC 52 sequence to /dev/tty so it reaches the
// terminal while the TUI owns stdout.
func copyViaTerminal(text string) (err error) {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer func() {
		if cerr := tty.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	termenv.NewOutput(tty).Copy(text)
	return nil
}
