// Package console plays the game as a line-oriented prompt loop.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/zjrosen/sweeper/internal/log"
	"github.com/zjrosen/sweeper/internal/mode/shared"
	"github.com/zjrosen/sweeper/internal/ui/boardview"
)

// QuitMessage is printed when the player quits.
const QuitMessage = "Quit Detected"

// Runner reads commands from in and writes boards and prompts to out.
type Runner struct {
	session *shared.Session
	in      *bufio.Scanner
	out     io.Writer
}

// New returns a Runner for session.
func New(session *shared.Session, in io.Reader, out io.Writer) *Runner {
	return &Runner{session: session, in: bufio.NewScanner(in), out: out}
}

// Run loops until the player quits, input ends or ctx is done. End of input
// quits the session so the current game is recorded.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			_ = r.session.Quit(context.WithoutCancel(ctx))
			return err
		}

		before := r.session.Phase()
		if before == shared.PhasePlaying {
			r.println(shared.InstructionsMessage)
			r.print(boardview.RenderPlain(r.session.Game().Snapshot()))
		}
		r.print(r.session.Prompt())

		if !r.in.Scan() {
			if err := r.session.Quit(ctx); err != nil {
				return err
			}
			r.println("")
			return r.in.Err()
		}

		reply, err := r.session.Handle(ctx, r.in.Text())
		if err != nil {
			log.ErrorErr(log.CatUI, "Console command failed", err, "phase", before.String())
			return err
		}

		after := r.session.Phase()
		if after == shared.PhaseQuit {
			r.println(QuitMessage)
			return nil
		}
		if before == shared.PhasePlaying && (after == shared.PhaseLost || after == shared.PhaseWon) {
			r.print(boardview.RenderPlain(r.session.Game().Snapshot()))
		}
		if reply.Message != "" && reply.Tone != shared.ToneInfo {
			r.println("\n" + reply.Message)
		}
	}
}

func (r *Runner) print(s string)   { _, _ = fmt.Fprint(r.out, s) }
func (r *Runner) println(s string) { _, _ = fmt.Fprintln(r.out, s) }
