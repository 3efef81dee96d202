package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerDelay = 100 * time.Millisecond

// Spinner shows a message with an animated glyph while work is in progress.
// On a non-terminal it prints nothing until Stop.
type Spinner struct {
	out     io.Writer
	symbols ProgressSymbols
	message string
	s       *spinner.Spinner
}

// Start begins a spinner for message on out.
func Start(out io.Writer, caps TerminalCapabilities, message string) *Spinner {
	sp := &Spinner{
		out:     out,
		symbols: SelectSymbols(caps),
		message: message,
	}
	if caps.IsTTY {
		sp.s = spinner.New(spinner.CharSets[sp.symbols.SpinnerSet], spinnerDelay, spinner.WithWriter(out))
		sp.s.Suffix = " " + message
		sp.s.Start()
	}
	return sp
}

// Stop ends the spinner and prints a final line with a success or failure mark.
// It is safe to call more than once.
func (sp *Spinner) Stop(ok bool) {
	if sp.s != nil {
		sp.s.Stop()
		sp.s = nil
	} else if sp.message == "" {
		return
	}
	mark := sp.symbols.Checkmark
	if !ok {
		mark = sp.symbols.Failure
	}
	fmt.Fprintf(sp.out, "%s %s\n", mark, sp.message)
	sp.message = ""
}
