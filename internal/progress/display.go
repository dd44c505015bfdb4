package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Display shows one step at a time: a spinner on a TTY, a plain line otherwise
type Display struct {
	mu           sync.Mutex
	capabilities TerminalCapabilities
	out          io.Writer
	spinner      *spinner.Spinner
	symbols      ProgressSymbols
}

// NewDisplay creates a display writing to out. A nil out writes to stderr so
// progress never mixes with command output on stdout.
func NewDisplay(caps TerminalCapabilities, out io.Writer) *Display {
	if out == nil {
		out = os.Stderr
	}
	return &Display{
		capabilities: caps,
		out:          out,
		symbols:      SelectSymbols(caps),
	}
}

// Start begins displaying progress for a step
func (d *Display) Start(step StepInfo) error {
	if err := step.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	msg := buildStepMessage(step)
	if d.capabilities.IsTTY {
		d.spinner = spinner.New(
			spinner.CharSets[d.symbols.SpinnerSet],
			100*time.Millisecond,
			spinner.WithWriter(d.out),
		)
		d.spinner.Suffix = " " + msg
		d.spinner.Start()
		return nil
	}
	fmt.Fprintln(d.out, msg)
	return nil
}

// Complete stops the spinner and displays completion status
func (d *Display) Complete(step StepInfo) {
	d.finish(step, checkmark(d.symbols, d.capabilities.SupportsColor), "done")
}

// Fail stops the spinner and displays failure status
func (d *Display) Fail(step StepInfo, err error) {
	d.finish(step, failureMark(d.symbols, d.capabilities.SupportsColor), fmt.Sprintf("failed: %v", err))
}

// Stop stops the spinner without showing completion/failure,
// e.g. before handing the terminal to an interactive subprocess.
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Display) finish(step StepInfo, mark, result string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	counter := formatStepCounter(step.Number, step.TotalSteps)
	fmt.Fprintf(d.out, "%s %s %s %s\n", mark, counter, capitalize(step.Name), result)
}

func (d *Display) stopLocked() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}
