package progress

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// formatStepCounter returns the [N/Total] step counter string
func formatStepCounter(number, total int) string {
	return fmt.Sprintf("[%d/%d]", number, total)
}

// buildStepMessage constructs the running message of a step
func buildStepMessage(step StepInfo) string {
	return fmt.Sprintf("%s %s...", formatStepCounter(step.Number, step.TotalSteps), capitalize(step.Name))
}

// capitalize returns the string with the first letter capitalized
func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// checkmark returns the appropriate checkmark symbol
func checkmark(symbols ProgressSymbols, supportsColor bool) string {
	return paint(symbols.Checkmark, color.FgGreen, supportsColor)
}

// failureMark returns the appropriate failure symbol
func failureMark(symbols ProgressSymbols, supportsColor bool) string {
	return paint(symbols.Failure, color.FgRed, supportsColor)
}

func paint(mark string, attr color.Attribute, supportsColor bool) string {
	if !supportsColor {
		return mark
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(mark)
}
