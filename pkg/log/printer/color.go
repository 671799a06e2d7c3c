package printer

import (
	"io"
	"os"

	"github.com/bascanada/auth0logs/pkg/management"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorState manages global color output settings for the printer
type ColorState struct {
	enabled bool
}

var globalColorState = &ColorState{}

// InitColorState initializes color support. Priority order:
//  1. Explicit user setting (via CLI flag)
//  2. NO_COLOR environment variable
//  3. TTY detection
//  4. Disabled for unknown writers
func InitColorState(explicitSetting *bool, writer io.Writer) {
	if explicitSetting != nil {
		setColor(*explicitSetting)
		return
	}

	if os.Getenv("NO_COLOR") != "" {
		setColor(false)
		return
	}

	if f, ok := writer.(*os.File); ok {
		setColor(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
		return
	}

	setColor(false)
}

func setColor(enabled bool) {
	globalColorState.enabled = enabled
	color.NoColor = !enabled
}

// IsColorEnabled returns whether color output is currently enabled.
func IsColorEnabled() bool {
	return globalColorState.enabled
}

var severityColors = map[management.Severity]*color.Color{
	management.SeveritySuccess: color.New(color.FgGreen),
	management.SeverityWarning: color.New(color.FgYellow),
	management.SeverityFailure: color.New(color.FgRed, color.Bold),
}

// ColorType renders an event type code colored by its severity.
func ColorType(code string) string {
	c, ok := severityColors[management.TypeSeverity(code)]
	if !ok || !IsColorEnabled() {
		return code
	}
	return c.Sprint(code)
}
