package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"secretlens/internal/lens"
)

// Formatter applies semantic formatting to text.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...any) string {
	text := fmt.Sprint(a...)
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// noColor returns true if color output should be disabled.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

// Semantic formatters for CLI output.
var (
	// Warning formats problems the user should look at.
	Warning = Formatter{color.New(color.FgYellow), "", ""}

	// Success formats confirmations.
	Success = Formatter{color.New(color.FgGreen), "", ""}

	// Secret formats decrypted previews.
	Secret = Formatter{color.New(color.FgCyan), "", ""}

	// Muted formats secondary details such as line numbers.
	Muted = Formatter{color.New(color.Faint), "", ""}
)

// Notifier implements lens.Notifier by printing tagged lines.
type Notifier struct {
	out io.Writer
}

var _ lens.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier writing to out.
func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

func (n *Notifier) Warn(msg string) {
	fmt.Fprintln(n.out, Warning.Sprint("[warn] ")+msg)
}

func (n *Notifier) Info(msg string) {
	fmt.Fprintln(n.out, Success.Sprint("[info] ")+msg)
}
