package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"secretlens/internal/lens"
)

// Prompter implements lens.Prompter on a terminal.
//
// When input is a TTY the secret is read with echo disabled. Otherwise it is
// read as one line from the buffered input, which lets scripts and the
// interactive shell share the same stream. End of input cancels the prompt.
type Prompter struct {
	reader *bufio.Reader
	out    io.Writer
	fd     int
	tty    bool

	// pending is a read abandoned by a cancelled prompt. The next prompt
	// takes its result instead of starting a second reader on the stream.
	pending chan readResult
}

type readResult struct {
	value string
	err   error
}

var _ lens.Prompter = (*Prompter)(nil)

// NewPrompter creates a Prompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{out: out}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.tty = true
	}

	if br, ok := in.(*bufio.Reader); ok {
		p.reader = br
	} else {
		p.reader = bufio.NewReader(in)
	}
	return p
}

// LineReader returns the buffered input so other readers of the same stream
// (the interactive shell) do not lose buffered bytes.
func (p *Prompter) LineReader() *bufio.Reader {
	return p.reader
}

// AskSecret prompts until validate accepts a value, the input ends, or ctx is
// done. Cancelling ctx interrupts a prompt that is waiting for input.
func (p *Prompter) AskSecret(ctx context.Context, prompt string, validate func(string) string) (string, error) {
	for {
		if ctx.Err() != nil {
			return "", lens.ErrPromptCancelled
		}

		fmt.Fprintf(p.out, "%s ", prompt)
		value, err := p.readContext(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, lens.ErrPromptCancelled) {
				fmt.Fprintln(p.out)
				return "", lens.ErrPromptCancelled
			}
			return "", fmt.Errorf("reading password: %w", err)
		}

		if validate != nil {
			if msg := validate(value); msg != "" {
				fmt.Fprintln(p.out, Warning.Sprint(msg))
				continue
			}
		}
		return value, nil
	}
}

// readContext runs read in the background so ctx can interrupt it. On a TTY
// the terminal state is restored, since ReadPassword only does that when it
// returns.
func (p *Prompter) readContext(ctx context.Context) (string, error) {
	var state *term.State
	if p.tty {
		if st, err := term.GetState(p.fd); err == nil {
			state = st
		}
	}

	if p.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			value, err := p.read()
			ch <- readResult{value: value, err: err}
		}()
		p.pending = ch
	}

	select {
	case r := <-p.pending:
		p.pending = nil
		return r.value, r.err
	case <-ctx.Done():
		if state != nil {
			_ = term.Restore(p.fd, state)
		}
		return "", lens.ErrPromptCancelled
	}
}

func (p *Prompter) read() (string, error) {
	if p.tty {
		b, err := term.ReadPassword(p.fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
