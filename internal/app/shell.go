package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"secretlens/internal/lens"
)

const shellHelp = `Commands:
  toggle N ...       encrypt or decrypt line N and save the file
  lens               show decrypted previews of marked lines
  password           set the session password
  reload             re-read the file from disk
  help               show this help
  quit, exit         leave the shell`

// Shell runs an interactive session on one document. The passphrase entered
// once is reused for every command until the shell exits.
func (a *LensApp) Shell(ctx context.Context, rawPath string) error {
	doc, err := a.OpenDocument(rawPath)
	if err != nil {
		return a.op.Fail(err)
	}

	out := a.streams.Out
	in := a.prompter.LineReader()

	fmt.Fprintf(out, "Editing %s (%s). Type \"help\" for commands.\n", doc.Name(), doc.Language())
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "secretlens> ")

		text, err := in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && text != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return a.op.Fail(fmt.Errorf("reading command: %w", err))
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return nil

		case "help":
			fmt.Fprintln(out, shellHelp)

		case "lens":
			PrintLenses(out, a.service.Lenses(doc))

		case "password":
			if err := a.SetPassword(ctx); err != nil {
				a.notifier.Warn(err.Error())
			}

		case "reload":
			if err := doc.Reload(); err != nil {
				a.notifier.Warn(err.Error())
				continue
			}
			fmt.Fprintf(out, "Reloaded %d line(s)\n", doc.LineCount())

		case "toggle":
			if len(fields) < 2 {
				a.notifier.Warn("usage: toggle N[:M] ...")
				continue
			}
			selections, err := parseSelections(fields[1:])
			if err != nil {
				a.notifier.Warn(err.Error())
				continue
			}
			doc.Select(selections...)
			result, err := a.ToggleDocument(ctx, doc, nil)
			if err != nil {
				a.notifier.Warn(err.Error())
				continue
			}
			PrintToggleResult(out, result)

		default:
			a.notifier.Warn(fmt.Sprintf("unknown command %q, type \"help\"", fields[0]))
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func parseSelections(args []string) ([]lens.Selection, error) {
	selections := make([]lens.Selection, 0, len(args))
	for _, arg := range args {
		sel, err := ParseSelection(arg)
		if err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}
	return selections, nil
}
