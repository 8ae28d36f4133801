package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"

	"github.com/drover-ai/drover/pkg/direct"
)

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// stdinIsTerminalFn allows tests to stub TTY detection.
var stdinIsTerminalFn = stdinIsTerminal

// terminalConfirmer prompts on the controlling terminal for each direct
// command that needs interactive approval. On a non-TTY stdin it denies
// everything rather than hanging on a prompt nobody will answer.
type terminalConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newTerminalConfirmer(in io.Reader, out io.Writer) *terminalConfirmer {
	return &terminalConfirmer{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm implements direct.Confirmer.
func (c *terminalConfirmer) Confirm(ctx context.Context, req direct.Request) (direct.Verdict, error) {
	if !stdinIsTerminalFn() {
		return direct.Verdict{Action: direct.ConfirmDeny}, nil
	}

	fmt.Fprintf(c.out, "run %q? [y/n/e] ", req.Line())

	for {
		if err := ctx.Err(); err != nil {
			return direct.Verdict{}, err
		}

		line, err := c.in.ReadString('\n')
		if err != nil {
			return direct.Verdict{}, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return direct.Verdict{Action: direct.ConfirmApprove}, nil
		case "n", "no":
			return direct.Verdict{Action: direct.ConfirmDeny}, nil
		case "e", "edit":
			return c.edit(req)
		default:
			fmt.Fprint(c.out, "please answer y, n, or e: ")
		}
	}
}

// edit reads a replacement command line and shows the user what changed
// before the edit is submitted for re-parsing.
func (c *terminalConfirmer) edit(req direct.Request) (direct.Verdict, error) {
	fmt.Fprintf(c.out, "edit command [%s]: ", req.Line())

	line, err := c.in.ReadString('\n')
	if err != nil {
		return direct.Verdict{}, err
	}

	edited := strings.TrimSpace(line)
	if edited == "" || edited == req.Line() {
		// Nothing changed - treat as plain approval.
		return direct.Verdict{Action: direct.ConfirmApprove}, nil
	}

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(req.Line()),
		B:        difflib.SplitLines(edited),
		FromFile: "original",
		ToFile:   "edited",
		Context:  1,
	})
	if diff != "" {
		fmt.Fprintln(c.out, diff)
	}

	return direct.Verdict{Action: direct.ConfirmModify, Edited: edited}, nil
}
