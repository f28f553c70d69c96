package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-go-golems/sessionbot/pkg/chatbot"
	"github.com/pkg/errors"
)

const maxLineSize = 1024 * 1024

// RunREPL is the line-oriented chat used when no terminal is attached. Each line is
// a message for the current session or a slash command. It returns at EOF, on
// /quit, or when ctx is done.
func RunREPL(ctx context.Context, in io.Reader, out io.Writer, manager *chatbot.Manager, commander *Commander, prompt bool) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	printPrompt := func() {
		if prompt {
			_, _ = fmt.Fprintf(out, "[%s]> ", manager.CurrentSession())
		}
	}

	printPrompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			printPrompt()
			continue
		}

		if cmd, ok := ParseCommand(line); ok {
			res, err := commander.Run(cmd)
			if err != nil {
				_, _ = fmt.Fprintln(out, err.Error())
			} else if res.Output != "" {
				_, _ = fmt.Fprintln(out, res.Output)
			}
			if res.Quit {
				return nil
			}
			printPrompt()
			continue
		}

		reply := manager.Send(ctx, ChatMessage(line), "")
		if _, err := fmt.Fprintln(out, reply); err != nil {
			return err
		}
		printPrompt()
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "could not read input")
	}
	return nil
}
