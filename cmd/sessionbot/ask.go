package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/go-go-golems/sessionbot/pkg/inference/engine"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <message...>",
		Short: "Send a single message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printEvents, _ := cmd.Flags().GetBool("print-events")
			raw, _ := cmd.Flags().GetBool("raw")
			failOnFault, _ := cmd.Flags().GetBool("fail-on-error")
			return runAsk(cmd.Context(), strings.Join(args, " "), askOptions{
				printEvents: printEvents,
				raw:         raw || !isatty.IsTerminal(os.Stdout.Fd()),
				failOnFault: failOnFault,
			})
		},
	}
	cmd.Flags().Bool("print-events", false, "Print inference events to stderr")
	cmd.Flags().Bool("raw", false, "Print the reply without markdown rendering")
	cmd.Flags().Bool("fail-on-error", false, "Exit with an error when the model call fails")
	return cmd
}

type askOptions struct {
	printEvents bool
	raw         bool
	failOnFault bool
}

func runAsk(ctx context.Context, message string, opts askOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	router, err := newEventRouter()
	if err != nil {
		return err
	}
	defer func() {
		_ = router.Close()
	}()
	if opts.printEvents {
		router.AddHandler("dump", chatTopic, router.DumpRawEvents(os.Stderr))
	}

	manager, err := newManager(router.Sink(chatTopic))
	if err != nil {
		return err
	}

	var reply string
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return router.Run(ctx)
	})
	eg.Go(func() error {
		defer cancel()
		<-router.Running()
		reply = manager.Send(ctx, message, "")
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	if err := printReply(os.Stdout, reply, opts.raw); err != nil {
		return err
	}
	if opts.failOnFault && strings.HasPrefix(reply, engine.FaultPrefix) {
		return errors.New(strings.TrimPrefix(reply, engine.FaultPrefix))
	}
	return nil
}

func printReply(w io.Writer, reply string, raw bool) error {
	if raw {
		_, err := fmt.Fprintln(w, reply)
		return err
	}

	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	styled, err := r.Render(reply)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, styled)
	return err
}
