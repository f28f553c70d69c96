package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-go-golems/sessionbot/pkg/events"
	"github.com/go-go-golems/sessionbot/pkg/tokens"
	"github.com/go-go-golems/sessionbot/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const chatTopic = "chat"

func newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat interactively, with /commands to manage sessions",
		Long: "Chat interactively. On a terminal this opens a full screen chat, otherwise every\n" +
			"line read from stdin is sent to the current session.\n\n" + ui.HelpText,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repl, _ := cmd.Flags().GetBool("repl")
			printEvents, _ := cmd.Flags().GetBool("print-events")
			exportDir, _ := cmd.Flags().GetString("export-dir")
			return runChat(cmd.Context(), repl, printEvents, exportDir)
		},
	}
	cmd.Flags().Bool("repl", false, "Use the line-oriented chat even on a terminal")
	cmd.Flags().Bool("print-events", false, "Print inference events to stderr (line-oriented chat only)")
	cmd.Flags().String("export-dir", ".", "Directory /export writes to")
	return cmd
}

func newEventRouter() (*events.EventRouter, error) {
	var options []events.EventRouterOption
	if viper.GetBool("verbose") {
		options = append(options, events.WithVerbose(true))
	}
	return events.NewEventRouter(options...)
}

func commanderOptions(exportDir string) []ui.CommanderOption {
	options := []ui.CommanderOption{ui.WithExportDir(exportDir)}
	counter, err := tokens.NewCounter()
	if err != nil {
		log.Warn().Err(err).Msg("token counting disabled")
		return options
	}
	return append(options, ui.WithTokenCounter(counter))
}

func runChat(ctx context.Context, forceREPL bool, printEvents bool, exportDir string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	router, err := newEventRouter()
	if err != nil {
		return err
	}
	defer func() {
		_ = router.Close()
	}()

	manager, err := newManager(router.Sink(chatTopic))
	if err != nil {
		return err
	}
	commander := ui.NewCommander(manager, commanderOptions(exportDir)...)

	isTerminal := isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())
	useTUI := isTerminal && !forceREPL

	var run func(ctx context.Context) error
	if useTUI {
		p := tea.NewProgram(
			ui.InitialModel(ctx, manager, commander),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(), // turn on mouse support so we can track the mouse wheel
			tea.WithContext(ctx),
		)
		router.AddEventHandler("ui", chatTopic, ui.EventForwardFunc(p))
		run = func(ctx context.Context) error {
			_, err := p.Run()
			return err
		}
	} else {
		if printEvents {
			router.AddHandler("dump", chatTopic, router.DumpRawEvents(os.Stderr))
		}
		run = func(ctx context.Context) error {
			return ui.RunREPL(ctx, os.Stdin, os.Stdout, manager, commander, isatty.IsTerminal(os.Stdin.Fd()))
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return router.Run(ctx)
	})
	eg.Go(func() error {
		defer cancel()
		<-router.Running()
		return run(ctx)
	})

	err = eg.Wait()
	log.Debug().Strs("sessions", manager.ListSessions()).Msg("chat finished")
	return err
}
