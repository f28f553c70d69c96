package ui

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-go-golems/sessionbot/pkg/chatbot"
	"github.com/go-go-golems/sessionbot/pkg/conversation/builder"
	"github.com/go-go-golems/sessionbot/pkg/export"
	"github.com/go-go-golems/sessionbot/pkg/tokens"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Command is a slash command typed into the chat input, e.g. "/switch work".
type Command struct {
	Name string
	Args []string
}

// Arg returns the arguments joined by spaces, so session names may contain spaces.
func (c Command) Arg() string {
	return strings.Join(c.Args, " ")
}

var commandNames = map[string]bool{
	"switch": true, "new": true, "clear": true, "sessions": true,
	"summary": true, "info": true, "history": true, "export": true,
	"tokens": true, "help": true, "?": true, "quit": true, "exit": true, "q": true,
}

// ParseCommand recognizes a known command name after a leading "/".
// Anything else, such as "/etc/hosts is empty" or "//switch", is a chat message.
func ParseCommand(input string) (Command, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") || strings.HasPrefix(input, "//") {
		return Command{}, false
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return Command{}, false
	}
	name := strings.ToLower(fields[0])
	if !commandNames[name] {
		return Command{}, false
	}
	return Command{
		Name: name,
		Args: fields[1:],
	}, true
}

// ChatMessage returns the text to send for input that isn't a command.
// A leading "//" escapes a message that would otherwise parse as a command.
func ChatMessage(input string) string {
	if strings.HasPrefix(strings.TrimSpace(input), "//") {
		return strings.Replace(input, "//", "/", 1)
	}
	return input
}

type CommandResult struct {
	Output string
	// Quit asks the caller to end the chat.
	Quit bool
	// SessionChanged means the current session or its history changed and views should reload.
	SessionChanged bool
}

var ErrUnknownCommand = errors.New("unknown command")

const HelpText = `Commands:
  /switch <name>     switch to a session, creating it if needed
  /new <name>        create a session and switch to it
  /clear [name]      clear a session's history (default: current)
  /sessions          list sessions
  /summary [name]    show how many messages a session holds
  /history           print the current session's history
  /export [format]   write the current session to a file (text, json, yaml)
  /tokens            estimate the prompt size of the current session
  /help              show this help
  /quit              leave the chat

Start a message with "//" to send it as text, e.g. "//help me".`

// Commander runs slash commands against a chat manager. It is shared by the
// TUI and the line-oriented chat.
type Commander struct {
	manager   *chatbot.Manager
	counter   *tokens.Counter
	exportDir string
}

type CommanderOption func(*Commander)

// WithTokenCounter enables /tokens.
func WithTokenCounter(counter *tokens.Counter) CommanderOption {
	return func(c *Commander) {
		c.counter = counter
	}
}

// WithExportDir sets where /export writes its files. Defaults to the working directory.
func WithExportDir(dir string) CommanderOption {
	return func(c *Commander) {
		c.exportDir = dir
	}
}

func NewCommander(manager *chatbot.Manager, options ...CommanderOption) *Commander {
	ret := &Commander{
		manager:   manager,
		exportDir: ".",
	}
	for _, o := range options {
		o(ret)
	}
	return ret
}

func (c *Commander) Run(cmd Command) (CommandResult, error) {
	log.Debug().Str("command", cmd.Name).Strs("args", cmd.Args).Msg("running command")

	switch cmd.Name {
	case "switch", "new":
		name := cmd.Arg()
		if name == "" {
			return CommandResult{Output: "Please enter a session name"}, nil
		}
		existed := c.manager.Exists(name)
		out := c.manager.SwitchSession(name)
		if cmd.Name == "new" && !existed {
			out = fmt.Sprintf("Created session: %s", name)
		}
		return CommandResult{Output: out, SessionChanged: true}, nil

	case "clear":
		name := cmd.Arg()
		c.manager.ClearSession(name)
		if name == "" || name == c.manager.CurrentSession() {
			return CommandResult{Output: "Session cleared!", SessionChanged: true}, nil
		}
		return CommandResult{Output: fmt.Sprintf("Cleared session: %s", name)}, nil

	case "sessions":
		ids := c.manager.ListSessions()
		if len(ids) == 0 {
			return CommandResult{Output: "No sessions yet"}, nil
		}
		current := c.manager.CurrentSession()
		lines := make([]string, 0, len(ids))
		for _, id := range ids {
			marker := " "
			if id == current {
				marker = "*"
			}
			lines = append(lines, fmt.Sprintf("%s %s", marker, id))
		}
		return CommandResult{Output: strings.Join(lines, "\n")}, nil

	case "summary", "info":
		return CommandResult{Output: c.manager.Summarize(cmd.Arg())}, nil

	case "history":
		turns := c.manager.Turns("")
		var buf bytes.Buffer
		if err := export.Write(&buf, c.manager.CurrentSession(), turns, export.FormatText); err != nil {
			if errors.Is(err, export.ErrEmptyHistory) {
				return CommandResult{Output: fmt.Sprintf("No messages in session %s", c.manager.CurrentSession())}, nil
			}
			return CommandResult{}, err
		}
		return CommandResult{Output: buf.String()}, nil

	case "export":
		return c.export(cmd.Arg())

	case "tokens":
		if c.counter == nil {
			return CommandResult{Output: "Token counting is not available"}, nil
		}
		prompt := builder.Build(c.manager.SystemInstruction(), c.manager.Turns(""), "")
		n, err := c.counter.CountPrompt(prompt)
		if err != nil {
			return CommandResult{}, err
		}
		return CommandResult{Output: fmt.Sprintf(
			"Session '%s': ~%d prompt tokens (%s estimate)",
			c.manager.CurrentSession(), n, tokens.DefaultEncoding,
		)}, nil

	case "help", "?":
		return CommandResult{Output: HelpText}, nil

	case "quit", "exit", "q":
		return CommandResult{Quit: true}, nil

	default:
		return CommandResult{}, errors.Wrapf(ErrUnknownCommand, "/%s, try /help", cmd.Name)
	}
}

func (c *Commander) export(formatName string) (CommandResult, error) {
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return CommandResult{}, err
	}

	session := c.manager.CurrentSession()
	turns := c.manager.Turns("")
	if len(turns) == 0 {
		return CommandResult{Output: "No chat history to export"}, nil
	}

	path := filepath.Join(c.exportDir, export.FileName(session, format))
	f, err := os.Create(path)
	if err != nil {
		return CommandResult{}, errors.Wrap(err, "could not create export file")
	}
	defer func() {
		_ = f.Close()
	}()

	if err := export.Write(f, session, turns, format); err != nil {
		return CommandResult{}, err
	}
	log.Debug().Str("session", session).Str("path", path).Msg("exported chat history")

	return CommandResult{Output: fmt.Sprintf("Exported %d messages to %s", len(turns), path)}, nil
}
