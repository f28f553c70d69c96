package main

import (
	"os"
	"strings"

	"github.com/go-go-golems/sessionbot/pkg/chatbot"
	"github.com/go-go-golems/sessionbot/pkg/events"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/go-go-golems/sessionbot/pkg/steps/ai/types"
	"github.com/go-go-golems/sessionbot/pkg/ui"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcnksm/go-input"
)

func addSettingsFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("profile-file", "", "YAML file with step settings (chat, client, api)")
	flags.String(settings.KeyApiType, string(types.ApiTypeGroq), "API type (groq, echo)")
	flags.String(settings.KeyEngine, settings.DefaultModel, "Model to use ("+strings.Join(settings.AllowedModels, ", ")+")")
	flags.Float64(settings.KeyTemperature, settings.DefaultTemperature, "Sampling temperature")
	flags.Int(settings.KeyMaxResponseTokens, settings.DefaultMaxResponseTokens, "Maximum tokens in a reply")
	flags.Int(settings.KeyTimeout, 60, "Timeout for a single model call, in seconds")
	flags.String(settings.KeyUserAgent, "", "User agent sent to the API")
	flags.String(settings.APIKeyKey(types.ApiTypeGroq), "", "Groq API key (also read from GROQ_API_KEY)")
	flags.String(settings.APIBaseURLKey(types.ApiTypeGroq), "", "Groq API base URL (default "+settings.DefaultGroqBaseURL+")")

	flags.String("system", "", "System instruction, rendered as a Go template (write a literal {{ as {{\"{{\"}}, or use --raw-system)")
	flags.String("system-file", "", "File containing the system instruction")
	flags.Bool("raw-system", false, "Use the system instruction verbatim, without template rendering")
	flags.String("session", chatbot.DefaultSessionID, "Session to start in")
}

// loadStepSettings layers the profile file, then config file, environment and flags.
func loadStepSettings() (*settings.StepSettings, error) {
	stepSettings := settings.NewStepSettings()

	if profileFile := viper.GetString("profile-file"); profileFile != "" {
		f, err := os.Open(profileFile)
		if err != nil {
			return nil, errors.Wrap(err, "could not open profile file")
		}
		defer func() {
			_ = f.Close()
		}()
		stepSettings, err = settings.NewStepSettingsFromYAML(f)
		if err != nil {
			return nil, err
		}
	}

	if err := stepSettings.UpdateFromViper(viper.GetViper()); err != nil {
		return nil, err
	}

	log.Debug().Fields(stepSettings.GetMetadata()).Msg("loaded step settings")
	return stepSettings, nil
}

func loadSystemInstruction() (string, error) {
	if s := viper.GetString("system"); s != "" {
		return s, nil
	}
	if path := viper.GetString("system-file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(err, "could not read system file")
		}
		return string(b), nil
	}
	return chatbot.DefaultSystemInstruction, nil
}

// ensureAPIKey asks for the Groq key on the terminal when none is configured.
func ensureAPIKey(stepSettings *settings.StepSettings) error {
	apiType := stepSettings.Chat.GetApiType()
	if apiType != types.ApiTypeGroq || stepSettings.API.GetAPIKey(apiType) != "" {
		return nil
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}

	// stdin may be a pipe feeding the chat, so ask on the terminal itself
	tty_, err := ui.OpenTTY()
	if err != nil {
		log.Debug().Err(err).Msg("no terminal to ask for the API key")
		return nil
	}
	defer func() {
		_ = tty_.Close()
	}()

	ui_ := &input.UI{
		Writer: tty_,
		Reader: tty_,
	}
	key, err := ui_.Ask("Groq API Key", &input.Options{
		Required:  true,
		Mask:      true,
		HideOrder: true,
		Loop:      true,
		ValidateFunc: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("please enter your Groq API key")
			}
			return nil
		},
	})
	if err != nil {
		return errors.Wrap(err, "could not read API key")
	}
	stepSettings.API.SetAPIKey(apiType, strings.TrimSpace(key))
	return nil
}

// newManager builds the chat manager from the configured settings. sinks receive
// the inference events of every send.
func newManager(sinks ...events.EventSink) (*chatbot.Manager, error) {
	stepSettings, err := loadStepSettings()
	if err != nil {
		return nil, err
	}
	if err := ensureAPIKey(stepSettings); err != nil {
		return nil, err
	}

	systemInstruction, err := loadSystemInstruction()
	if err != nil {
		return nil, err
	}

	options := []chatbot.ManagerOption{
		chatbot.WithStepSettings(stepSettings),
		chatbot.WithDefaultSession(viper.GetString("session")),
	}
	if viper.GetBool("raw-system") {
		options = append(options, chatbot.WithRawSystemInstruction())
	}
	for _, sink := range sinks {
		options = append(options, chatbot.WithEventSink(sink))
	}

	return chatbot.NewManager(systemInstruction, options...)
}
