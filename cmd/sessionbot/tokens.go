package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-go-golems/sessionbot/pkg/chatbot"
	"github.com/go-go-golems/sessionbot/pkg/conversation/builder"
	"github.com/go-go-golems/sessionbot/pkg/tokens"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newTokensCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [text...]",
		Short: "Estimate the number of tokens in a text (reads stdin without arguments)",
		RunE: func(cmd *cobra.Command, args []string) error {
			withSystem, _ := cmd.Flags().GetBool("with-system")

			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(os.Stdin)
				if err != nil {
					return errors.Wrap(err, "could not read stdin")
				}
				text = string(b)
			}

			counter, err := tokens.NewCounter()
			if err != nil {
				return err
			}

			var n int
			if withSystem {
				systemInstruction, err := loadSystemInstruction()
				if err != nil {
					return err
				}
				systemInstruction, err = chatbot.RenderSystemInstruction(systemInstruction, nil)
				if err != nil {
					return err
				}
				n, err = counter.CountPrompt(builder.Build(systemInstruction, nil, text))
				if err != nil {
					return err
				}
			} else {
				n, err = counter.Count(text)
				if err != nil {
					return err
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d tokens (%s estimate)\n", n, tokens.DefaultEncoding)
			return err
		},
	}
	cmd.Flags().Bool("with-system", false, "Count a full prompt: system instruction plus the text as user message")
	return cmd
}
