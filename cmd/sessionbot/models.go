package main

import (
	"fmt"

	"github.com/go-go-golems/sessionbot/pkg/steps/ai/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models that can be selected with --ai-engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := viper.GetString(settings.KeyEngine)
			w := cmd.OutOrStdout()
			for _, m := range settings.AllowedModels {
				marker := " "
				if m == selected {
					marker = "*"
				}
				suffix := ""
				if m == settings.DefaultModel {
					suffix = " (default)"
				}
				if _, err := fmt.Fprintf(w, "%s %s%s\n", marker, m, suffix); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
