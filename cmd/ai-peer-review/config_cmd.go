package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZJHSteven/ai-peer-review/core/config"
	"github.com/ZJHSteven/ai-peer-review/internal/llm"
)

var services = []string{"openai", "anthropic", "google", "together", "deepseek"}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config <service> <api-key>",
		Short: "Set the API key for a service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := args[0]
			if !slices.Contains(services, service) {
				return fmt.Errorf("unknown service %q (one of: %s)", service, strings.Join(services, ", "))
			}

			settings, err := config.Load()
			if err != nil {
				return err
			}
			if err := settings.SetAPIKey(service, args[1]); err != nil {
				return err
			}

			fmt.Printf("API key for %s has been set successfully.\n", service)
			return nil
		},
	}
}

func listModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-models",
		Short: "List all available models for review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("Available models for peer review:")
			for _, model := range llm.Supported() {
				fmt.Printf("- %s\n", model)
			}
			fmt.Println("\nUse these model names with the --models option of 'ai-peer-review review'.")
			return nil
		},
	}
}
