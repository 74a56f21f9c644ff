package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ZJHSteven/ai-peer-review/common/logger"
	"github.com/ZJHSteven/ai-peer-review/core/config"
	"github.com/ZJHSteven/ai-peer-review/internal/llm"
	"github.com/ZJHSteven/ai-peer-review/internal/paper"
	"github.com/ZJHSteven/ai-peer-review/internal/prompt"
	"github.com/ZJHSteven/ai-peer-review/internal/review"
)

func reviewCmd() *cobra.Command {
	var (
		outputDir  string
		models     string
		metaReview bool
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "review <pdf>",
		Short: "Process a paper and generate peer reviews using multiple LLMs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd.Context(), args[0], outputDir, models, metaReview, overwrite)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "./papers", "base directory to store reviews and meta-review")
	cmd.Flags().StringVar(&models, "models", "", "comma-separated list of models to use (default: all supported models)")
	cmd.Flags().BoolVar(&metaReview, "meta-review", true, "generate meta-review after individual reviews")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing reviews")

	return cmd
}

func runReview(ctx context.Context, pdfPath, outputDir, modelsFlag string, metaReview, overwrite bool) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(settings)

	selected := llm.Supported()
	if modelsFlag != "" {
		var requested []string
		for _, m := range strings.Split(modelsFlag, ",") {
			if m = strings.TrimSpace(m); m != "" {
				requested = append(requested, m)
			}
		}
		selected = slices.DeleteFunc(requested, func(m string) bool {
			_, ok := llm.Lookup(m)
			return !ok
		})
		if len(selected) == 0 {
			fmt.Printf("No valid models specified. Available models: %s\n", strings.Join(llm.Supported(), ", "))
			return nil
		}
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	writer, err := review.NewArtifactWriter(filepath.Join(outputDir, stem))
	if err != nil {
		return err
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{Paper: stem})

	fmt.Printf("Output will be saved to: %s\n", writer.Dir())
	fmt.Printf("Processing paper: %s\n", pdfPath)
	fmt.Printf("Selected models: %s\n", strings.Join(selected, ", "))

	// Reuse existing reviews unless --overwrite; only missing models are
	// dispatched.
	cached := make(map[string]string)
	var toProcess []string
	for _, model := range selected {
		if writer.HasReview(model) && !overwrite {
			text, err := writer.ReadReview(model)
			if err != nil {
				return err
			}
			cached[model] = text
			fmt.Printf("Using existing review for %s from %s\n", model, writer.ReviewPath(model))
		} else {
			toProcess = append(toProcess, model)
		}
	}

	collected := review.NewSet()
	if len(toProcess) > 0 {
		// Paper text is extracted once per run, not once per model.
		paperText, err := paper.ExtractText(pdfPath)
		if err != nil {
			return err
		}

		orchestrator := review.NewOrchestrator(settings, clientFactory(settings))
		collected, err = orchestrator.CollectReviews(ctx, paperText, toProcess)
		if err != nil {
			return err
		}

		for _, model := range toProcess {
			result, _ := collected.Get(model)
			if err := writer.WriteReview(model, result.Text); err != nil {
				return err
			}
			if result.Failed() {
				fmt.Printf("%s: failed: %v\n", model, result.Err)
			} else {
				fmt.Printf("%s: succeeded, review saved to %s\n", model, writer.ReviewPath(model))
			}
		}
	}

	// Merge cached and fresh results back into the requested order; alias
	// assignment downstream depends on it.
	set := review.NewSet()
	for _, model := range selected {
		if text, ok := cached[model]; ok {
			set.Add(review.Result{Model: model, Text: text})
		} else if result, ok := collected.Get(model); ok {
			set.Add(result)
		}
	}
	if set.Len() == 0 {
		fmt.Println("No reviews to process. Use --overwrite to regenerate existing reviews.")
		return nil
	}

	if !metaReview {
		return nil
	}

	fmt.Println("Generating meta-review...")
	synthClient, err := newClient(settings, settings.MetaModel)
	if err != nil {
		return fmt.Errorf("constructing synthesis client: %w", err)
	}

	meta, err := review.NewSynthesizer(settings, synthClient).Synthesize(ctx, set)
	if err != nil {
		return err
	}
	if err := writer.WriteMetaReview(meta.Narrative); err != nil {
		return err
	}
	fmt.Printf("Meta-review saved to %s\n", writer.MetaReviewPath())

	if concerns, ok := review.ExtractConcerns(meta.Raw); ok {
		if err := writer.WriteConcernsCSV(concerns, meta.AliasToModel, set.Models()); err != nil {
			return err
		}
		fmt.Printf("Concerns table saved to %s\n", writer.ConcernsCSVPath())
	} else {
		fmt.Println("No valid concerns table found in meta-review")
	}

	if err := writer.WriteResults(set, meta); err != nil {
		return err
	}
	fmt.Printf("All results saved to %s\n", writer.ResultsPath())
	return nil
}

// newClient resolves credentials and endpoint overrides for one model and
// constructs its provider client.
func newClient(settings *config.Settings, model string) (llm.Client, error) {
	spec, ok := llm.Lookup(model)
	if !ok {
		return nil, fmt.Errorf("unsupported model: %s", model)
	}

	cfg := llm.Config{
		Model:        model,
		APIKey:       settings.APIKey(spec.Service),
		SystemPrompt: prompt.SystemPrompt(settings),
	}
	if base := os.Getenv(strings.ToUpper(spec.Service) + "_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}
	return llm.New(cfg)
}

func clientFactory(settings *config.Settings) review.ClientFactory {
	return func(model string) (llm.Client, error) {
		return newClient(settings, model)
	}
}
