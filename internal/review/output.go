package review

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ArtifactWriter writes the per-run output files into one directory:
// review_<model>.md per model, meta_review.md, concerns_table.csv, and the
// consolidated results.json. Each file is written by exactly one step.
type ArtifactWriter struct {
	dir string
}

func NewArtifactWriter(dir string) (*ArtifactWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	return &ArtifactWriter{dir: dir}, nil
}

func (w *ArtifactWriter) Dir() string {
	return w.dir
}

// ReviewPath returns where a model's review file lives.
func (w *ArtifactWriter) ReviewPath(model string) string {
	return filepath.Join(w.dir, "review_"+model+".md")
}

func (w *ArtifactWriter) HasReview(model string) bool {
	_, err := os.Stat(w.ReviewPath(model))
	return err == nil
}

func (w *ArtifactWriter) ReadReview(model string) (string, error) {
	data, err := os.ReadFile(w.ReviewPath(model))
	if err != nil {
		return "", fmt.Errorf("reading existing review for %s: %w", model, err)
	}
	return string(data), nil
}

func (w *ArtifactWriter) WriteReview(model, text string) error {
	if err := os.WriteFile(w.ReviewPath(model), []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing review for %s: %w", model, err)
	}
	return nil
}

// MetaReviewPath returns where the meta-review narrative lives.
func (w *ArtifactWriter) MetaReviewPath() string {
	return filepath.Join(w.dir, "meta_review.md")
}

func (w *ArtifactWriter) WriteMetaReview(text string) error {
	if err := os.WriteFile(w.MetaReviewPath(), []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing meta-review: %w", err)
	}
	return nil
}

// ConcernsCSVPath returns where the concerns table lives.
func (w *ArtifactWriter) ConcernsCSVPath() string {
	return filepath.Join(w.dir, "concerns_table.csv")
}

// WriteConcernsCSV writes the concerns table with one column per model,
// translating the per-alias flags through the alias map. A flag absent for
// a reviewer is written as false.
func (w *ArtifactWriter) WriteConcernsCSV(concerns []Concern, aliasToModel map[string]string, models []string) error {
	modelToAlias := make(map[string]string, len(aliasToModel))
	for alias, model := range aliasToModel {
		modelToAlias[model] = alias
	}

	f, err := os.Create(w.ConcernsCSVPath())
	if err != nil {
		return fmt.Errorf("creating concerns table: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := append([]string{"concern"}, models...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing concerns table: %w", err)
	}

	for _, concern := range concerns {
		row := make([]string, 0, len(models)+1)
		row = append(row, concern.Description)
		for _, model := range models {
			flag := concern.Flags[modelToAlias[model]]
			row = append(row, strconv.FormatBool(flag))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing concerns table: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing concerns table: %w", err)
	}
	return nil
}

// ResultsPath returns where the consolidated JSON document lives.
func (w *ArtifactWriter) ResultsPath() string {
	return filepath.Join(w.dir, "results.json")
}

type resultsDocument struct {
	IndividualReviews map[string]string `json:"individual_reviews"`
	MetaReview        string            `json:"meta_review"`
	ReviewerToModel   map[string]string `json:"reviewer_to_model"`
}

// WriteResults bundles the individual reviews, the meta-review narrative,
// and the alias map into one JSON document.
func (w *ArtifactWriter) WriteResults(set *Set, meta *MetaReview) error {
	doc := resultsDocument{
		IndividualReviews: make(map[string]string, set.Len()),
		MetaReview:        meta.Narrative,
		ReviewerToModel:   meta.AliasToModel,
	}
	for _, model := range set.Models() {
		result, _ := set.Get(model)
		doc.IndividualReviews[model] = result.Text
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(w.ResultsPath(), data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
