// Package paper wraps PDF text extraction. The extraction itself is a
// library pass-through; this package only normalizes errors.
package paper

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text content of a PDF file.
func ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("PDF file not found: %s", path)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from PDF %s: %w", path, err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("extracting text from PDF %s: %w", path, err)
	}

	return b.String(), nil
}
