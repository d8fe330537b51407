// Package report renders archived affirmations into a monthly markdown
// report and converts it to PDF.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mandolyte/mdtopdf"

	"github.com/serendip-ai/serendipity/internal/archive"
)

// Monthly renders the markdown body for a month of archived affirmations.
func Monthly(entries []archive.Entry, year int, month time.Month) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Affirmations: %s %d\n\n", month.String(), year)

	if len(entries) == 0 {
		b.WriteString("No affirmations were archived this month.\n")
		return b.String()
	}

	for _, entry := range entries {
		fmt.Fprintf(&b, "## %s\n\n", entry.CreatedAt.Format("Monday, January 2"))
		fmt.Fprintf(&b, "> %s\n\n", strings.ReplaceAll(entry.Body, "\n", " "))
		if metadata := entry.DecodedMetadata(); metadata["visual_element"] != "" {
			fmt.Fprintf(&b, "%s\n\n", metadata["visual_element"])
		}
	}
	return b.String()
}

// WriteMonthly writes the markdown report into dir and converts it to PDF.
// It returns the path of the generated PDF.
func WriteMonthly(dir string, entries []archive.Entry, year int, month time.Month) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	name := fmt.Sprintf("affirmations-%d-%02d", year, month)
	markdownPath := filepath.Join(dir, name+".md")
	body := Monthly(entries, year, month)
	if err := os.WriteFile(markdownPath, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}

	return convertMarkdownToPDF(markdownPath)
}

// convertMarkdownToPDF converts a markdown file to PDF using mdtopdf package
// The PDF file will be created in the same directory as the markdown file
func convertMarkdownToPDF(markdownPath string) (string, error) {
	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}
