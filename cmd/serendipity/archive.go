package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/serendip-ai/serendipity/internal/archive"
	"github.com/serendip-ai/serendipity/internal/report"
)

func openArchive() (*archive.Archive, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Archive.Enabled {
		return nil, fmt.Errorf("the content archive is disabled; set archive.enabled in the configuration")
	}

	db, err := archive.Open(cfg.Archive.Database)
	if err != nil {
		return nil, fmt.Errorf("archive.Open() > %w", err)
	}
	return archive.New(db), nil
}

func newArchiveCommand() *cobra.Command {
	archiveCommand := &cobra.Command{
		Use:   "archive",
		Short: "Browse archived generated content",
	}

	var limit int
	listCommand := &cobra.Command{
		Use:   "list",
		Short: "List recently archived content",
		RunE: func(cmd *cobra.Command, args []string) error {
			contentArchive, err := openArchive()
			if err != nil {
				return err
			}
			defer func() {
				_ = contentArchive.Close()
			}()

			entries, err := contentArchive.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			kindColor := color.New(color.FgCyan)
			for _, entry := range entries {
				kindColor.Printf("%-20s", entry.Kind)
				fmt.Printf(" %s  %s\n", entry.CreatedAt.Format("2006-01-02 15:04"), firstLine(entry.Body))
			}
			return nil
		},
	}
	listCommand.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to show")
	archiveCommand.AddCommand(listCommand)

	return archiveCommand
}

func newReportCommand() *cobra.Command {
	var monthFlag, outputDir string
	reportCommand := &cobra.Command{
		Use:   "report",
		Short: "Export a monthly PDF report of archived affirmations",
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := time.Parse("2006-01", monthFlag)
			if err != nil {
				return fmt.Errorf("invalid --month %q, expected YYYY-MM", monthFlag)
			}

			contentArchive, err := openArchive()
			if err != nil {
				return err
			}
			defer func() {
				_ = contentArchive.Close()
			}()

			entries, err := contentArchive.AffirmationsForMonth(cmd.Context(), month.Year(), month.Month())
			if err != nil {
				return err
			}

			pdfPath, err := report.WriteMonthly(outputDir, entries, month.Year(), month.Month())
			if err != nil {
				return err
			}
			fmt.Printf("Report written to %s (%d affirmations)\n", pdfPath, len(entries))
			return nil
		},
	}
	reportCommand.Flags().StringVar(&monthFlag, "month", time.Now().Format("2006-01"), "month to report on (YYYY-MM)")
	reportCommand.Flags().StringVar(&outputDir, "output", "reports", "directory for the generated report")
	return reportCommand
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	if len(text) > 80 {
		text = text[:80] + "…"
	}
	return text
}
