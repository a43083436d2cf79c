package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zerosite/zerosite/internal/models"
	"github.com/zerosite/zerosite/internal/parser"
	"github.com/zerosite/zerosite/internal/services"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "zeroctl",
		Short: "Inspect the Zero document",
		Long: `zeroctl parses the plaintext Zero document the same way the server does.

Use it to check a document edit before deploying:
  zeroctl parse zero.txt --format outline
  zeroctl meta zero.txt --chapter 2`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(metaCmd())
	return rootCmd
}

func loadDocument(path string, skipTOC bool) (*models.ZeroContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	p := &parser.Parser{SkipTableOfContents: skipTOC}
	return p.Parse(string(data)), nil
}

func parseCmd() *cobra.Command {
	var (
		format string
		noTOC  bool
	)

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a document and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := loadDocument(args[0], !noTOC)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), content)
			case "outline":
				writeOutline(cmd.OutOrStdout(), content)
				return nil
			default:
				return fmt.Errorf("unknown format %q (use json or outline)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, outline")
	cmd.Flags().BoolVar(&noTOC, "no-toc", false, "Document has no table of contents; start content at the first \"Chapter 1:\"")
	return cmd
}

func metaCmd() *cobra.Command {
	var (
		chapter   int
		principle int
		siteURL   string
		siteName  string
		noTOC     bool
	)

	cmd := &cobra.Command{
		Use:   "meta <file>",
		Short: "Print the page metadata the server would publish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := loadDocument(args[0], !noTOC)
			if err != nil {
				return err
			}

			site := services.SiteInfo{Name: siteName, URL: strings.TrimSuffix(siteURL, "/")}
			if chapter == 0 {
				return writeJSON(cmd.OutOrStdout(), services.DocumentMetadata(site, content))
			}

			ch, ok := content.Chapter(chapter)
			if !ok {
				return fmt.Errorf("chapter %d not found", chapter)
			}
			if principle == 0 {
				return writeJSON(cmd.OutOrStdout(), services.ChapterMetadata(site, ch))
			}

			pr, ok := ch.Principle(principle)
			if !ok {
				return fmt.Errorf("principle %d not found in chapter %d", principle, chapter)
			}
			return writeJSON(cmd.OutOrStdout(), services.PrincipleMetadata(site, ch, pr))
		},
	}

	cmd.Flags().IntVar(&chapter, "chapter", 0, "Chapter number (0 for the whole document)")
	cmd.Flags().IntVar(&principle, "principle", 0, "Principle number within --chapter")
	cmd.Flags().StringVar(&siteURL, "site-url", "http://localhost:8080", "Public site URL used for canonical links")
	cmd.Flags().StringVar(&siteName, "site-name", "Zero", "Site name used in titles")
	cmd.Flags().BoolVar(&noTOC, "no-toc", false, "Document has no table of contents")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeOutline(w io.Writer, content *models.ZeroContent) {
	if content.Preface != "" {
		fmt.Fprintf(w, "Preface (%d chars)\n", len(content.Preface))
	}
	for _, ch := range content.Chapters {
		fmt.Fprintf(w, "%s  Chapter %d: %s\n", ch.ID, ch.Number, ch.Title)
		for _, pr := range ch.Principles {
			fmt.Fprintf(w, "  %s  Principle %d: %s (%d paragraphs)\n", pr.ID, pr.Number, pr.Title, len(pr.Paragraphs()))
		}
	}
	if content.Conclusion != "" {
		fmt.Fprintf(w, "Conclusion (%d chars)\n", len(content.Conclusion))
	}
	fmt.Fprintf(w, "\n%d chapters, %d principles\n", len(content.Chapters), content.PrincipleCount())
}
