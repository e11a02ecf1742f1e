package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate man pages or markdown reference",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		dir, _ := cmd.Flags().GetString("output")

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		rootCmd.DisableAutoGenTag = true
		switch format {
		case "man":
			return doc.GenManTree(rootCmd, &doc.GenManHeader{
				Title:   "ACCOUNTCTL",
				Section: "1",
				Source:  "accountctl " + version,
			}, dir)
		case "markdown":
			return doc.GenMarkdownTree(rootCmd, dir)
		default:
			return fmt.Errorf("unknown format %q: must be man or markdown", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().String("format", "markdown", "output format: man or markdown")
	docsCmd.Flags().String("output", "docs", "output directory")
}
