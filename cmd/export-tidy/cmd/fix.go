package cmd

import (
	"strings"

	"github.com/bianoble/export-tidy/pkg/exporttidy"
	"github.com/spf13/cobra"
)

var (
	fixOutput         string
	fixDestDir        string
	fixMerge          bool
	fixRemoveTitle    bool
	fixNoRewriteLinks bool
	fixNoFolderIndex  bool
	fixToken          string
	fixExclude        []string
)

var fixCmd = &cobra.Command{
	Use:   "fix <zip-or-dir>",
	Short: "Rename entries and rewrite links in an exported bundle",
	Long: `Reads an exported bundle (zip archive or directory tree), strips the
trailing 32-hex identifiers from every name, disambiguates collisions, and
rewrites relative links in markdown and CSV content to match. The result is
written as a formatted archive, or into --dest-dir as a directory tree.

With --dest-dir the destination's existing contents are removed first
unless --merge is given. Entry-level failures are reported and skipped; the
run continues.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		opts := exporttidy.Options{
			Input:          args[0],
			OutputDir:      firstNonEmpty(fixOutput, cfg.Output),
			DestDir:        firstNonEmpty(fixDestDir, cfg.DestDir),
			Merge:          fixMerge || cfg.Merge,
			RemoveTitle:    fixRemoveTitle || cfg.RemoveTitle,
			NoRewriteLinks: fixNoRewriteLinks || !cfg.RewriteLinksOrDefault(),
			NoFolderIndex:  fixNoFolderIndex || !cfg.FolderIndexOrDefault(),
			Exclude:        append(append([]string(nil), cfg.Exclude...), fixExclude...),
			Provider:       newProvider(cfg, fixToken),
			Retry:          retryPolicy(cfg),
		}

		result, err := exporttidy.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}

		for _, c := range result.Collisions {
			detail("collision  %s  (%s)", c.FinalName, strings.Join(c.OriginalPaths, ", "))
		}
		for _, t := range result.Truncated {
			detail("truncated  %s  (%d chars)", t.Path, t.Length)
		}
		for _, f := range result.Failures {
			errorf("%s", f.Error())
		}

		info("")
		info("Wrote %s: %d entries, %d collisions renamed, %d names truncated, %d failures.",
			result.OutputPath, result.Written, len(result.Collisions), len(result.Truncated), len(result.Failures))
		return nil
	},
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	fixCmd.Flags().StringVar(&fixOutput, "output", "", "directory to write the formatted archive to (default \".\")")
	fixCmd.Flags().StringVar(&fixDestDir, "dest-dir", "", "materialize into this directory instead of an archive")
	fixCmd.Flags().BoolVar(&fixMerge, "merge", false, "merge into --dest-dir instead of clearing it")
	fixCmd.Flags().BoolVar(&fixRemoveTitle, "remove-title", false, "drop the first line of every markdown file")
	fixCmd.Flags().BoolVar(&fixNoRewriteLinks, "no-rewrite-links", false, "leave relative links untouched")
	fixCmd.Flags().BoolVar(&fixNoFolderIndex, "no-folder-index", false, "do not move pages into their same-named folders as !index")
	fixCmd.Flags().StringVar(&fixToken, "token", "", "enrichment API token (titles, icons, timestamps)")
	fixCmd.Flags().StringArrayVar(&fixExclude, "exclude", nil, "skip entries matching this glob (repeatable)")

	rootCmd.AddCommand(fixCmd)
}
