package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/errgrid/internal/cli"
	"github.com/JonMunkholm/errgrid/internal/logging"
)

// Build-time variables
var (
	version = "dev"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:           "errgrid",
	Short:         "Highlight validation errors in spreadsheets",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, "text")
	},
}

var styleCmd = &cobra.Command{
	Use:   "style <errors.json> <workbook-glob>...",
	Short: "Style workbook cells by the errors that apply to them",
	Long: `Style workbook cells by the errors that apply to them.

The errors file is a JSON array of error records, or an object with an
"errors" array such as a report payload. Column and row indexes are zero-based
and count data rows only; --header-rows tells errgrid how many rows to skip.

With --out, each workbook keeps its path below the pattern's base directory,
so 'in/**/*.xlsx' writes in/a/r.xlsx to out/a/r.xlsx. Two inputs that would
share an output file are rejected before anything is written.

Examples:
  errgrid style errors.json results.xlsx
  errgrid style errors.json 'exports/**/*.xlsx' --out styled/
  errgrid style report.json data.xlsx --sheet Samples --palette colours.yaml`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		out, _ := flags.GetString("out")
		sheet, _ := flags.GetString("sheet")
		headerRows, _ := flags.GetInt("header-rows")
		palette, _ := flags.GetString("palette")
		concurrency, _ := flags.GetInt("concurrency")

		if headerRows < 0 {
			return fmt.Errorf("--header-rows must be non-negative")
		}
		if palette == "" {
			palette = os.Getenv("HIGHLIGHT_PALETTE_FILE")
		}

		results, err := cli.StyleWorkbooks(cmd.Context(), cli.StyleOptions{
			ErrorsFile:  args[0],
			Patterns:    args[1:],
			OutDir:      out,
			Sheet:       sheet,
			HeaderRows:  headerRows,
			PaletteFile: palette,
			Concurrency: concurrency,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatResults(results))
		for _, r := range results {
			if r.Err != nil {
				return errors.New("some workbooks could not be styled")
			}
		}
		return nil
	},
}

var lettersCmd = &cobra.Command{
	Use:   "letters <index|label>...",
	Short: "Convert between zero-based column indexes and column labels",
	Long: `Convert between zero-based column indexes and column labels.

Examples:
  errgrid letters 0 25 26     # A Z AA
  errgrid letters AA ZZ       # 26 701`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		convs, err := cli.ConvertLetters(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatConversions(convs))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	styleCmd.Flags().StringP("out", "o", "", "write styled copies to this directory instead of styling in place")
	styleCmd.Flags().String("sheet", "", "worksheet to style (default: first sheet)")
	styleCmd.Flags().Int("header-rows", 1, "rows above the data that are never styled")
	styleCmd.Flags().String("palette", "", "YAML file overriding highlight colours (default: $HIGHLIGHT_PALETTE_FILE)")
	styleCmd.Flags().IntP("concurrency", "j", cli.DefaultConcurrency, "workbooks styled in parallel")

	rootCmd.AddCommand(styleCmd, lettersCmd)
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatErrorMessage(err.Error()))
		stop()
		os.Exit(1)
	}
}
