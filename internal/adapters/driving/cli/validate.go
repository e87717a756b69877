package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

var (
	validateSchemaPath  string
	validateFormat      string
	validateRecord      bool
	validateConcurrency int
)

var validateCmd = &cobra.Command{
	Use:   "validate [path...]",
	Short: "Validate metadata records",
	Long: `Validate metadata records against their community profile.

Each argument is a file, a directory or "-" for standard input. Directories
are searched recursively for .json, .jsonld, .yaml and .yml files.

The profile is taken from the record's conformsTo claim, falling back to
its @type. Use --profile to validate against a specific schema file.

Examples:
  metaval validate dataset.json
  metaval validate --format csv ./records > report.csv
  cat dataset.yaml | metaval validate -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchemaPath, "profile", "p", "",
		"Validate against this profile schema file instead of resolving one")
	validateCmd.Flags().StringVarP(&validateFormat, "format", "f", formatText,
		"Output format: text, json or csv")
	validateCmd.Flags().BoolVar(&validateRecord, "record", true,
		"Store results in the validation history")
	validateCmd.Flags().IntVarP(&validateConcurrency, "concurrency", "c", 0,
		"Documents validated in parallel (0 = validation.concurrency setting)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validationService == nil {
		return errors.New("validation service not configured")
	}

	format := strings.ToLower(validateFormat)
	switch format {
	case formatText, formatJSON, formatCSV:
	default:
		return fmt.Errorf("unknown format %q: use text, json or csv", validateFormat)
	}

	docs, err := collectDocuments(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return errors.New("no metadata documents found")
	}

	opts := domain.ValidateOptions{
		SchemaPath:  validateSchemaPath,
		Record:      validateRecord,
		Concurrency: validateConcurrency,
	}
	items, err := validationService.ValidateBatch(cmd.Context(), docs, opts)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	switch format {
	case formatJSON:
		err = writeJSON(cmd.OutOrStdout(), items)
	case formatCSV:
		err = writeCSV(cmd.OutOrStdout(), items)
	default:
		printer := newReportPrinter(cmd.OutOrStdout())
		for _, item := range items {
			printer.item(item)
		}
		printer.summary(items)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, item := range items {
		if s := statusOf(item); s == statusInvalid || s == statusError {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) did not pass validation", failed, len(items))
	}
	return nil
}
