package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

// errHistoryDisabled is returned when no history service is configured.
var errHistoryDisabled = errors.New(
	"validation history is disabled (enable it with: metaval settings set history.enabled true)")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded validation results",
	Long:  `List, show and delete validation results recorded by metaval validate.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded results, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [result-id]",
	Short: "Show a recorded result",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [result-id]",
	Short: "Delete a recorded result",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of results (0 = all)")
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	historyShowCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errHistoryDisabled
	}

	entries, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if historyJSON {
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format history: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("No recorded results.")
		return nil
	}

	for _, e := range entries {
		status := statusInvalid
		switch {
		case e.Degraded:
			status = statusIncomplete
		case e.Valid:
			status = statusValid
		}
		cmd.Printf("%s  %s  %-10s  %s %s  %s\n",
			e.ID, e.ValidatedAt.Local().Format("2006-01-02 15:04:05"), status,
			e.ProfileName, e.ProfileVersion, e.Source)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryDisabled
	}

	result, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no recorded result %q", args[0])
		}
		return fmt.Errorf("failed to get result: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Result %s, validated %s\n", result.ID, result.ValidatedAt.Local().Format("2006-01-02 15:04:05"))
	newReportPrinter(cmd.OutOrStdout()).result(result.Source, result)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errHistoryDisabled
	}

	if err := historyService.Delete(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no recorded result %q", args[0])
		}
		return fmt.Errorf("failed to delete result: %w", err)
	}
	cmd.Printf("Deleted result %s\n", args[0])
	return nil
}
