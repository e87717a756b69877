// Package cli provides the metaval command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/metaval/internal/core/ports/driving"
	"github.com/custodia-labs/metaval/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var verbose bool

// Services used by commands. Set once by SetServices before Execute.
var (
	validationService driving.ValidationService
	profileService    driving.ProfileService
	historyService    driving.HistoryService
	settingsService   driving.SettingsService

	// mcpRateLimit caps MCP HTTP requests per second.
	mcpRateLimit int
)

// Services holds the driving ports the commands call.
type Services struct {
	Validation driving.ValidationService
	Profile    driving.ProfileService
	History    driving.HistoryService // nil when history is disabled
	Settings   driving.SettingsService

	// RateLimit caps MCP HTTP requests per second. Zero disables it.
	RateLimit int
}

// SetServices injects the services used by commands.
func SetServices(s Services) {
	validationService = s.Validation
	profileService = s.Profile
	historyService = s.History
	settingsService = s.Settings
	mcpRateLimit = s.RateLimit
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "metaval",
	Short: "Validate metadata records against community profiles",
	Long: `metaval validates JSON-LD and YAML metadata records against versioned
community profiles.

For each record it determines the profile and version the record targets,
validates it against that profile's JSON Schema, checks date properties are
in order and reports which Minimum, Recommended and Optional properties are
implemented, missing or in error.

Profiles live under ~/.metaval/profiles by default. Set METAVAL_HOME to use
another application directory.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Print pipeline progress and the marginality report log")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
