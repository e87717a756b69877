package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

var profileJSON bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect stored profiles",
	Long:  `List the profiles in the profile directory and check which one a record targets.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Long: `List every stored profile with its versions.

The version marked "selected" is the one used when a record names the
profile but no version: the newest release, or the newest draft when the
profile has no release.`,
	Args: cobra.NoArgs,
	RunE: runProfileList,
}

var profileResolveCmd = &cobra.Command{
	Use:   "resolve [file]",
	Short: "Show which profile a record targets",
	Long:  `Resolve the profile and version a record would be validated against, without validating it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileResolve,
}

func init() {
	profileListCmd.Flags().BoolVar(&profileJSON, "json", false, "Output as JSON")
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileResolveCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	profiles, err := profileService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if profileJSON {
		if profiles == nil {
			profiles = []domain.ProfileSummary{}
		}
		data, err := json.MarshalIndent(profiles, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format profiles: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(profiles) == 0 {
		cmd.Println("No profiles found.")
		return nil
	}

	cmd.Println("Profiles:")
	for _, p := range profiles {
		versions := make([]string, len(p.Versions))
		for i, v := range p.Versions {
			versions[i] = v
			if v == p.Selected {
				versions[i] += " (selected)"
			}
		}
		cmd.Printf("  %s: %s\n", p.Name, strings.Join(versions, ", "))
	}
	return nil
}

func runProfileResolve(cmd *cobra.Command, args []string) error {
	if profileService == nil {
		return errors.New("profile service not configured")
	}

	docs, err := collectDocuments(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if len(docs) != 1 {
		return fmt.Errorf("resolve expects a single document, %s holds %d", args[0], len(docs))
	}

	ref, err := profileService.ResolveRaw(cmd.Context(), &docs[0])
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			cmd.Println(buildProfileHint)
		}
		return fmt.Errorf("resolve failed: %w", err)
	}

	cmd.Printf("Profile: %s\n", ref.Name)
	cmd.Printf("Version: %s\n", ref.Version)
	cmd.Printf("Resolution: %s\n", ref.Resolution)
	if ref.Claim != nil {
		cmd.Printf("Claimed: %s %s\n", ref.Claim.Name, ref.Claim.Version)
	}
	return nil
}
