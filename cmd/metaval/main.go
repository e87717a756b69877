// Command metaval validates metadata records against community profiles.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/metaval/internal/adapters/driven/config/file"
	"github.com/custodia-labs/metaval/internal/adapters/driven/dates"
	"github.com/custodia-labs/metaval/internal/adapters/driven/schema/jsonschema"
	"github.com/custodia-labs/metaval/internal/adapters/driven/storage/cache"
	"github.com/custodia-labs/metaval/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/metaval/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/metaval/internal/adapters/driving/cli"
	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/core/services"
	"github.com/custodia-labs/metaval/internal/logger"
	"github.com/custodia-labs/metaval/internal/normalisers"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// homeEnv overrides the application directory (default ~/.metaval).
const homeEnv = "METAVAL_HOME"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	home, err := file.HomeDir(os.Getenv(homeEnv))
	if err != nil {
		return report(fmt.Errorf("locating application directory: %w", err))
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return report(fmt.Errorf("loading config: %w", err))
	}
	settingsService := services.NewSettingsService(configStore)

	stored, err := settingsService.Get()
	if err != nil {
		return report(fmt.Errorf("reading settings: %w", err))
	}
	settings := *stored
	if err := settings.Validate(); err != nil {
		// Keep running on defaults so the settings command can repair the file.
		logger.Warn("Ignoring invalid settings in %s: %v", configStore.Path(), err)
		settings = domain.DefaultAppSettings()
	}
	settings = settings.ResolvePaths(home)

	profiles := cache.NewProfileStore(filesystem.NewProfileStore(settings.Profiles))
	defer profiles.Close() //nolint:errcheck

	rules, err := file.NewRuleStore(settings.Rules.Dir)
	if err != nil {
		return report(fmt.Errorf("loading rules: %w", err))
	}

	validator := jsonschema.New()
	profiles.OnInvalidate(func() { validator.Invalidate("") })
	profiles.OnInvalidate(rules.Reload)
	if settings.Profiles.Watch {
		dirs := []string{settings.Profiles.SchemaDir, settings.Profiles.MarginalityDir, settings.Rules.Dir}
		if err := profiles.Watch(ctx, dirs...); err != nil {
			logger.Warn("Not watching profile directories: %v", err)
		}
	}

	var reports driven.ReportStore
	var historyService *services.HistoryService
	if settings.History.Enabled {
		store, err := sqlite.NewStore(filepath.Join(home, "data"))
		if err != nil {
			return report(fmt.Errorf("opening history: %w", err))
		}
		defer store.Close() //nolint:errcheck
		reports = store.ReportStore()
		historyService = services.NewHistoryService(reports)
	}

	registry := normalisers.NewDefaultRegistry()
	validationService := services.NewValidationService(
		profiles, rules, validator, dates.NewParser(), registry, reports, settings)
	profileService := services.NewProfileService(profiles, registry, settings.Vocabulary)

	svc := cli.Services{
		Validation: validationService,
		Profile:    profileService,
		Settings:   settingsService,
		RateLimit:  settings.Server.RateLimit,
	}
	if historyService != nil {
		svc.History = historyService
	}
	cli.SetServices(svc)
	cli.SetVersion(version)

	return cli.Execute(ctx)
}

// report prints a startup error. Command errors are printed by cobra.
func report(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}
