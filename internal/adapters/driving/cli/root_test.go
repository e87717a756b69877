package cli

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

// mockValidationService implements driving.ValidationService for testing.
// Results are keyed by document URI; result is used for any other URI.
type mockValidationService struct {
	mu       sync.Mutex
	result   *domain.ValidationResult
	results  map[string]*domain.ValidationResult
	errs     map[string]error
	batchErr error

	raws []domain.RawDocument
	opts domain.ValidateOptions
}

func (m *mockValidationService) resultFor(uri string) (*domain.ValidationResult, error) {
	if err, ok := m.errs[uri]; ok {
		return nil, err
	}
	r := m.result
	if byURI, ok := m.results[uri]; ok {
		r = byURI
	}
	if r == nil {
		return nil, domain.ErrNotImplemented
	}
	out := *r
	out.Source = uri
	return &out, nil
}

func (m *mockValidationService) Validate(
	_ context.Context,
	_ *domain.Object,
	opts domain.ValidateOptions,
) (*domain.ValidationResult, error) {
	m.opts = opts
	return m.resultFor("")
}

func (m *mockValidationService) ValidateRaw(
	_ context.Context,
	raw *domain.RawDocument,
	opts domain.ValidateOptions,
) (*domain.ValidationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raws = append(m.raws, *raw)
	m.opts = opts
	return m.resultFor(raw.URI)
}

func (m *mockValidationService) ValidateBatch(
	_ context.Context,
	raws []domain.RawDocument,
	opts domain.ValidateOptions,
) ([]domain.BatchItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raws = append(m.raws, raws...)
	m.opts = opts
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	items := make([]domain.BatchItem, len(raws))
	for i, raw := range raws {
		items[i].Source = raw.URI
		items[i].Result, items[i].Err = m.resultFor(raw.URI)
	}
	return items, nil
}

// mockProfileService implements driving.ProfileService for testing.
type mockProfileService struct {
	profiles []domain.ProfileSummary
	ref      domain.ProfileRef
	err      error

	resolved []domain.RawDocument
}

func (m *mockProfileService) List(_ context.Context) ([]domain.ProfileSummary, error) {
	return m.profiles, m.err
}

func (m *mockProfileService) Get(_ context.Context, name string) (*domain.ProfileSummary, error) {
	for i := range m.profiles {
		if m.profiles[i].Name == name {
			return &m.profiles[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProfileService) Resolve(_ context.Context, _ *domain.Object) (domain.ProfileRef, error) {
	return m.ref, m.err
}

func (m *mockProfileService) ResolveRaw(_ context.Context, raw *domain.RawDocument) (domain.ProfileRef, error) {
	m.resolved = append(m.resolved, *raw)
	return m.ref, m.err
}

// mockHistoryService implements driving.HistoryService for testing.
type mockHistoryService struct {
	results map[string]*domain.ValidationResult
	err     error

	limit int
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.limit = limit
	if m.err != nil {
		return nil, m.err
	}
	var entries []domain.HistoryEntry
	for _, r := range m.results {
		entries = append(entries, domain.NewHistoryEntry(r))
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ValidatedAt.After(entries[j].ValidatedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.ValidationResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	r, ok := m.results[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *mockHistoryService) Delete(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.results[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.results, id)
	return nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	values map[string]string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error {
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if _, ok := m.values[key]; !ok {
		return domain.ErrInvalidInput
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Value(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", domain.ErrInvalidInput
	}
	return v, nil
}

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) Validate() error {
	return nil
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	validation *mockValidationService
	profile    *mockProfileService
	history    *mockHistoryService
	settings   *mockSettingsService
}

func setupTestServices() (*testServices, func()) {
	oldValidation, oldProfile := validationService, profileService
	oldHistory, oldSettings, oldRate := historyService, settingsService, mcpRateLimit

	ts := &testServices{
		validation: &mockValidationService{result: newTestResult(true)},
		profile: &mockProfileService{
			profiles: []domain.ProfileSummary{
				{Name: "Dataset", Versions: []string{"1.0-RELEASE", "0.3-RELEASE"}, Selected: "1.0-RELEASE"},
				{Name: "Gene", Versions: []string{"0.2-DRAFT"}, Selected: "0.2-DRAFT"},
			},
			ref: domain.ProfileRef{Name: "Dataset", Version: "1.0-RELEASE", Resolution: domain.ResolutionConformance},
		},
		history: &mockHistoryService{results: map[string]*domain.ValidationResult{}},
		settings: &mockSettingsService{values: map[string]string{
			"history.enabled":        "true",
			"profiles.schema_dir":    "profiles/json",
			"validation.concurrency": "4",
		}},
	}
	SetServices(Services{
		Validation: ts.validation,
		Profile:    ts.profile,
		History:    ts.history,
		Settings:   ts.settings,
	})

	return ts, func() {
		validationService, profileService = oldValidation, oldProfile
		historyService, settingsService, mcpRateLimit = oldHistory, oldSettings, oldRate
	}
}

// newTestResult builds a Dataset result. An invalid result misses name.
func newTestResult(valid bool) *domain.ValidationResult {
	report := &domain.CompletenessReport{
		ProfileName:     "Dataset",
		ProfileVersion:  "1.0-RELEASE",
		Minimum:         domain.NewLevelReport(),
		Recommended:     domain.NewLevelReport(),
		Optional:        domain.NewLevelReport(),
		Valid:           valid,
		ExtraProperties: []string{},
	}
	report.Minimum.Implemented = []string{"description", "url"}
	report.Recommended.Missing = []string{"keywords", "license"}
	r := &domain.ValidationResult{
		ID: "res-1",
		Profile: domain.ProfileRef{
			Name:       "Dataset",
			Version:    "1.0-RELEASE",
			Resolution: domain.ResolutionConformance,
		},
		ErrorMessages:     []string{},
		ErroredProperties: []string{},
		DateWarnings:      []string{},
		Warnings:          []string{},
		Report:            report,
		ValidatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if !valid {
		report.Minimum.Missing = []string{"name"}
		r.ErrorMessages = []string{"For property: name\nis a required property"}
		report.ErrorMessages = r.ErrorMessages
	}
	return r
}

// resetFlags restores every flag to its default; cobra keeps parsed
// values between Execute calls.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(args ...string) (string, error) {
	return executeCommandWithInput(strings.NewReader(""), args...)
}

func executeCommandWithInput(in io.Reader, args ...string) (string, error) {
	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(in)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "metaval", rootCmd.Use)
	assert.Contains(t, rootCmd.Long, "METAVAL_HOME")
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	if assert.NotNil(t, flag) {
		assert.Equal(t, "v", flag.Shorthand)
		assert.Equal(t, "false", flag.DefValue)
	}
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"validate", "profile", "history", "settings", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestSetServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	SetServices(Services{RateLimit: 7})

	assert.Nil(t, validationService)
	assert.Nil(t, historyService)
	assert.Equal(t, 7, mcpRateLimit)
}
