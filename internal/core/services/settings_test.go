package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/metaval/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/metaval/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set(KeySchemaDir, "/srv/profiles")
	_ = store.Set(KeyVendorDomains, []string{"example.org"})
	_ = store.Set(KeyConcurrency, 8)
	_ = store.Set(KeyWatch, false)
	_ = store.Set(KeyServerRateLimit, 0)

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, "/srv/profiles", settings.Profiles.SchemaDir)
	assert.Equal(t, []string{"example.org"}, settings.Vocabulary.VendorDomains)
	assert.Equal(t, 8, settings.Validation.Concurrency)
	assert.False(t, settings.Profiles.Watch)
	assert.Equal(t, 0, settings.Server.RateLimit)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := service.GetDefaults()
	settings.Vocabulary.RegistryDomain = "example.org"
	settings.History.Enabled = false
	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_SaveRejectsInvalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings := service.GetDefaults()
	settings.Profiles.SchemaExt = "json"
	assert.ErrorIs(t, service.Save(&settings), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Save(nil), domain.ErrInvalidInput)
}

func TestSettingsService_Set(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.Set(KeyConcurrency, "16"))
	require.NoError(t, service.Set(KeyHistoryEnabled, "false"))
	require.NoError(t, service.Set(KeyConformsToKeys, "schema:conformsTo, dct:conformsTo,"))
	require.NoError(t, service.Set(KeyRulesDir, " /etc/metaval/rules "))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 16, settings.Validation.Concurrency)
	assert.False(t, settings.History.Enabled)
	assert.Equal(t, []string{"schema:conformsTo", "dct:conformsTo"}, settings.Vocabulary.ConformsToKeys)
	assert.Equal(t, "/etc/metaval/rules", settings.Rules.Dir)
}

func TestSettingsService_SetRejectsBadInput(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	assert.ErrorIs(t, service.Set("search.mode", "hybrid"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set(KeyConcurrency, "many"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set(KeyWatch, "maybe"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set(KeyConcurrency, "0"), domain.ErrInvalidInput)
	assert.ErrorIs(t, service.Set(KeySchemaExt, "json"), domain.ErrInvalidInput)

	_, exists := service.configStore.Get(KeyConcurrency)
	assert.False(t, exists, "rejected values must not be stored")
}

func TestSettingsService_Value(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	v, err := service.Value(KeyConformsToKeys)
	require.NoError(t, err)
	assert.Equal(t, "http://purl.org/dc/terms/conformsTo,dct:conformsTo", v)

	require.NoError(t, service.Set(KeyServerRateLimit, "25"))
	v, err = service.Value(KeyServerRateLimit)
	require.NoError(t, err)
	assert.Equal(t, "25", v)

	v, err = service.Value(KeyWatch)
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	_, err = service.Value("search.mode")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(nil).Keys()

	assert.Len(t, keys, 12)
	assert.Contains(t, keys, KeyRegistryDomain)
	assert.IsIncreasing(t, keys)
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)
	require.NoError(t, service.Validate())

	_ = store.Set(KeyConcurrency, 0)
	assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_NilStore(t *testing.T) {
	service := NewSettingsService(nil)

	_, err := service.Get()
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, service.Set(KeyWatch, "true"), domain.ErrNotImplemented)
}
