package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/storage/memory"
)

func TestConfigStore_NoOverrides(t *testing.T) {
	base := memory.NewConfigStore()
	_ = base.Set("storage.bucket", "from-file")
	_ = base.Set("compression.quality", 70)

	store, err := NewConfigStoreFrom(base, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "from-file", store.GetString("storage.bucket"))
	assert.Equal(t, 70, store.GetInt("compression.quality"))
	assert.Empty(t, store.Overridden())
}

func TestConfigStore_EnvWinsOnRead(t *testing.T) {
	base := memory.NewConfigStore()
	_ = base.Set("storage.bucket", "from-file")
	_ = base.Set("compression.max_width", 612.0)

	store, err := NewConfigStoreFrom(base, map[string]string{
		"BUCKETDROP_BUCKET":       "from-env",
		"BUCKETDROP_QUALITY":      "55",
		"BUCKETDROP_MAX_WIDTH":    "1024",
		"BUCKETDROP_MAX_HEIGHT":   "768.5",
		"BUCKETDROP_ENDPOINT":     "http://localhost:4443",
		"BUCKETDROP_STAGING_DIR":  "/tmp/staging",
		"BUCKETDROP_ACCESS_TOKEN": "ya29.token",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-env", store.GetString("storage.bucket"))
	assert.Equal(t, 55, store.GetInt("compression.quality"))
	assert.InDelta(t, 55.0, store.GetFloat("compression.quality"), 0.0001)
	assert.InDelta(t, 1024.0, store.GetFloat("compression.max_width"), 0.0001)
	assert.InDelta(t, 768.5, store.GetFloat("compression.max_height"), 0.0001)
	assert.Equal(t, "http://localhost:4443", store.GetString("storage.endpoint"))
	assert.Equal(t, "/tmp/staging", store.GetString("staging.dir"))
	assert.Equal(t, "ya29.token", store.GetString("storage.access_token"))

	val, ok := store.Get("storage.bucket")
	assert.True(t, ok)
	assert.Equal(t, "from-env", val)

	envVar, ok := store.EnvVar("storage.bucket")
	assert.True(t, ok)
	assert.Equal(t, "BUCKETDROP_BUCKET", envVar)

	_, ok = store.EnvVar("storage.credentials_file")
	assert.False(t, ok)
}

func TestConfigStore_EmptyValueIsUnset(t *testing.T) {
	base := memory.NewConfigStore()
	_ = base.Set("storage.access_token", "stored")

	store, err := NewConfigStoreFrom(base, map[string]string{"BUCKETDROP_ACCESS_TOKEN": ""})
	require.NoError(t, err)

	assert.Equal(t, "stored", store.GetString("storage.access_token"))
	_, ok := store.EnvVar("storage.access_token")
	assert.False(t, ok)
}

func TestConfigStore_WritesGoToBase(t *testing.T) {
	base := memory.NewConfigStore()
	store, err := NewConfigStoreFrom(base, map[string]string{"BUCKETDROP_BUCKET": "from-env"})
	require.NoError(t, err)

	require.NoError(t, store.Set("storage.bucket", "written"))
	require.NoError(t, store.Set("compression.format", "png"))

	assert.Equal(t, "written", base.GetString("storage.bucket"))
	assert.Equal(t, "from-env", store.GetString("storage.bucket"))
	assert.Equal(t, "png", store.GetString("compression.format"))

	require.NoError(t, store.Delete("compression.format"))
	assert.Empty(t, base.GetString("compression.format"))

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_InvalidNumber(t *testing.T) {
	_, err := NewConfigStoreFrom(memory.NewConfigStore(), map[string]string{"BUCKETDROP_QUALITY": "high"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestNewConfigStore_ProcessEnvironment(t *testing.T) {
	t.Setenv("BUCKETDROP_BUCKET", "process-env")

	store, err := NewConfigStore(memory.NewConfigStore())
	require.NoError(t, err)

	assert.Equal(t, "process-env", store.GetString("storage.bucket"))
	assert.Equal(t, []string{"storage.bucket"}, store.Overridden())
}

func TestConfigStore_GetBool_FallsBack(t *testing.T) {
	base := memory.NewConfigStore()
	_ = base.Set("flag", true)

	store, err := NewConfigStoreFrom(base, map[string]string{})
	require.NoError(t, err)

	assert.True(t, store.GetBool("flag"))
}
