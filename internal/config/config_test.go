package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "facade_data", c.StorageDir)
	assert.Equal(t, BackendLocal, c.Backend)
	assert.False(t, c.MirrorToS3)
	assert.Equal(t, 10*time.Second, c.CloudTimeout)
	assert.Equal(t, "User", c.Author)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "facade_data", cfg.StorageDir)
	assert.Equal(t, BackendLocal, cfg.Backend)
}

func TestParseJson_PartialFileOverridesOnlyGivenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"storage_dir": "/srv/facade",
		"backend": "s3",
		"s3_bucket": "site-photos",
		"cloud_timeout": "30s"
	}`), 0o660))

	oldArgs := os.Args
	os.Args = []string{"cli", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "/srv/facade", cfg.StorageDir)
	assert.Equal(t, BackendS3, cfg.Backend)
	assert.Equal(t, "site-photos", cfg.S3Bucket)
	assert.Equal(t, 30*time.Second, cfg.CloudTimeout)
	// Untouched fields keep their defaults.
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, "User", cfg.Author)
}
