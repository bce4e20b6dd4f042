package config

import "time"

// Backend selectors for the persistence layer.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config holds runtime settings for the FacadeKeeper CLI.
//
// Fields:
//   - StorageDir: root directory of the local object store.
//   - Backend: "local" or "s3" — which backend is primary.
//   - MirrorToS3: with a local primary, also mirror writes to S3,
//     best-effort.
//   - S3 settings: region, bucket, optional custom endpoint
//     (MinIO/LocalStack) and static credentials.
//   - CloudTimeout: per-call deadline for mirror writes.
//   - Author: name recorded on chat messages.
type Config struct {
	StorageDir   string
	Backend      string
	MirrorToS3   bool
	S3Region     string
	S3Bucket     string
	S3Endpoint   string
	S3AccessKey  string
	S3SecretKey  string
	CloudTimeout time.Duration
	Author       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageDir = "facade_data"
	c.Backend = BackendLocal
	c.MirrorToS3 = false
	c.S3Region = "us-east-1"
	c.S3Bucket = "facadekeeper"
	c.CloudTimeout = 10 * time.Second
	c.Author = "User"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
