package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avoronin/facadekeeper/internal/flagx"
	"github.com/avoronin/facadekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the cloud timeout either as a string
// like "10s" or as integer nanoseconds. After parsing, values are copied
// into the runtime Config.
type JsonConfig struct {
	StorageDir   string         `json:"storage_dir"`
	Backend      string         `json:"backend"`
	MirrorToS3   bool           `json:"mirror_to_s3"`
	S3Region     string         `json:"s3_region"`
	S3Bucket     string         `json:"s3_bucket"`
	S3Endpoint   string         `json:"s3_endpoint"`
	S3AccessKey  string         `json:"s3_access_key"`
	S3SecretKey  string         `json:"s3_secret_key"`
	CloudTimeout timex.Duration `json:"cloud_timeout"`
	Author       string         `json:"author"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags via flagx.JsonConfigFlags; when no
// path is given, nothing is loaded. Only non-zero JSON values override the
// defaults, so a partial config file stays partial.
//
// Panics on read or unmarshal errors: a config file that exists but cannot
// be used is a startup-stopping mistake, not a condition to limp past.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.StorageDir != "" {
		cfg.StorageDir = jc.StorageDir
	}
	if jc.Backend != "" {
		cfg.Backend = jc.Backend
	}
	cfg.MirrorToS3 = jc.MirrorToS3
	if jc.S3Region != "" {
		cfg.S3Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.S3Bucket = jc.S3Bucket
	}
	if jc.S3Endpoint != "" {
		cfg.S3Endpoint = jc.S3Endpoint
	}
	if jc.S3AccessKey != "" {
		cfg.S3AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.S3SecretKey = jc.S3SecretKey
	}
	if jc.CloudTimeout.Duration != 0 {
		cfg.CloudTimeout = time.Duration(jc.CloudTimeout.Duration)
	}
	if jc.Author != "" {
		cfg.Author = jc.Author
	}
}
