package config

import (
	"encoding/json"
	"os"
	"time"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// strings in time.ParseDuration syntax ("10s", "1m30s"). After parsing,
// non-zero values are copied into the runtime Config.
type JsonConfig struct {
	APIBaseURL     string `json:"api_base_url"`
	RequestTimeout string `json:"request_timeout"`
	PageSize       int    `json:"page_size"`
	Token          string `json:"token"`

	S3Endpoint      string `json:"s3_endpoint"`
	S3Region        string `json:"s3_region"`
	S3Bucket        string `json:"s3_bucket"`
	S3AccessKey     string `json:"s3_access_key"`
	S3SecretKey     string `json:"s3_secret_key"`
	S3PublicBaseURL string `json:"s3_public_base_url"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags (flagx.JsonConfigFlags);
// when neither is given, no JSON is loaded. Read or unmarshal errors panic —
// a broken explicit config file should not be silently ignored.
func parseJson(cfg *Config) {
	jsonConfigFile := jsonConfigPath()
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

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout != "" {
		if d, err := time.ParseDuration(jc.RequestTimeout); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if jc.PageSize > 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.Token != "" {
		cfg.Token = jc.Token
	}
	if jc.S3Endpoint != "" {
		cfg.Upload.Endpoint = jc.S3Endpoint
	}
	if jc.S3Region != "" {
		cfg.Upload.Region = jc.S3Region
	}
	if jc.S3Bucket != "" {
		cfg.Upload.Bucket = jc.S3Bucket
	}
	if jc.S3AccessKey != "" {
		cfg.Upload.AccessKey = jc.S3AccessKey
	}
	if jc.S3SecretKey != "" {
		cfg.Upload.SecretKey = jc.S3SecretKey
	}
	if jc.S3PublicBaseURL != "" {
		cfg.Upload.PublicBaseURL = jc.S3PublicBaseURL
	}
}
