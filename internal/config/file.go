package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/DioBrando0203/expedientes/internal/flagx"
	"github.com/DioBrando0203/expedientes/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Pointer fields
// distinguish "absent" from a zero value so the file only overrides what
// it names.
type FileConfig struct {
	DatabaseDriver     *string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN        *string         `json:"database_dsn" yaml:"database_dsn"`
	LogLevel           *string         `json:"log_level" yaml:"log_level"`
	LogFormat          *string         `json:"log_format" yaml:"log_format"`
	ResolvePersonByDNI *bool           `json:"resolve_person_by_dni" yaml:"resolve_person_by_dni"`
	User               *string         `json:"user" yaml:"user"`
	AdminUser          *string         `json:"admin_user" yaml:"admin_user"`
	AdminPassword      *string         `json:"admin_password" yaml:"admin_password"`
	PublishEnabled     *bool           `json:"publish_enabled" yaml:"publish_enabled"`
	PublishDir         *string         `json:"publish_dir" yaml:"publish_dir"`
	S3Bucket           *string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region           *string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint     *string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey        *string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey        *string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Timeout          *timex.Duration `json:"s3_timeout" yaml:"s3_timeout"`
	MetricsTextfile    *string         `json:"metrics_textfile" yaml:"metrics_textfile"`
}

// parseFile overlays cfg with the file named by -c/-config. YAML is used
// for .yaml and .yml files, JSON otherwise. Read or decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.DatabaseDriver, fc.DatabaseDriver)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setBool(&cfg.ResolvePersonByDNI, fc.ResolvePersonByDNI)
	setString(&cfg.User, fc.User)
	setString(&cfg.AdminUser, fc.AdminUser)
	setString(&cfg.AdminPassword, fc.AdminPassword)
	setBool(&cfg.PublishEnabled, fc.PublishEnabled)
	setString(&cfg.PublishDir, fc.PublishDir)
	setString(&cfg.S3Bucket, fc.S3Bucket)
	setString(&cfg.S3Region, fc.S3Region)
	setString(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, fc.S3AccessKey)
	setString(&cfg.S3SecretKey, fc.S3SecretKey)
	if fc.S3Timeout != nil {
		cfg.S3Timeout = fc.S3Timeout.Duration
	}
	setString(&cfg.MetricsTextfile, fc.MetricsTextfile)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
