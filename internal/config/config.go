// Package config loads runtime settings for the expedientes CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c or -config.
//  3. Command-line flags (see parseFlags).
//
// Arguments left after the flags are the command to run; they end up in
// Config.Args.
package config

import "time"

type Config struct {
	DatabaseDriver string
	DatabaseDSN    string

	LogLevel  string
	LogFormat string

	// ResolvePersonByDNI makes the importer reuse an existing persona with
	// the same real DNI instead of inserting a new one.
	ResolvePersonByDNI bool

	// User logs in before a one-shot command; empty runs as the system user.
	User string

	AdminUser     string
	AdminPassword string

	PublishEnabled bool
	PublishDir     string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Timeout      time.Duration

	MetricsTextfile string

	Args []string
}

// LoadDefaults populates c with settings for a local SQLite store.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "expedientes.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ResolvePersonByDNI = false
	c.AdminUser = "admin"
	c.AdminPassword = "admin123"
	c.PublishEnabled = false
	c.S3Bucket = "expedientes"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Timeout = 30 * time.Second
}

// LoadConfig builds a Config from defaults, the optional config file and
// the command line.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
