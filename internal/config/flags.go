package config

import (
	"flag"
	"os"
)

// parseFlags populates cfg from the command line and stores the remaining
// positional arguments in cfg.Args.
//
//	-c, -config string  config file (consumed by parseFile)
//	-d string           database driver: sqlite, postgres or mysql
//	-s string           database DSN
//	-l string           log level
//	-u string           user to log in as before a one-shot command
//	-r                  reuse personas with the same DNI on import
//	-p                  publish exports and import logs
//	-m string           prometheus textfile path
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("expedientes", flag.ContinueOnError)

	var configFile string
	fs.StringVar(&configFile, "config", "", "path to config file")
	fs.StringVar(&configFile, "c", "", "path to config file (short)")

	fs.StringVar(&cfg.DatabaseDriver, "d", cfg.DatabaseDriver, "database driver (sqlite, postgres, mysql)")
	fs.StringVar(&cfg.DatabaseDSN, "s", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.User, "u", cfg.User, "user to log in as")
	fs.BoolVar(&cfg.ResolvePersonByDNI, "r", cfg.ResolvePersonByDNI, "reuse personas with the same DNI on import")
	fs.BoolVar(&cfg.PublishEnabled, "p", cfg.PublishEnabled, "publish exports and import logs")
	fs.StringVar(&cfg.MetricsTextfile, "m", cfg.MetricsTextfile, "prometheus textfile path")

	if err := fs.Parse(os.Args[1:]); err != nil {
		panic(err)
	}

	cfg.Args = fs.Args()
}
