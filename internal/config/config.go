// Package config loads service settings from a .env file, the environment
// and command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the service settings.
type Config struct {
	DBPath     string
	Addr       string
	AdminEmail string
	LogPath    string
	PDFFont    string
}

// Environment variables.
const (
	EnvDB         = "BACKOFFICE_DB"
	EnvAddr       = "BACKOFFICE_ADDR"
	EnvAdminEmail = "BACKOFFICE_ADMIN_EMAIL"
	EnvLog        = "BACKOFFICE_LOG"
	EnvPDFFont    = "BACKOFFICE_PDF_FONT"
)

// Load reads .env if present, then the environment, then args.
// It returns flag.ErrHelp when help was requested.
func Load(args []string, usage io.Writer) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:     getEnv(EnvDB, "backoffice.sqlite3"),
		Addr:       getEnv(EnvAddr, ":8080"),
		AdminEmail: getEnv(EnvAdminEmail, "manager@backoffice.local"),
		LogPath:    os.Getenv(EnvLog),
		PDFFont:    os.Getenv(EnvPDFFont),
	}

	fs := flag.NewFlagSet("backoffice", flag.ContinueOnError)
	fs.SetOutput(usage)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fs.StringVar(&cfg.AdminEmail, "admin", cfg.AdminEmail, "")
	fs.StringVar(&cfg.AdminEmail, "u", cfg.AdminEmail, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.StringVar(&cfg.PDFFont, "font", cfg.PDFFont, "")

	fs.Usage = func() { Usage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return cfg, nil
}

// Usage prints the command-line help.
func Usage(w io.Writer) {
	fmt.Fprint(w, `Usage: backoffice [flags]

Flags:
  -d, -db <path>          SQLite database path (default: backoffice.sqlite3, env BACKOFFICE_DB)
  -a, -addr <host:port>   listen address (default: :8080, env BACKOFFICE_ADDR)
  -u, -admin <email>      manager login created on first run (default: manager@backoffice.local)
  -l, -log <path>         log file path (default: stdout/stderr only, env BACKOFFICE_LOG)
      -font <path>        TrueType font for PDF exports (env BACKOFFICE_PDF_FONT)
  -h, -help               show this help and exit

Settings are also read from a .env file in the working directory.
`)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
