package config

import (
	"flag"
	"os"

	"github.com/fastbite/fastbite/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string   platform endpoint URL (e.g. "https://cloud.example.io/v1")
//	-p string   project id
//	-l string   platform/bundle identifier
//	-k string   admin API key (seeding only)
//	-d string   database id
//	-b string   storage bucket id
//
// The function filters os.Args to only the flags it recognizes, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e", "-p", "-l", "-k", "-d", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Endpoint, "e", cfg.Endpoint, "platform endpoint URL")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "project id")
	fs.StringVar(&cfg.Platform, "l", cfg.Platform, "platform/bundle identifier")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "admin API key (seeding only)")
	fs.StringVar(&cfg.DatabaseID, "d", cfg.DatabaseID, "database id")
	fs.StringVar(&cfg.BucketID, "b", cfg.BucketID, "storage bucket id")

	_ = fs.Parse(args)
}
