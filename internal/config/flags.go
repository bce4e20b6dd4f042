package config

import (
	"flag"
	"os"

	"github.com/avoronin/facadekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   storage directory (default from Config)
//	-b string   backend, "local" or "s3" (default from Config)
//	-m          mirror local writes to S3
//	-u string   author name recorded on chat messages
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-b", "-m", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StorageDir, "d", cfg.StorageDir, "storage directory")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "storage backend (local or s3)")
	fs.BoolVar(&cfg.MirrorToS3, "m", cfg.MirrorToS3, "mirror local writes to s3")
	fs.StringVar(&cfg.Author, "u", cfg.Author, "author name for chat messages")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
