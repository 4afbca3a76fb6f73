package config

import (
	"flag"
	"os"
	"time"

	"github.com/avencello/inkfeed/internal/flagx"
)

// jsonConfigPath is a test seam around flagx.JsonConfigFlags.
var jsonConfigPath = flagx.JsonConfigFlags

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the blog API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-p int      posts per page (default from Config)
//
// Note: the function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the blog API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "posts per page")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
