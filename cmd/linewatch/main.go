package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/linewatch/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional, defaults to ~/.config/linewatch/config.toml)")
	prefsPath := flag.String("prefs", "", "override UI preferences path (optional)")
	apiURL := flag.String("api", "", "equipment API base URL (optional, overrides config and LINEWATCH_API_URL)")
	pollSeconds := flag.Int("poll", 0, "background refresh interval in seconds (optional, off by default)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		APIURL:     *apiURL,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	// A signal kills the program; that is a normal exit.
	if err := app.Run(ctx, opts); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "linewatch: %v\n", err)
		return 1
	}
	return 0
}
