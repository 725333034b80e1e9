// Package config implements the ambient configuration surface shared by the
// four CLI binaries: .env loading, a startup banner, and a SIGINT/SIGTERM
// watcher, in the style the rest of the pipeline tooling uses. Flag parsing
// lives in each binary.
package config

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file from the working directory if present. A
// missing file is not an error: CLI flags and process environment remain
// the authoritative configuration source either way.
func LoadEnv() {
	LoadEnvFrom(".env")
}

// LoadEnvFrom loads the .env file at path, honoring a binary's -env flag. A
// missing file is not an error.
func LoadEnvFrom(path string) {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "config: could not load %s: %v\n", path, err)
	}
}

// PrintBanner emits the startup summary every binary prints before doing
// any work, so a log scraped from stdout always records what a run was
// configured to do. Suppressed by -quiet.
func PrintBanner(title string, quiet bool, lines ...string) {
	if quiet {
		return
	}
	fmt.Printf("🧩 %s\n", title)
	for _, l := range lines {
		fmt.Printf("   %s\n", l)
	}
}

// WatchShutdown returns a context cancelled on SIGINT/SIGTERM, for a
// batch driver loop that wants to stop between sentences and flush a
// checkpoint before the process exits. Call stop once the loop finishes
// normally to release the signal handler.
func WatchShutdown() (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			fmt.Fprintf(os.Stderr, "\n⚠️  received signal %v, flushing checkpoint before exit\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
