// FILE: lixenwraith/typedconf/example/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/typedconf"
)

// AppConfig is filled from the typed tables by Scan.
type AppConfig struct {
	Host        string        `ini:"host"`
	Port        int64         `ini:"port"`
	LogLevel    string        `ini:"log_level"`
	IdleTimeout time.Duration `ini:"idle_timeout"`
	Metrics     bool          `ini:"enable_metrics"`
	Ratio       float64       `ini:"sample_ratio"`
}

const initialConfig = `
; demo configuration
[server]
host = localhost
port = 8080
log_level = info
idle_timeout = 30s

[features]
enable_metrics = true
sample_ratio = 0.25
`

func main() {
	dir, err := os.MkdirTemp("", "typedconf-example")
	if err != nil {
		log.Fatalf("Failed to create work directory: %v", err)
	}
	defer os.RemoveAll(dir)
	configFilePath := filepath.Join(dir, "app.conf")

	// =========================================================================
	// PART 1: INITIAL SETUP
	// =========================================================================
	log.Println("---")
	log.Println("PART 1: Writing initial configuration file...")
	if err := os.WriteFile(configFilePath, []byte(initialConfig), 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", configFilePath, err)
	}

	// =========================================================================
	// PART 2: BUILDER WITH VALIDATION
	// =========================================================================
	log.Println("---")
	log.Println("PART 2: Loading with the Builder...")

	portValidator := func(tc *typedconf.TypedConfig) error {
		port, err := tc.Int64("port")
		if err != nil {
			return err
		}
		if port < 1024 || port > 65535 {
			return fmt.Errorf("port %d is outside the allowed range [1024-65535]", port)
		}
		return nil
	}

	tc, err := typedconf.NewBuilder().
		WithArgs(nil).
		WithFile(configFilePath).
		WithValidator(typedconf.Require("host", "port")).
		WithValidator(typedconf.RequireKind("enable_metrics", typedconf.KindBoolean)).
		WithValidator(portValidator).
		Build()
	if err != nil {
		log.Fatalf("Builder failed: %v", err)
	}

	fmt.Print(tc.Debug())

	var app AppConfig
	if err := tc.Scan(&app); err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	log.Printf("Scanned: host=%s port=%d idle=%s metrics=%t ratio=%.2f",
		app.Host, app.Port, app.IdleTimeout, app.Metrics, app.Ratio)

	// =========================================================================
	// PART 3: WATCHING FOR CHANGES
	// =========================================================================
	log.Println("---")
	log.Println("PART 3: Watching the file for changes...")

	opts := typedconf.DefaultWatchOptions()
	opts.Debounce = 100 * time.Millisecond
	w, err := typedconf.NewWatcher(configFilePath, opts)
	if err != nil {
		log.Fatalf("Failed to create watcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes := w.Subscribe()
	go func() {
		if err := w.Run(ctx); err != nil {
			log.Printf("Watcher stopped: %v", err)
		}
	}()

	// Let the watcher register before editing
	time.Sleep(200 * time.Millisecond)

	updated := []byte("[server]\nhost = localhost\nport = 9090\nlog_level\n")
	if err := os.WriteFile(configFilePath, updated, 0644); err != nil {
		log.Fatalf("Failed to update config: %v", err)
	}

	select {
	case change := <-changes:
		if change.Err != nil {
			log.Fatalf("Reload failed: %v", change.Err)
		}
		log.Printf("Changed keys: %v", change.Keys)
		port, _ := change.Config.Int64("port")
		log.Printf("New port: %d, log_level has a value: %t", port, !change.Config.IsEmpty("log_level"))
	case <-ctx.Done():
		log.Println("No change observed before timeout")
	}

	// =========================================================================
	// PART 4: EXPORT
	// =========================================================================
	log.Println("---")
	log.Println("PART 4: Saving the typed tables as JSON...")

	out := filepath.Join(dir, "typed.json")
	if err := w.Current().Save(out, ""); err != nil {
		log.Fatalf("Save failed: %v", err)
	}
	data, _ := os.ReadFile(out)
	fmt.Println(string(data))
}
