package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Hand-Driven Particle Field")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "mudra.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Build the application and restore persisted state
	a := app.New(app.Config{
		Store:    st,
		CameraID: 0,
	})
	if err := a.LoadState(); err != nil {
		log.Printf("Failed to load persisted state: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	cfg := server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	}

	srv := server.New(cfg)

	addr := ":8080"
	fmt.Printf("Starting server on %s\n", addr)
	go func() {
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// System tray owns the main goroutine
	t := tray.New()
	t.SetShape(a.Engine().ActiveShape())
	a.OnShapeChange(t.SetShape)
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnSettings(func() {
		openBrowser("http://localhost:8080")
	})
	t.OnQuit(func() {
		a.Stop()
	})
	t.Run()
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch {
	case fileExists("/usr/bin/open"):
		cmd = exec.Command("open", url)
	case fileExists("/usr/bin/xdg-open"):
		cmd = exec.Command("xdg-open", url)
	default:
		log.Printf("Open %s in your browser", url)
		return
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
