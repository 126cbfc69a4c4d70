package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/modelbase/modelbase/pkg/db"
)

// modelWatchCmd represents the model watch command
var modelWatchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Watch a directory and load declarations as they change",
	Long: `Watch a directory of YAML declaration files and load each file when it
is created or modified.

Loaded declarations are saved and their tables materialized, so this
keeps the model store in sync with a directory managed by an operator or
a deployment pipeline. A running server mounts the models at its next
restart or through its publish endpoint.

Example:
  modelbasectl model watch /etc/modelbase/models`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := args[0]

		if err := watchModels(dir); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch models: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	modelCmd.AddCommand(modelWatchCmd)
}

func watchModels(dir string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	fmt.Printf("Watching %s for model declarations\n", dir)

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write != fsnotify.Write && event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			ext := filepath.Ext(event.Name)
			if ext != ".yml" && ext != ".yaml" {
				continue
			}

			fmt.Printf("[%s] Loading %s...\n", time.Now().Format(time.RFC3339), event.Name)
			if err := loadModelFile(database, event.Name, true); err != nil {
				fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", event.Name, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
