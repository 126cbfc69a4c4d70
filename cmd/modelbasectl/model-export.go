package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modelbase/modelbase/pkg/db"
	gormstore "github.com/modelbase/modelbase/pkg/server/store/gorm"
)

// modelExportCmd represents the model export command
var modelExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored model declarations to YAML files",
	Long: `Export every stored model declaration as a YAML file, one per model.

The exported files round-trip through 'model load', so an export
directory doubles as a backup of the model store.

Example:
  modelbasectl model export
  modelbasectl model export --out-dir ./models`,
	Run: func(cmd *cobra.Command, args []string) {
		outDir, _ := cmd.Flags().GetString("out-dir")

		if err := runModelExport(outDir); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	modelCmd.AddCommand(modelExportCmd)
	modelExportCmd.Flags().StringP("out-dir", "o", ".", "Output directory")
}

func runModelExport(outDir string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	decls, err := gormstore.NewModelsStore(database).ListModels()
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	if err := os.MkdirAll(outDir, 0770); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, decl := range decls {
		data, err := decl.ToYAML()
		if err != nil {
			return fmt.Errorf("failed to serialize %s: %w", decl.Name, err)
		}
		filename := filepath.Join(outDir, decl.PathSegment()+".yml")
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
		fmt.Printf("Exported model '%s' to %s\n", decl.Name, filename)
	}

	fmt.Printf("Exported %d model(s) to %s\n", len(decls), outDir)
	return nil
}
