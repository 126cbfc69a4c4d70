package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/modelbase/modelbase/pkg/db"
	"github.com/modelbase/modelbase/pkg/materializer"
	"github.com/modelbase/modelbase/pkg/schema"
	gormstore "github.com/modelbase/modelbase/pkg/server/store/gorm"
)

// modelLoadCmd represents the model load command
var modelLoadCmd = &cobra.Command{
	Use:   "load <file>...",
	Short: "Load model declaration files",
	Long: `Load one or more YAML model declaration files into the model store.

Each file holds a single declaration. Loading validates the declaration
and creates or overwrites the stored one of the same name.

With --publish the declaration's table is also materialized, so the model
serves as soon as a server (re)starts. A server that is already running
mounts new models through its publish endpoint, not through this command.

Example:
  modelbasectl model load article.yml
  modelbasectl model load --publish models/*.yml`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publish, _ := cmd.Flags().GetBool("publish")

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		for _, filename := range args {
			if err := loadModelFile(database, filename, publish); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", filename, err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	modelCmd.AddCommand(modelLoadCmd)
	modelLoadCmd.Flags().Bool("publish", false, "materialize the table after saving")
}

func loadModelFile(database *gorm.DB, filename string, publish bool) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	decl, err := schema.ParseYAML(data)
	if err != nil {
		return err
	}

	models := gormstore.NewModelsStore(database)
	if err := models.SaveModel(decl); err != nil {
		return fmt.Errorf("failed to save declaration: %w", err)
	}
	fmt.Printf("Loaded model '%s'\n", decl.Name)

	if publish {
		if err := materializer.New(database).Materialize(decl); err != nil {
			return fmt.Errorf("failed to materialize table: %w", err)
		}
		table, _ := decl.TableName()
		fmt.Printf("Materialized table '%s' for model '%s'\n", table, decl.Name)
	}

	return nil
}
