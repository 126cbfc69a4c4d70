package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelbase/modelbase/pkg/db"
	gormstore "github.com/modelbase/modelbase/pkg/server/store/gorm"
)

// modelListCmd represents the model list command
var modelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored model declarations",
	Long: `List the model declarations currently held in the model store.

The listing reflects stored declarations, not mounted endpoints; a
declaration only serves requests once it has been published to a running
server.`,
	Run: func(cmd *cobra.Command, args []string) {
		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		decls, err := gormstore.NewModelsStore(database).ListModels()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list models: %v\n", err)
			os.Exit(1)
		}

		if len(decls) == 0 {
			fmt.Println("No models are stored.")
			return
		}

		fmt.Printf("%-24s %-24s %-16s %s\n", "NAME", "TABLE", "OWNER FIELD", "FIELDS")
		fmt.Printf("%-24s %-24s %-16s %s\n", "----", "-----", "-----------", "------")
		for _, decl := range decls {
			table, err := decl.TableName()
			if err != nil {
				table = "(invalid)"
			}
			owner := decl.OwnerField
			if owner == "" {
				owner = "-"
			}
			fmt.Printf("%-24s %-24s %-16s %d\n", decl.Name, table, owner, len(decl.Fields))
		}
	},
}

func init() {
	modelCmd.AddCommand(modelListCmd)
}
