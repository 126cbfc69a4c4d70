package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelbase/modelbase/pkg/db"
	gormstore "github.com/modelbase/modelbase/pkg/server/store/gorm"
)

// userRotateKeyCmd represents the user rotate-key command
var userRotateKeyCmd = &cobra.Command{
	Use:   "rotate-key <login>",
	Short: "Rotate a user's API key",
	Long: `Generate a new API key for a user and print it.

The previous key stops working immediately. Existing access tokens stay
valid until they expire.

Example:
  modelbasectl user rotate-key alice`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		users := gormstore.NewUsersStore(database)
		for _, login := range args {
			apiKey, err := users.RotateAPIKey(login)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to rotate key for %s: %v\n", login, err)
				os.Exit(1)
			}
			fmt.Println(apiKey)
		}
	},
}

func init() {
	userCmd.AddCommand(userRotateKeyCmd)
}
