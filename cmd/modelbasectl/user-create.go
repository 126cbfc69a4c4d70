package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelbase/modelbase/pkg/db"
	gormstore "github.com/modelbase/modelbase/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <login>",
	Short: "Create a user with a fresh API key",
	Long: `Create a user and print the generated API key.

The API key is printed exactly once; only its digest is stored. The role
determines which operations the access policies of published models
grant to the user.

Example:
  modelbasectl user create admin --role admin
  modelbasectl user create alice --role editor`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		login := args[0]
		role, _ := cmd.Flags().GetString("role")

		apiKey, err := createUser(login, role)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user %s: %v\n", login, err)
			os.Exit(1)
		}

		fmt.Printf("Created user '%s' with role '%s'\n", login, role)
		fmt.Println("API key (shown only once):")
		fmt.Println(apiKey)
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().StringP("role", "r", "viewer", "Role assigned to the user")
}

func createUser(login, role string) (string, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return "", err
	}

	return gormstore.NewUsersStore(database).CreateUser(login, role)
}
