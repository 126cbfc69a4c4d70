package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelbase/modelbase/pkg/token"
)

// tokenKeyGenerateCmd represents the token-key generate command
var tokenKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an access token signing key",
	Long: `
Generate an access token signing key

Use this command to generate a new Base64-encoded 256 bit signing key. Once generated, this key should be placed into the environment of
the Modelbase server. It is used to sign and verify the access tokens issued on login.

Example:

$ export MODELBASE_TOKEN_KEY="$(modelbasectl token-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := token.GenerateKey()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("%s", key)
	},
}

func init() {
	tokenKeyCmd.AddCommand(tokenKeyGenerateCmd)
}
