package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/db"
	"github.com/modelbase/modelbase/pkg/server"
	"github.com/modelbase/modelbase/pkg/server/endpoints"
	"github.com/modelbase/modelbase/pkg/token"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("MODELBASE_PORT"); port != "" {
		return port
	}
	return "8080"
}

func defaultPortInt() int {
	if port := os.Getenv("MODELBASE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8080
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the Modelbase application server",
	Long: `Run the Modelbase application server.

To run the server requires the environment variables MODELBASE_TOKEN_KEY
and DATABASE_URL.

On startup every stored model declaration is re-mounted, so published
models come back alive after a restart without an explicit re-publish.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		tokenKeyB64, ok := os.LookupEnv("MODELBASE_TOKEN_KEY")
		if !ok {
			fmt.Fprintln(os.Stderr, "MODELBASE_TOKEN_KEY environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		key, err := token.ParseKey(tokenKeyB64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Bad MODELBASE_TOKEN_KEY:", err)
			os.Exit(1)
		}

		cfg := config.Get()
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		signer, err := token.NewSigner(key, cfg.AccessTokenTTL())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create token signer:", err)
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		if !cmd.Flags().Changed("port") && os.Getenv("MODELBASE_PORT") == "" {
			// Neither the flag nor the environment chose a port; the
			// config file (or its default) decides.
			port = strconv.Itoa(cfg.Port)
		}

		s := server.NewServer(database, cfg, signer, host, port)
		endpoints.RegisterAll(s)

		// Seed the registry from the model store.
		decls, err := s.ModelsStore.ListModels()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to list models:", err)
			os.Exit(1)
		}
		for _, decl := range decls {
			s.Registry.Register(decl.Name)
		}
		log.Printf("Mounted %d model(s) from the model store\n", len(decls))

		// 'configuration apply' signals SIGHUP to reload the config file.
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		go func() {
			for range hup {
				if err := config.Reload(); err != nil {
					log.Printf("Configuration reload failed: %v\n", err)
					continue
				}
				log.Println("Configuration reloaded")
			}
		}()

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
