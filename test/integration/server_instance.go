package integration

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/modelbase/modelbase/pkg/config"
	"github.com/modelbase/modelbase/pkg/server"
	"github.com/modelbase/modelbase/pkg/server/endpoints"
	"github.com/modelbase/modelbase/pkg/token"
)

// portCounter is used to allocate unique ports for each test server
var portCounter int32 = 19000

// ServerConfig holds configuration for a test Modelbase server instance
type ServerConfig struct {
	AdminRole   string
	DocsEnabled bool
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		AdminRole:   "admin",
		DocsEnabled: true,
	}
}

// ServerInstance represents a running Modelbase server. The suite starts one
// shared instance; scenarios that exercise restart behavior start their own,
// which re-mounts every stored declaration on boot the way a real restart
// does.
type ServerInstance struct {
	Server        *server.Server
	ServerURL     string
	Port          int
	Config        ServerConfig
	cancel        context.CancelFunc
	listener      net.Listener
	serverProcess *exec.Cmd // For binary mode
	inlineMode    bool
}

// StartServer creates and starts a new Modelbase server instance against the
// test database. This supports both inline and binary modes based on how the
// test suite was started.
func StartServer(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	if tc.InlineMode {
		return startInlineServerInstance(tc, cfg)
	}
	return startBinaryServerInstance(tc, cfg)
}

// startInlineServerInstance starts an in-process server
func startInlineServerInstance(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	// Allocate a unique port
	port := int(atomic.AddInt32(&portCounter, 1))

	// Create DB connection for this server instance
	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  tc.DatabaseURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	signer, err := token.NewSigner(tc.TokenKey, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	conf := &config.ModelbaseConfig{
		Port:        port,
		TokenTTL:    480,
		AdminRole:   cfg.AdminRole,
		DocsEnabled: cfg.DocsEnabled,
	}

	s := server.NewServer(db, conf, signer, "127.0.0.1", fmt.Sprintf("%d", port))
	endpoints.RegisterAll(s)

	// Mount every stored declaration, same as server startup
	decls, err := s.ModelsStore.ListModels()
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	for _, decl := range decls {
		s.Registry.Register(decl.Name)
	}

	// Create a listener to get the actual port
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on port %d: %w", port, err)
	}

	_, cancel := context.WithCancel(context.Background())

	instance := &ServerInstance{
		Server:     s,
		ServerURL:  fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:       port,
		Config:     cfg,
		cancel:     cancel,
		listener:   listener,
		inlineMode: true,
	}

	// Start server in background using the listener
	go func() {
		_ = s.StartWithListener(listener)
	}()

	// Wait for server to be ready
	if err := waitForServer(instance.ServerURL, 10*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// startBinaryServerInstance starts a server using the modelbasectl binary
func startBinaryServerInstance(tc *TestContext, cfg ServerConfig) (*ServerInstance, error) {
	// Allocate a unique port
	port := int(atomic.AddInt32(&portCounter, 1))
	portStr := fmt.Sprintf("%d", port)

	ctx, cancel := context.WithCancel(context.Background())

	// Use --no-migrate since the test setup already ran migrations
	cmd := exec.CommandContext(ctx, tc.BinaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", portStr)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"MODELBASE_TOKEN_KEY="+base64.StdEncoding.EncodeToString(tc.TokenKey),
		"MODELBASE_ADMIN_ROLE="+cfg.AdminRole,
		fmt.Sprintf("MODELBASE_DOCS_ENABLED=%t", cfg.DocsEnabled),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:          port,
		Config:        cfg,
		cancel:        cancel,
		serverProcess: cmd,
		inlineMode:    false,
	}

	// Wait for server to be ready
	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.cancel != nil {
		si.cancel()
	}
	if si.listener != nil {
		_ = si.listener.Close()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}
