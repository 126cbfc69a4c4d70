package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/modelbase"
	ConfigFileName    = "modelbase.yml"
)

// ModelbaseConfig holds all Modelbase configuration settings
type ModelbaseConfig struct {
	// Port is the HTTP listen port for the API server
	Port int `yaml:"port" json:"port"`

	// TokenTTL is the lifetime of issued access tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// AdminRole is the role allowed to administer model declarations
	AdminRole string `yaml:"admin_role" json:"admin_role"`

	// TrustedProxies is a list of CIDR ranges for trusted proxies.
	// X-Forwarded-For is only honored for requests arriving from one.
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// DocsEnabled serves the /docs model documentation pages
	DocsEnabled bool `yaml:"docs_enabled" json:"docs_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *ModelbaseConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *ModelbaseConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *ModelbaseConfig {
	return &ModelbaseConfig{
		Port:           8080,
		TokenTTL:       480,
		AdminRole:      "admin",
		TrustedProxies: []string{},
		DocsEnabled:    true,
		sources:        make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*ModelbaseConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("MODELBASE_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig ModelbaseConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"port", "token_ttl", "admin_role", "trusted_proxies", "docs_enabled",
	}
}

func (c *ModelbaseConfig) applyFileConfig(file *ModelbaseConfig) {
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.TokenTTL != 0 {
		c.TokenTTL = file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if file.AdminRole != "" {
		c.AdminRole = file.AdminRole
		c.sources["admin_role"] = "file"
	}
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
}

func (c *ModelbaseConfig) applyEnvConfig() {
	if val := os.Getenv("MODELBASE_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("MODELBASE_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.TokenTTL = i
			c.sources["token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("MODELBASE_ADMIN_ROLE"); val != "" {
		c.AdminRole = val
		c.sources["admin_role"] = "environment"
	}
	if val := os.Getenv("MODELBASE_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("MODELBASE_DOCS_ENABLED"); val != "" {
		c.DocsEnabled = val == "true" || val == "1"
		c.sources["docs_enabled"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *ModelbaseConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *ModelbaseConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// AccessTokenTTL returns the token TTL as a duration
func (c *ModelbaseConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *ModelbaseConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *ModelbaseConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.TokenTTL < 1 {
		return fmt.Errorf("invalid token_ttl: %d", c.TokenTTL)
	}
	if c.AdminRole == "" {
		return fmt.Errorf("admin_role must not be empty")
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *ModelbaseConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "admin_role", Value: c.AdminRole, Source: c.Source("admin_role")},
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "docs_enabled", Value: strconv.FormatBool(c.DocsEnabled), Source: c.Source("docs_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *ModelbaseConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *ModelbaseConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
