package factory

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/opd-ai/easysock/dns"
	"github.com/opd-ai/easysock/interfaces"
	"github.com/opd-ai/easysock/real"
	"github.com/opd-ai/easysock/testing"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Validation constants for configuration bounds checking.
const (
	// MinResolveTimeout is the minimum allowed resolve timeout in milliseconds.
	MinResolveTimeout = 100
	// MaxResolveTimeout is the maximum allowed resolve timeout in milliseconds (2 minutes).
	MaxResolveTimeout = 120000
)

// Environment variables read by NewProviderFactory.
const (
	EnvUseSimulation  = "EASYSOCK_USE_SIMULATION"
	EnvResolveTimeout = "EASYSOCK_RESOLVE_TIMEOUT"
	EnvDNSServers     = "EASYSOCK_DNS_SERVERS"
	EnvResolvePolicy  = "EASYSOCK_RESOLVE_POLICY"
	EnvConfigFile     = "EASYSOCK_CONFIG"
)

// ProviderFactory creates socket providers and name resolvers based on configuration.
// It is safe for concurrent use; all methods are protected by an internal mutex.
type ProviderFactory struct {
	mu            sync.RWMutex
	defaultConfig *interfaces.ProviderConfig
}

// NewProviderFactory creates a new factory. The configuration starts from
// defaults, then the YAML file named by EASYSOCK_CONFIG, then the other
// EASYSOCK_* variables.
func NewProviderFactory() *ProviderFactory {
	config := createDefaultConfig()
	applyConfigFile(config)
	applyEnvironmentOverrides(config)
	logConfigurationInfo(config)

	return &ProviderFactory{
		defaultConfig: config,
	}
}

// createDefaultConfig initializes the default provider configuration.
//
// Default Value Rationale:
//   - UseSimulation: false - Real sockets by default; simulation must be explicitly enabled
//   - ResolveTimeout: 5000ms - Matches the glibc resolver's default per-attempt timeout
//   - DNSServers: none - The system resolver is used unless upstreams are named
//   - Policy: first - Same choice getaddrinfo callers make
func createDefaultConfig() *interfaces.ProviderConfig {
	return &interfaces.ProviderConfig{
		UseSimulation:  false,
		ResolveTimeout: 5000,
		Policy:         interfaces.PolicyFirst,
	}
}

// LoadConfigFile reads a YAML configuration file. Keys missing from the
// file keep their default values.
func LoadConfigFile(path string) (*interfaces.ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	config := createDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return config, nil
}

// applyConfigFile replaces config with the contents of the EASYSOCK_CONFIG
// file. A missing or invalid file is logged and ignored.
func applyConfigFile(config *interfaces.ProviderConfig) {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		return
	}
	loaded, err := LoadConfigFile(path)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "applyConfigFile",
			"env_var":  EnvConfigFile,
			"path":     path,
			"error":    err.Error(),
		}).Warn("Failed to load configuration file, using defaults")
		return
	}
	*config = *loaded
}

// applyEnvironmentOverrides updates configuration based on environment variables.
func applyEnvironmentOverrides(config *interfaces.ProviderConfig) {
	parseSimulationSetting(config)
	parseTimeoutSetting(config)
	parseDNSServersSetting(config)
	parsePolicySetting(config)
}

// parseSimulationSetting updates UseSimulation from EASYSOCK_USE_SIMULATION.
func parseSimulationSetting(config *interfaces.ProviderConfig) {
	if useSimStr := os.Getenv(EnvUseSimulation); useSimStr != "" {
		useSim, err := strconv.ParseBool(useSimStr)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseSimulationSetting",
				"env_var":     EnvUseSimulation,
				"value":       useSimStr,
				"error":       err.Error(),
				"using_value": config.UseSimulation,
			}).Warn("Failed to parse EASYSOCK_USE_SIMULATION environment variable, using default")
			return
		}
		config.UseSimulation = useSim
	}
}

// parseTimeoutSetting updates ResolveTimeout from EASYSOCK_RESOLVE_TIMEOUT.
// Values outside [MinResolveTimeout, MaxResolveTimeout] are ignored.
func parseTimeoutSetting(config *interfaces.ProviderConfig) {
	if timeoutStr := os.Getenv(EnvResolveTimeout); timeoutStr != "" {
		timeout, err := strconv.Atoi(timeoutStr)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseTimeoutSetting",
				"env_var":     EnvResolveTimeout,
				"value":       timeoutStr,
				"error":       err.Error(),
				"using_value": config.ResolveTimeout,
			}).Warn("Failed to parse EASYSOCK_RESOLVE_TIMEOUT environment variable, using default")
			return
		}
		if timeout < MinResolveTimeout || timeout > MaxResolveTimeout {
			logrus.WithFields(logrus.Fields{
				"function":    "parseTimeoutSetting",
				"env_var":     EnvResolveTimeout,
				"value":       timeout,
				"min":         MinResolveTimeout,
				"max":         MaxResolveTimeout,
				"using_value": config.ResolveTimeout,
			}).Warn("EASYSOCK_RESOLVE_TIMEOUT value out of bounds, using default")
			return
		}
		config.ResolveTimeout = timeout
	}
}

// parseDNSServersSetting reads a comma separated upstream list from
// EASYSOCK_DNS_SERVERS.
func parseDNSServersSetting(config *interfaces.ProviderConfig) {
	serversStr := os.Getenv(EnvDNSServers)
	if serversStr == "" {
		return
	}
	var servers []string
	for _, s := range strings.Split(serversStr, ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	config.DNSServers = servers
}

// parsePolicySetting updates Policy from EASYSOCK_RESOLVE_POLICY.
func parsePolicySetting(config *interfaces.ProviderConfig) {
	policyStr := os.Getenv(EnvResolvePolicy)
	if policyStr == "" {
		return
	}
	policy := interfaces.SelectionPolicy(strings.ToLower(strings.TrimSpace(policyStr)))
	switch policy {
	case interfaces.PolicyFirst, interfaces.PolicyPreferRequested:
		config.Policy = policy
	default:
		logrus.WithFields(logrus.Fields{
			"function":    "parsePolicySetting",
			"env_var":     EnvResolvePolicy,
			"value":       policyStr,
			"using_value": string(config.Policy),
		}).Warn("Unknown EASYSOCK_RESOLVE_POLICY value, using default")
	}
}

// logConfigurationInfo logs the final configuration settings for debugging purposes.
func logConfigurationInfo(config *interfaces.ProviderConfig) {
	logrus.WithFields(logrus.Fields{
		"function":        "NewProviderFactory",
		"use_simulation":  config.UseSimulation,
		"resolve_timeout": config.ResolveTimeout,
		"dns_servers":     config.DNSServers,
		"policy":          string(config.Policy),
	}).Info("Created provider factory with configuration")
}

// CreateProvider creates a socket provider based on configuration
func (f *ProviderFactory) CreateProvider() (interfaces.SocketProvider, error) {
	return f.CreateProviderWithConfig(nil)
}

// CreateProviderWithConfig creates a socket provider with custom configuration
func (f *ProviderFactory) CreateProviderWithConfig(config *interfaces.ProviderConfig) (interfaces.SocketProvider, error) {
	config = f.configOrDefault(config)

	if config.UseSimulation {
		logrus.WithFields(logrus.Fields{
			"function": "CreateProviderWithConfig",
			"type":     "simulation",
		}).Info("Creating simulation socket provider")
		return testing.NewSimulatedProvider(), nil
	}

	logrus.WithFields(logrus.Fields{
		"function": "CreateProviderWithConfig",
		"type":     "real",
	}).Info("Creating real socket provider")
	return real.NewProvider(), nil
}

// CreateResolver creates a name resolver based on configuration
func (f *ProviderFactory) CreateResolver() (interfaces.NameResolver, error) {
	return f.CreateResolverWithConfig(nil)
}

// CreateResolverWithConfig creates a name resolver with custom configuration.
// Simulation mode yields a SimulatedResolver that knows only "localhost".
// Otherwise configured DNS upstreams select the dns package, and no
// upstreams select the system resolver.
func (f *ProviderFactory) CreateResolverWithConfig(config *interfaces.ProviderConfig) (interfaces.NameResolver, error) {
	config = f.configOrDefault(config)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resolver configuration: %w", err)
	}
	timeout := time.Duration(config.ResolveTimeout) * time.Millisecond

	switch {
	case config.UseSimulation:
		r := testing.NewSimulatedResolver()
		r.AddHost("localhost", "127.0.0.1", "::1")
		logrus.WithFields(logrus.Fields{
			"function": "CreateResolverWithConfig",
			"type":     "simulation",
		}).Info("Creating simulation resolver")
		return r, nil
	case len(config.DNSServers) > 0:
		r, err := dns.NewResolver(config.DNSServers, timeout)
		if err != nil {
			return nil, fmt.Errorf("create DNS resolver: %w", err)
		}
		return r, nil
	default:
		logrus.WithFields(logrus.Fields{
			"function": "CreateResolverWithConfig",
			"type":     "system",
			"timeout":  timeout,
		}).Info("Creating system resolver")
		return real.NewSystemResolver(nil, timeout), nil
	}
}

func (f *ProviderFactory) configOrDefault(config *interfaces.ProviderConfig) *interfaces.ProviderConfig {
	if config != nil {
		return config
	}
	return f.GetCurrentConfig()
}

// SwitchToSimulation switches the configuration to use simulation
func (f *ProviderFactory) SwitchToSimulation() {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SwitchToSimulation",
		"previous": f.defaultConfig.UseSimulation,
	}).Info("Switching factory to simulation mode")

	f.defaultConfig.UseSimulation = true
}

// SwitchToReal switches the configuration to use the real implementation
func (f *ProviderFactory) SwitchToReal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SwitchToReal",
		"previous": f.defaultConfig.UseSimulation,
	}).Info("Switching factory to real mode")

	f.defaultConfig.UseSimulation = false
}

// GetCurrentConfig returns a copy of the current default configuration
func (f *ProviderFactory) GetCurrentConfig() *interfaces.ProviderConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return copyConfig(f.defaultConfig)
}

// IsUsingSimulation returns true if the factory is configured for simulation
func (f *ProviderFactory) IsUsingSimulation() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.defaultConfig.UseSimulation
}

// UpdateConfig validates and replaces the factory's default configuration
func (f *ProviderFactory) UpdateConfig(config *interfaces.ProviderConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":       "UpdateConfig",
		"old_simulation": f.defaultConfig.UseSimulation,
		"new_simulation": config.UseSimulation,
		"old_timeout":    f.defaultConfig.ResolveTimeout,
		"new_timeout":    config.ResolveTimeout,
	}).Info("Updating factory configuration")

	f.defaultConfig = copyConfig(config)
	return nil
}

func copyConfig(c *interfaces.ProviderConfig) *interfaces.ProviderConfig {
	return &interfaces.ProviderConfig{
		UseSimulation:  c.UseSimulation,
		ResolveTimeout: c.ResolveTimeout,
		DNSServers:     append([]string(nil), c.DNSServers...),
		Policy:         c.Policy,
	}
}
