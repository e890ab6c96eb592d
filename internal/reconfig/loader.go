package reconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shurlinet/reconcile/pkg/reconcile"
)

// Defaults returns the reconcile package's own constants as a Config,
// the zero-override baseline every Load falls back to.
func Defaults() Config {
	return Config{
		Version:                            CurrentConfigVersion,
		ProtocolVersion:                    reconcile.ProtocolVersion,
		ReconRequestInterval:               reconcile.ReconRequestInterval.String(),
		ReconResponseTimeout:               reconcile.ReconResponseTimeout.String(),
		InboundFanoutDestinationsFraction:  reconcile.InboundFanoutDestinationsFraction,
		OutboundFanoutDestinations:         reconcile.OutboundFanoutDestinations,
		DefaultQ:                          reconcile.DefaultQ,
	}
}

// Load reads and validates a YAML config file at path. If path does not
// exist, Load returns Defaults() rather than an error — callers that
// never ship a config file get the package defaults unchanged.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reconfig: read %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("reconfig: parse %s: %w", path, err)
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Version > CurrentConfigVersion {
		return Config{}, fmt.Errorf("%w: version %d newer than supported version %d", ErrConfigVersionTooNew, cfg.Version, CurrentConfigVersion)
	}

	if _, err := resolve(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// resolve parses and validates cfg's duration strings and numeric
// ranges, returning the fully-typed form used by Options.
func resolve(cfg Config) (resolved, error) {
	reqInterval, err := time.ParseDuration(cfg.ReconRequestInterval)
	if err != nil {
		return resolved{}, fmt.Errorf("reconfig: recon_request_interval: %w", err)
	}
	respTimeout, err := time.ParseDuration(cfg.ReconResponseTimeout)
	if err != nil {
		return resolved{}, fmt.Errorf("reconfig: recon_response_timeout: %w", err)
	}
	if reqInterval <= 0 || respTimeout <= 0 {
		return resolved{}, fmt.Errorf("%w: durations must be positive", ErrInvalidValue)
	}
	if cfg.InboundFanoutDestinationsFraction < 0 || cfg.InboundFanoutDestinationsFraction > 1 {
		return resolved{}, fmt.Errorf("%w: inbound_fanout_destinations_fraction must be in [0, 1]", ErrInvalidValue)
	}
	if cfg.OutboundFanoutDestinations < 0 {
		return resolved{}, fmt.Errorf("%w: outbound_fanout_destinations must be >= 0", ErrInvalidValue)
	}
	if cfg.DefaultQ < 0 || cfg.DefaultQ > 1 {
		return resolved{}, fmt.Errorf("%w: default_q must be in [0, 1]", ErrInvalidValue)
	}

	return resolved{
		protocolVersion:                    cfg.ProtocolVersion,
		reconRequestInterval:               reqInterval,
		reconResponseTimeout:               respTimeout,
		inboundFanoutDestinationsFraction:  cfg.InboundFanoutDestinationsFraction,
		outboundFanoutDestinations:         cfg.OutboundFanoutDestinations,
		defaultQ:                           cfg.DefaultQ,
	}, nil
}

// Options converts cfg into reconcile.Option values suitable for
// reconcile.NewTracker. It panics if cfg was not produced by Load or
// Defaults (use those, not a hand-built Config) — resolve must succeed.
func (cfg Config) Options() []reconcile.Option {
	r, err := resolve(cfg)
	if err != nil {
		panic("reconfig: Options called on an unresolved Config: " + err.Error())
	}
	return []reconcile.Option{
		reconcile.WithProtocolVersion(r.protocolVersion),
		reconcile.WithReconRequestInterval(r.reconRequestInterval),
		reconcile.WithReconResponseTimeout(r.reconResponseTimeout),
		reconcile.WithInboundFanoutDestinationsFraction(r.inboundFanoutDestinationsFraction),
		reconcile.WithOutboundFanoutDestinations(r.outboundFanoutDestinations),
		reconcile.WithDefaultQ(r.defaultQ),
	}
}
