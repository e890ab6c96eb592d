// Package reconfig loads the tuning overrides for a reconcile.Tracker
// from YAML, grounded on internal/config's loader pattern: a typed
// struct decoded with gopkg.in/yaml.v3, durations expressed as strings,
// and load-or-default behavior rather than hard failure when no file is
// present.
package reconfig

import "time"

// CurrentConfigVersion is the latest configuration schema version.
const CurrentConfigVersion = 1

// Config holds the wire-relevant tunables reconcile.constants.go fixes
// as package constants. A zero Config is not valid; use Defaults() or
// Load, both of which fill every field.
type Config struct {
	Version int `yaml:"version,omitempty"`

	ProtocolVersion uint32 `yaml:"protocol_version"`

	ReconRequestInterval string `yaml:"recon_request_interval"`
	ReconResponseTimeout string `yaml:"recon_response_timeout"`

	InboundFanoutDestinationsFraction float64 `yaml:"inbound_fanout_destinations_fraction"`
	OutboundFanoutDestinations        int     `yaml:"outbound_fanout_destinations"`

	DefaultQ float64 `yaml:"default_q"`
}

// resolved is Config with its duration fields parsed.
type resolved struct {
	protocolVersion uint32

	reconRequestInterval time.Duration
	reconResponseTimeout time.Duration

	inboundFanoutDestinationsFraction float64
	outboundFanoutDestinations        int

	defaultQ float64
}
