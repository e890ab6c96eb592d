package reconcile

import (
	"sync"
	"time"
)

// Tracker is the thread-safe facade exposed to the relay loop (spec.md
// §2, §5). A single mutex guards all state; operations are short (no
// I/O, no hashing of large objects under the lock beyond set membership
// tests and the per-call siphash rankings), so coarse locking is
// acceptable — the same tradeoff pkg/p2pnet's PeerManager, PathTracker,
// and ServiceRegistry all make with their own single RWMutex per type.
type Tracker struct {
	mu sync.Mutex

	peers map[PeerID]*peerState
	queue []PeerID

	nextReconTime   Moment
	protocolVersion uint32

	// Per-instance overrides of the package defaults of the same name,
	// settable via Option (internal/reconfig wires these to YAML).
	reconRequestInterval              time.Duration
	reconResponseTimeout              time.Duration
	inboundFanoutDestinationsFraction float64
	outboundFanoutDestinations        int
	defaultQ                          float64

	rand RandSource

	// nodeSecret seeds the per-transaction fanout ranking (spec.md
	// §4.3(b)) and the permanent chosen-for-fanout bit (§4.3(a)). It is
	// generated once at construction and never reseeded (spec.md §9).
	nodeSecret SipHasher
	hasher     ShortIDHasher

	metrics *Metrics
}

// Option configures a Tracker at construction.
type Option func(*Tracker)

// WithRandSource overrides the default crypto/rand-backed RandSource,
// primarily for deterministic tests.
func WithRandSource(r RandSource) Option {
	return func(t *Tracker) { t.rand = r }
}

// WithProtocolVersion overrides the local maximum supported
// reconciliation protocol version (default ProtocolVersion).
func WithProtocolVersion(version uint32) Option {
	return func(t *Tracker) { t.protocolVersion = version }
}

// WithMetrics overrides the Tracker's Metrics instance. Passing nil
// disables instrumentation entirely (all observe calls become no-ops).
func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

// WithReconRequestInterval overrides ReconRequestInterval for this
// Tracker (internal/reconfig).
func WithReconRequestInterval(d time.Duration) Option {
	return func(t *Tracker) { t.reconRequestInterval = d }
}

// WithReconResponseTimeout overrides ReconResponseTimeout for this
// Tracker (internal/reconfig).
func WithReconResponseTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.reconResponseTimeout = d }
}

// WithInboundFanoutDestinationsFraction overrides
// InboundFanoutDestinationsFraction for this Tracker (internal/reconfig).
func WithInboundFanoutDestinationsFraction(f float64) Option {
	return func(t *Tracker) { t.inboundFanoutDestinationsFraction = f }
}

// WithOutboundFanoutDestinations overrides OutboundFanoutDestinations
// for this Tracker (internal/reconfig).
func WithOutboundFanoutDestinations(n int) Option {
	return func(t *Tracker) { t.outboundFanoutDestinations = n }
}

// WithDefaultQ overrides DefaultQ for this Tracker (internal/reconfig).
func WithDefaultQ(q float64) Option {
	return func(t *Tracker) { t.defaultQ = q }
}

// NewTracker constructs a Tracker with the given options applied over
// the defaults: crypto/rand salts, ProtocolVersion, the spec.md §6
// constants, and a fresh isolated Metrics registry.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		peers:                              make(map[PeerID]*peerState),
		protocolVersion:                    ProtocolVersion,
		reconRequestInterval:               ReconRequestInterval,
		reconResponseTimeout:               ReconResponseTimeout,
		inboundFanoutDestinationsFraction:  InboundFanoutDestinationsFraction,
		outboundFanoutDestinations:         OutboundFanoutDestinations,
		defaultQ:                           DefaultQ,
		rand:                               NewCryptoRandSource(),
		metrics:                            NewMetrics(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.nodeSecret = NewSipHasher(t.rand.Uint64(), t.rand.Uint64())
	t.hasher = t.nodeSecret
	return t
}
