package reconcile

import "time"

// Wire-relevant constants (spec.md §6). cmd/reconsim and other callers
// that negotiate the protocol outside this package read these directly;
// internal/reconfig overrides them per-Tracker via Options.
const (
	// ProtocolVersion is the local maximum supported reconciliation
	// protocol version.
	ProtocolVersion = 1

	// QPrecision is the fixed-point scale for the encoded q coefficient.
	QPrecision = 32767

	// ReconRequestInterval is the target spacing between successive
	// reconciliations with the same peer, amortized across the queue.
	ReconRequestInterval = 8 * time.Second

	// ReconResponseTimeout bounds how long a pending request gates the
	// queue head before the scheduler gives up waiting on it.
	ReconResponseTimeout = 2 * time.Second

	// InboundFanoutDestinationsFraction is the target share of registered
	// inbound peers that additionally receive fanout for any given
	// transaction (rounded up).
	InboundFanoutDestinationsFraction = 0.1

	// OutboundFanoutDestinations is the target number of registered
	// outbound peers that additionally receive fanout for any given
	// transaction.
	OutboundFanoutDestinations = 1

	// DefaultQ is the initial relative set-difference density estimate
	// used before any reconciliation result has been observed.
	DefaultQ = 0.25
)

// chosenForFanoutFraction controls how many registered peers are
// permanently marked chosen-for-flooding at registration (spec.md §4.3(a):
// "design target: a handful"). spec.md names no canonical constant for
// this; reusing the same order of magnitude as
// InboundFanoutDestinationsFraction keeps the redundancy guarantee
// proportional to peer count without a second tunable.
const chosenForFanoutFraction = 0.1

// Q feedback tuning (SPEC_FULL.md §4.6, supplemented — not in spec.md).
const (
	qFeedbackAlpha = 0.25
	qMin           = 0.01
	qMax           = 1.0
)
