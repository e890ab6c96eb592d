package reconcile

// Result is the outcome of a registration/handshake operation (spec.md
// §7). It is a closed, string-typed enum rather than an error because
// callers are expected to branch on every value, the same way
// pkg/p2pnet's PathType is a closed string enum rather than an error.
type Result string

const (
	// Success indicates the operation completed and state was updated.
	Success Result = "SUCCESS"

	// AlreadyRegistered indicates the peer is already in phase
	// Registered; state is unchanged.
	AlreadyRegistered Result = "ALREADY_REGISTERED"

	// NotFound indicates no pre-registration exists for the peer; state
	// is unchanged.
	NotFound Result = "NOT_FOUND"

	// ProtocolViolation indicates a version of 0 or an inbound/outbound
	// role mismatch; state is unchanged. The caller is expected to
	// disconnect the peer.
	ProtocolViolation Result = "PROTOCOL_VIOLATION"
)
