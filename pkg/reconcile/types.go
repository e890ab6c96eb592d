package reconcile

import "time"

// PeerID identifies a peer to the tracker. The transport layer owns the
// mapping from its own connection handles to this id (see
// internal/p2pbridge for a libp2p-backed derivation).
type PeerID int64

// TxID is a witness transaction identifier.
type TxID [32]byte

// Moment is a wall-clock instant expressed as a duration since an
// arbitrary epoch. The tracker never reads the clock itself; every
// scheduling call takes a Moment from the caller (spec.md §6).
type Moment time.Duration

// Phase is a peer's position in the registration lifecycle.
// Forgotten peers are not a Phase value — they are absence from the
// peer map entirely (spec.md §3).
type Phase string

const (
	PhasePreRegistered Phase = "pre-registered"
	PhaseRegistered     Phase = "registered"
)

// peerState is one per known (pre-registered or registered) peer.
type peerState struct {
	phase Phase

	salt        uint64
	isInbound   bool
	weInitiate  bool
	theyRespond bool
	version     uint32

	announcementSet map[TxID]struct{}
	chosenForFanout bool

	// hasherK0, hasherK1 are the combined-salt short-ID hasher keys
	// (spec.md §4.1), exposed to collaborators via
	// Tracker.PeerShortIDHasher. The tracker's own fanout ranking does
	// not use these — see Tracker.nodeSecret.
	hasherK0, hasherK1 uint64

	hasLastRequestTime bool
	lastRequestTime    Moment
	pendingRequest     bool

	q float64
}

// ShortIDHasher is an opaque keyed-hash collaborator (spec.md §6): two
// 64-bit keys used to rank peers in ShouldFanoutTo. Implementations must
// be deterministic and must not reseed between calls (spec.md §9).
type ShortIDHasher interface {
	Keys() (k0, k1 uint64)
}

// RandSource supplies 64-bit randomness for salt generation. Must be
// cryptographically secure (spec.md §6); see NewCryptoRandSource for the
// default.
type RandSource interface {
	Uint64() uint64
}
