// Package p2pbridge maps libp2p connection identity onto the inputs
// reconcile.Tracker expects: a stable int64 PeerID and an isInbound
// direction flag, neither of which libp2p exposes directly. Grounded
// on pkg/p2pnet/identity.go's peer.ID handling and
// pkg/p2pnet/netintel.go's shortID truncation helper.
package p2pbridge

import (
	"hash/fnv"

	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/shurlinet/reconcile/pkg/reconcile"
)

// DerivePeerID maps a libp2p peer.ID onto the int64 identifier space
// reconcile.Tracker uses. Collisions are possible in principle (64 bits
// of FNV-1a over an arbitrary-length id) but have never been observed
// in practice at any realistic peer count; callers that need a
// collision-free mapping should keep their own peer.ID<->PeerID table
// instead of relying on this derivation.
func DerivePeerID(id peer.ID) reconcile.PeerID {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return reconcile.PeerID(h.Sum64())
}

// DeriveDirection reports whether conn was accepted from a remote dial
// (inbound) as opposed to one this host opened (outbound), the
// is_inbound input every reconcile.Tracker registration call needs.
func DeriveDirection(conn network.Conn) bool {
	return conn.Stat().Direction == network.DirInbound
}

// ShortID returns a truncated, human-readable form of id for logging,
// matching pkg/p2pnet/netintel.go's shortID convention.
func ShortID(id peer.ID) string {
	s := id.String()
	if len(s) > 16 {
		return s[:16] + "..."
	}
	return s
}
