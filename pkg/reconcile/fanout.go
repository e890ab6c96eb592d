package reconcile

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/dchest/siphash"
)

// SipHasher is the ShortIDHasher implementation used by Tracker. Keys
// are generated once per Tracker (see NewTracker) and never reseeded,
// per spec.md §9's determinism requirement.
type SipHasher struct {
	k0, k1 uint64
}

// NewSipHasher builds a SipHasher from a pair of 64-bit keys.
func NewSipHasher(k0, k1 uint64) SipHasher { return SipHasher{k0: k0, k1: k1} }

// Keys implements ShortIDHasher.
func (h SipHasher) Keys() (uint64, uint64) { return h.k0, h.k1 }

// rankOf computes the transaction-specific, peer-specific ranking value
// used by ShouldFanoutTo: siphash keyed by (k0, k1) over wtxid||peer_id.
func rankOf(k0, k1 uint64, wtxid TxID, peerID PeerID) uint64 {
	var buf [40]byte
	copy(buf[:32], wtxid[:])
	binary.LittleEndian.PutUint64(buf[32:], uint64(peerID))
	return siphash.Hash(k0, k1, buf[:])
}

// isChosenForFanout decides, at registration time, whether a registered
// peer permanently also receives fanout for a small fraction of
// transactions (spec.md §4.3(a)). The decision is derived from the
// peer's id and the tracker's own per-process secret so an adversary
// cannot target which peers get chosen.
func isChosenForFanout(nodeSecret SipHasher, peerID PeerID) bool {
	k0, k1 := nodeSecret.Keys()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(peerID))
	h := siphash.Hash(k0, k1, buf[:])
	// h is uniform over uint64; select the bottom chosenForFanoutFraction
	// of the space.
	threshold := uint64(chosenForFanoutFraction * float64(^uint64(0)))
	return h < threshold
}

// ShouldFanoutTo implements spec.md §4.3(b). If peerID is not a
// registered reconciling peer, it returns true (fall back to full
// flooding). Otherwise it ranks all currently-registered peers of the
// same direction (inbound/outbound as peerID) under hasher keyed by
// wtxid, and peerID is selected iff its rank is among the top K after
// accounting for peers already flooding by other means.
func (t *Tracker) ShouldFanoutTo(wtxid TxID, hasher ShortIDHasher, peerID PeerID, inboundsNonRcncl, outboundsNonRcncl int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shouldFanoutToLocked(wtxid, hasher, peerID, inboundsNonRcncl, outboundsNonRcncl)
}

// shouldFanoutToLocked is ShouldFanoutTo's body; callers must already
// hold t.mu.
func (t *Tracker) shouldFanoutToLocked(wtxid TxID, hasher ShortIDHasher, peerID PeerID, inboundsNonRcncl, outboundsNonRcncl int) bool {
	ps, ok := t.peers[peerID]
	if !ok || ps.phase != PhaseRegistered {
		return true
	}

	group := make([]PeerID, 0, len(t.peers))
	for id, p := range t.peers {
		if p.phase == PhaseRegistered && p.isInbound == ps.isInbound {
			group = append(group, id)
		}
	}

	var k int
	if ps.isInbound {
		k = ceilFraction(len(group), t.inboundFanoutDestinationsFraction) - inboundsNonRcncl
	} else {
		k = t.outboundFanoutDestinations - outboundsNonRcncl
	}
	if k <= 0 {
		return false
	}
	if k > len(group) {
		k = len(group)
	}

	k0, k1 := hasher.Keys()
	ranks := make(map[PeerID]uint64, len(group))
	for _, id := range group {
		ranks[id] = rankOf(k0, k1, wtxid, id)
	}
	sort.Slice(group, func(i, j int) bool { return ranks[group[i]] < ranks[group[j]] })

	for _, id := range group[:k] {
		if id == peerID {
			return true
		}
	}
	return false
}

// ceilFraction returns ceil(n * fraction) for non-negative n, rounding
// away floating-point noise at the fraction's own scale so e.g.
// fraction=0.1 reproduces exact ceil(n/10) behavior.
func ceilFraction(n int, fraction float64) int {
	return int(math.Ceil(float64(n)*fraction - 1e-9))
}

// IsPeerChosenForFlooding returns the stored chosen-for-fanout bit for a
// registered peer, and false with ok=false for an unknown peer (spec.md
// §4.5).
func (t *Tracker) IsPeerChosenForFlooding(peerID PeerID) (chosen bool, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ps, exists := t.peers[peerID]
	if !exists || ps.phase != PhaseRegistered {
		return false, false
	}
	return ps.chosenForFanout, true
}
