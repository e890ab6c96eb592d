package reconcile

import "sort"

// PeerSnapshot is a read-only point-in-time view of one known peer
// (SPEC_FULL.md §4.7, supplemented — not in spec.md). It never mutates
// Tracker state.
type PeerSnapshot struct {
	PeerID          PeerID
	Phase           Phase
	IsInbound       bool
	WeInitiate      bool
	Version         uint32
	AnnouncementLen int
	ChosenForFanout bool
	PendingRequest  bool
	Q               float64
}

// Snapshot returns a point-in-time view of every known peer, ordered by
// PeerID, for status reporting. Grounded on pkg/p2pnet/peermanager.go's GetManagedPeers and
// internal/reputation/history.go's locked-snapshot style.
func (t *Tracker) Snapshot() []PeerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]PeerSnapshot, 0, len(t.peers))
	for id, ps := range t.peers {
		out = append(out, PeerSnapshot{
			PeerID:          id,
			Phase:           ps.phase,
			IsInbound:       ps.isInbound,
			WeInitiate:      ps.weInitiate,
			Version:         ps.version,
			AnnouncementLen: len(ps.announcementSet),
			ChosenForFanout: ps.chosenForFanout,
			PendingRequest:  ps.pendingRequest,
			Q:               ps.q,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeerID < out[j].PeerID })
	return out
}
