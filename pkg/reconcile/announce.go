package reconcile

// StoreTxsToAnnounce inserts each of txs into peerID's announcement set,
// except those the fanout selector says should instead be flooded to
// this peer (spec.md §4.2). Fanout-selected transactions are left for
// the caller to transmit immediately; the tracker never transmits.
// Duplicate insertions are no-ops. For an unregistered peer nothing is
// stored and every tx is returned as fanout.
func (t *Tracker) StoreTxsToAnnounce(peerID PeerID, txs []TxID, inboundsNonRcncl, outboundsNonRcncl int) (fanoutTxs []TxID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps, ok := t.peers[peerID]
	if !ok || ps.phase != PhaseRegistered {
		return txs
	}

	for _, wtxid := range txs {
		if t.shouldFanoutToLocked(wtxid, t.hasher, peerID, inboundsNonRcncl, outboundsNonRcncl) {
			fanoutTxs = append(fanoutTxs, wtxid)
			continue
		}
		ps.announcementSet[wtxid] = struct{}{}
	}
	t.metrics.observeAnnouncementSetSize(peerID, len(ps.announcementSet))
	return fanoutTxs
}

// GetPeerSetSize returns the size of peerID's announcement set, or
// ok=false if the peer is not registered (spec.md §4.2).
func (t *Tracker) GetPeerSetSize(peerID PeerID) (size int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ps, exists := t.peers[peerID]
	if !exists || ps.phase != PhaseRegistered {
		return 0, false
	}
	return len(ps.announcementSet), true
}
