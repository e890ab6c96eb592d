package reconcile

// InitiateReconciliationRequest produces the parameters of an outgoing
// reconciliation request (spec.md §4.4): the local announcement-set
// size and the encoded q coefficient. It returns ok=false if peerID is
// not a registered initiator-role peer, or already has a pending
// request. On success it marks the peer as having a pending request.
func (t *Tracker) InitiateReconciliationRequest(peerID PeerID) (localSetSize int, qFormatted int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps, exists := t.peers[peerID]
	if !exists || ps.phase != PhaseRegistered || !ps.weInitiate {
		return 0, 0, false
	}
	if ps.pendingRequest {
		return 0, 0, false
	}

	localSetSize = len(ps.announcementSet)
	// Truncate, not round: matches Bitcoin Core's static_cast<uint16_t>
	// encoding and spec.md §8 scenario 4's worked example
	// (floor(32767 * 0.25) = 8191).
	qFormatted = int(ps.q * QPrecision)
	ps.pendingRequest = true
	t.metrics.observeRequestInitiated()
	return localSetSize, qFormatted, true
}

// RecordReconciliationResult feeds the measured outcome of a completed
// reconciliation back into the peer's q estimate and clears its
// pending-request flag (SPEC_FULL.md §4.6, supplemented: spec.md itself
// freezes q at DEFAULT_Q and never asks for feedback). actualDifference
// is the number of transactions the sketch decode revealed as the true
// symmetric difference; localSetSize is the size that was sent with the
// request this result completes.
//
// Callers that never call this keep spec.md's fixed-DEFAULT_Q behavior
// exactly: q only changes here.
func (t *Tracker) RecordReconciliationResult(peerID PeerID, actualDifference, localSetSize int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps, ok := t.peers[peerID]
	if !ok || ps.phase != PhaseRegistered {
		return
	}

	ps.pendingRequest = false

	denom := localSetSize
	if denom < 1 {
		denom = 1
	}
	observed := float64(actualDifference) / float64(denom)
	q := ps.q + qFeedbackAlpha*(observed-ps.q)
	if q < qMin {
		q = qMin
	}
	if q > qMax {
		q = qMax
	}
	ps.q = q
	t.metrics.observeQUpdated(q)
}
