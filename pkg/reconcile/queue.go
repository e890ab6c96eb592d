package reconcile

// IsPeerNextToReconcileWith is the tracker's only scheduling operation
// (spec.md §4.4). It treats each call as a single-visit ticket: at most
// one caller across any concurrent invocations observes true for a
// given rotation, because the rotation itself (clearing pending_request,
// advancing next_recon_time, moving the head to the tail) happens under
// the same lock as the check.
func (t *Tracker) IsPeerNextToReconcileWith(peerID PeerID, now Moment) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps, ok := t.peers[peerID]
	if !ok || ps.phase != PhaseRegistered || !ps.weInitiate {
		return false
	}
	if len(t.queue) == 0 {
		return false
	}

	gap := Moment(t.reconRequestInterval) / Moment(len(t.queue))

	if now < t.nextReconTime {
		return false
	}

	head := t.queue[0]
	if peerID != head {
		return false
	}

	headState := t.peers[head]
	if headState.pendingRequest && now < t.nextReconTime+Moment(t.reconResponseTimeout) {
		return false
	}

	t.queue = append(t.queue[1:], head)
	headState.pendingRequest = false
	headState.hasLastRequestTime = true
	headState.lastRequestTime = now
	t.nextReconTime = now + gap
	t.metrics.observeRotation()
	return true
}
