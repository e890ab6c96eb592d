package reconcile

import "testing"

// TestQueueRoundRobinTwoPeers is spec.md §8 scenario 5: two outbound
// reconciling peers, queue gap = ReconRequestInterval/2, rotating
// through peer 0 then peer 1 then peer 0 again.
func TestQueueRoundRobinTwoPeers(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)
	mustRegister(t, tr, 1, false)

	gap := Moment(ReconRequestInterval) / 2

	if !tr.IsPeerNextToReconcileWith(0, 0) {
		t.Fatal("t=0: expected peer 0 to be next")
	}
	if tr.IsPeerNextToReconcileWith(1, 0) {
		t.Fatal("t=0: peer 1 must not be selected before the gap elapses")
	}
	if tr.IsPeerNextToReconcileWith(0, gap-1) {
		t.Fatal("just before the gap: no peer should be selected")
	}
	if !tr.IsPeerNextToReconcileWith(1, gap) {
		t.Fatal("at the gap: expected peer 1 to be next")
	}
	if !tr.IsPeerNextToReconcileWith(0, 2*gap) {
		t.Fatal("at 2*gap: expected peer 0 to be next again")
	}
}

// TestQueueWrongPeerNeverSelected: calling with a peer id that is not
// the current queue head never returns true, even if it's otherwise
// eligible.
func TestQueueWrongPeerNeverSelected(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)
	mustRegister(t, tr, 1, false)

	if tr.IsPeerNextToReconcileWith(1, 0) {
		t.Fatal("peer 1 should not be selected while peer 0 is head")
	}
}

// TestQueuePendingRequestGatesRotation is spec.md §8 scenario 6: a
// pending, unresolved request blocks the head from rotating again
// until ReconResponseTimeout has elapsed.
func TestQueuePendingRequestGatesRotation(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)

	if !tr.IsPeerNextToReconcileWith(0, 0) {
		t.Fatal("t=0: expected peer 0 to be next")
	}
	if _, _, ok := tr.InitiateReconciliationRequest(0); !ok {
		t.Fatal("expected InitiateReconciliationRequest to succeed")
	}

	gap := Moment(ReconRequestInterval)

	if tr.IsPeerNextToReconcileWith(0, gap) {
		t.Fatal("pending unresolved request should gate the next rotation")
	}
	if !tr.IsPeerNextToReconcileWith(0, gap+Moment(ReconResponseTimeout)) {
		t.Fatal("after the response timeout elapses, rotation should proceed")
	}
}

// TestQueueResultClearsPendingBeforeTimeout: recording a reconciliation
// result clears the pending flag immediately, letting rotation proceed
// even before the response timeout would have expired it.
func TestQueueResultClearsPendingBeforeTimeout(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)

	tr.IsPeerNextToReconcileWith(0, 0)
	localSize, _, _ := tr.InitiateReconciliationRequest(0)
	tr.RecordReconciliationResult(0, 0, localSize)

	if !tr.IsPeerNextToReconcileWith(0, Moment(ReconRequestInterval)) {
		t.Fatal("expected rotation to proceed once the pending result was recorded")
	}
}

// TestQueueEmptyNeverSelects: a peer with no queue membership (e.g. an
// inbound-only peer, which never initiates) is never selected.
func TestQueueEmptyNeverSelects(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, true) // inbound: they initiate, we don't
	if tr.IsPeerNextToReconcileWith(0, 1000) {
		t.Fatal("an inbound-only peer must never be selected to initiate")
	}
}

// TestQueueForgetRemovesFromRotation: forgetting the head peer removes
// it from the queue so rotation continues with the remaining peers.
func TestQueueForgetRemovesFromRotation(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)
	mustRegister(t, tr, 1, false)

	tr.ForgetPeer(0)

	gap := Moment(ReconRequestInterval) // only one peer left in queue
	if !tr.IsPeerNextToReconcileWith(1, 0) {
		t.Fatal("expected remaining peer to be selected at t=0")
	}
	if !tr.IsPeerNextToReconcileWith(1, gap) {
		t.Fatal("expected remaining peer to rotate back to itself")
	}
}
