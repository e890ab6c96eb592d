package reconcile

import "testing"

// TestInitiateReconciliationRequest is spec.md §8 scenario 4: the
// default q encodes to floor(0.25*32767).
func TestInitiateReconciliationRequest(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)

	tr.StoreTxsToAnnounce(0, []TxID{newTestWtxid(1), newTestWtxid(2)}, 0, 1)

	size, q, ok := tr.InitiateReconciliationRequest(0)
	if !ok {
		t.Fatal("expected InitiateReconciliationRequest to succeed")
	}
	if size != 2 {
		t.Fatalf("localSetSize = %d, want 2", size)
	}
	wantQ := 8191 // floor(0.25 * 32767)
	if q != wantQ {
		t.Fatalf("qFormatted = %d, want %d", q, wantQ)
	}
}

func TestInitiateReconciliationRequestRejectsNonInitiator(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, true) // inbound: they initiate, not us
	if _, _, ok := tr.InitiateReconciliationRequest(0); ok {
		t.Fatal("expected ok=false for a peer we don't initiate with")
	}
}

func TestInitiateReconciliationRequestRejectsSecondPendingRequest(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)

	if _, _, ok := tr.InitiateReconciliationRequest(0); !ok {
		t.Fatal("first request should succeed")
	}
	if _, _, ok := tr.InitiateReconciliationRequest(0); ok {
		t.Fatal("second request while one is pending should fail")
	}
}

func TestInitiateReconciliationRequestUnknownPeer(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	if _, _, ok := tr.InitiateReconciliationRequest(123); ok {
		t.Fatal("expected ok=false for unknown peer")
	}
}

// TestRecordReconciliationResultConvergesTowardObserved: repeated
// observations with a stable density pull q toward that density.
func TestRecordReconciliationResultConvergesTowardObserved(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)

	for i := 0; i < 50; i++ {
		tr.InitiateReconciliationRequest(0)
		tr.RecordReconciliationResult(0, 50, 100) // observed density 0.5
	}

	snaps := tr.Snapshot()
	if len(snaps) != 1 {
		t.Fatalf("want 1 snapshot, got %d", len(snaps))
	}
	got := snaps[0].Q
	if got < 0.45 || got > 0.55 {
		t.Fatalf("q = %f, want to have converged near 0.5", got)
	}
}

func TestRecordReconciliationResultClampsToBounds(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)

	for i := 0; i < 50; i++ {
		tr.InitiateReconciliationRequest(0)
		tr.RecordReconciliationResult(0, 1000, 1) // observed density far above 1
	}
	if got := tr.Snapshot()[0].Q; got > qMax {
		t.Fatalf("q = %f, want <= %f", got, qMax)
	}

	tr2 := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr2, 0, false)
	for i := 0; i < 50; i++ {
		tr2.InitiateReconciliationRequest(0)
		tr2.RecordReconciliationResult(0, 0, 100) // observed density 0
	}
	if got := tr2.Snapshot()[0].Q; got < qMin {
		t.Fatalf("q = %f, want >= %f", got, qMin)
	}
}

func TestRecordReconciliationResultClearsPending(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)

	tr.InitiateReconciliationRequest(0)
	tr.RecordReconciliationResult(0, 5, 10)

	if _, _, ok := tr.InitiateReconciliationRequest(0); !ok {
		t.Fatal("expected a new request to be initiable after the result was recorded")
	}
}

func TestRecordReconciliationResultUnknownPeerIsNoOp(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	tr.RecordReconciliationResult(999, 1, 1) // must not panic
}
