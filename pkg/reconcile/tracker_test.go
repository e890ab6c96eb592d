package reconcile

import "testing"

func TestNewTrackerDefaultsToCryptoRand(t *testing.T) {
	tr := NewTracker()
	if _, ok := tr.rand.(cryptoRandSource); !ok {
		t.Fatal("expected the default crypto/rand-backed RandSource")
	}
	if tr.metrics == nil {
		t.Fatal("expected a default Metrics instance")
	}
	if tr.protocolVersion != ProtocolVersion {
		t.Fatalf("protocolVersion = %d, want %d", tr.protocolVersion, ProtocolVersion)
	}
}

func TestWithMetricsNilDisablesInstrumentationSafely(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}), WithMetrics(nil))
	tr.PreRegisterPeer(0)
	if got := tr.EnableReconciliationSupport(0, false, true, true, 1, 0); got != Success {
		t.Fatalf("EnableReconciliationSupport = %v, want Success", got)
	}
	tr.StoreTxsToAnnounce(0, []TxID{newTestWtxid(1)}, 0, 1)
	tr.InitiateReconciliationRequest(0)
	tr.RecordReconciliationResult(0, 0, 1)
	tr.ForgetPeer(0) // must not panic anywhere above
}

func TestMetricsRegistryNilWhenDisabled(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}), WithMetrics(nil))
	if tr.MetricsRegistry() != nil {
		t.Fatal("expected a nil registry when metrics are disabled")
	}
}

func TestMetricsRegistryNonNilByDefault(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	if tr.MetricsRegistry() == nil {
		t.Fatal("expected a non-nil registry by default")
	}
}

func TestWithProtocolVersionOverride(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}), WithProtocolVersion(7))
	if tr.protocolVersion != 7 {
		t.Fatalf("protocolVersion = %d, want 7", tr.protocolVersion)
	}
}

func TestSnapshotReflectsRegisteredState(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)
	tr.StoreTxsToAnnounce(0, []TxID{newTestWtxid(1), newTestWtxid(2)}, 0, 1)

	snaps := tr.Snapshot()
	if len(snaps) != 1 {
		t.Fatalf("want 1 snapshot entry, got %d", len(snaps))
	}
	s := snaps[0]
	if s.PeerID != 0 || s.Phase != PhaseRegistered || s.IsInbound || !s.WeInitiate {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	if s.AnnouncementLen != 2 {
		t.Fatalf("AnnouncementLen = %d, want 2", s.AnnouncementLen)
	}
	if s.Q != DefaultQ {
		t.Fatalf("Q = %f, want %f", s.Q, DefaultQ)
	}
}

func TestSnapshotEmptyTracker(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	if got := tr.Snapshot(); len(got) != 0 {
		t.Fatalf("want empty snapshot, got %+v", got)
	}
}

func TestSnapshotExcludesForgottenPeers(t *testing.T) {
	tr := NewTracker(WithRandSource(&seqRandSource{}))
	mustRegister(t, tr, 0, false)
	tr.ForgetPeer(0)
	if got := tr.Snapshot(); len(got) != 0 {
		t.Fatalf("want empty snapshot after forgetting the only peer, got %+v", got)
	}
}
