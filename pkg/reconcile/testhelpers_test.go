package reconcile

// seqRandSource returns a deterministic, incrementing sequence instead
// of real randomness, so tests can assert on exact salt values.
type seqRandSource struct{ next uint64 }

func (s *seqRandSource) Uint64() uint64 {
	s.next++
	return s.next
}

func newTestWtxid(b byte) TxID {
	var id TxID
	for i := range id {
		id[i] = b
	}
	return id
}

// mustRegister pre-registers and registers peerID with a minimal valid
// role pairing for the given direction, failing the test on any
// unexpected Result.
func mustRegister(t testingT, tr *Tracker, peerID PeerID, isInbound bool) {
	t.Helper()
	tr.PreRegisterPeer(peerID)
	got := tr.EnableReconciliationSupport(peerID, isInbound, isInbound, !isInbound, 1, 0)
	if got != Success {
		t.Fatalf("mustRegister(%d, inbound=%v) = %v, want Success", peerID, isInbound, got)
	}
}

// testingT is the subset of *testing.T (and *rapid.T's embedding) used
// by mustRegister.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}
