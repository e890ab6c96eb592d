package reconcile

// SuggestReconciling produces the handshake offer values for a freshly
// seen peer (spec.md §4.1): weInitiate = !isInbound, weRespond =
// isInbound. A fresh salt is generated and the peer is stored under
// PhasePreRegistered, overwriting any prior pre-registration for the
// same id (spec.md allows either overwrite or protocol-violation here;
// we choose overwrite, matching PreRegisterPeer's lightweight-reset
// semantics, since neither path has observable side effects on a
// Registered peer — EnableReconciliationSupport still requires phase
// PreRegistered and rejects a peer that slipped to Registered). A peer
// that is already Registered is left unchanged and its stored salt is
// returned.
func (t *Tracker) SuggestReconciling(peerID PeerID, isInbound bool) (weInitiate, weRespond bool, version uint32, localSalt uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	weInitiate = !isInbound
	weRespond = isInbound
	if ps, ok := t.peers[peerID]; ok && ps.phase == PhaseRegistered {
		return weInitiate, weRespond, t.protocolVersion, ps.salt
	}

	salt := t.rand.Uint64()
	t.peers[peerID] = &peerState{
		phase: PhasePreRegistered,
		salt:  salt,
	}
	t.metrics.observePreRegistered()
	return weInitiate, weRespond, t.protocolVersion, salt
}

// PreRegisterPeer is the lightweight pre-registration used by tests and
// by peers that skip the suggest/enable split (spec.md §4.1). It enters
// PhasePreRegistered with a zero salt and no offer values; direction and
// role are decided later, by EnableReconciliationSupport. A peer that is
// already Registered is left unchanged.
func (t *Tracker) PreRegisterPeer(peerID PeerID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ps, ok := t.peers[peerID]; ok && ps.phase == PhaseRegistered {
		return
	}
	t.peers[peerID] = &peerState{phase: PhasePreRegistered}
	t.metrics.observePreRegistered()
}

// EnableReconciliationSupport validates and completes a handshake
// (spec.md §4.1). It requires the peer to currently be PhasePreRegistered.
// reconRequestor and reconResponder are the roles the peer announced: an
// inbound peer must be the requestor, an outbound peer the responder.
func (t *Tracker) EnableReconciliationSupport(peerID PeerID, isInbound, reconRequestor, reconResponder bool, version uint32, remoteSalt uint64) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps, ok := t.peers[peerID]
	if !ok {
		return NotFound
	}
	if ps.phase == PhaseRegistered {
		return AlreadyRegistered
	}
	if ps.phase != PhasePreRegistered {
		return NotFound
	}

	if isInbound && !reconRequestor {
		return ProtocolViolation
	}
	if !isInbound && !reconResponder {
		return ProtocolViolation
	}
	if version == 0 {
		return ProtocolViolation
	}

	negotiated := version
	if t.protocolVersion < negotiated {
		negotiated = t.protocolVersion
	}

	ps.phase = PhaseRegistered
	ps.isInbound = isInbound
	ps.weInitiate = !isInbound
	ps.theyRespond = !isInbound
	ps.version = negotiated
	ps.announcementSet = make(map[TxID]struct{})
	ps.q = t.defaultQ

	// Combine salts into the per-peer short-ID hasher seed, initiator
	// first so both ends derive identical keys regardless of who calls
	// EnableReconciliationSupport first (spec.md §4.1).
	var initiatorSalt, responderSalt uint64
	if ps.weInitiate {
		initiatorSalt, responderSalt = ps.salt, remoteSalt
	} else {
		initiatorSalt, responderSalt = remoteSalt, ps.salt
	}
	ps.hasherK0, ps.hasherK1 = combineSalts(initiatorSalt, responderSalt)

	ps.chosenForFanout = isChosenForFanout(t.nodeSecret, peerID)

	if ps.weInitiate {
		t.queue = append(t.queue, peerID)
		t.metrics.observeQueueSize(len(t.queue))
	}

	t.metrics.observeRegistered(ps.isInbound)
	return Success
}

// combineSalts derives the two 64-bit short-ID hasher keys from an
// initiator/responder salt pair (spec.md §4.1). Both ends compute this
// identically because the ordering is fixed (initiator, then responder),
// independent of which side happens to call EnableReconciliationSupport
// first.
func combineSalts(initiatorSalt, responderSalt uint64) (k0, k1 uint64) {
	return initiatorSalt, responderSalt
}

// ForgetPeer removes a peer entirely, including queue membership. It is
// idempotent (spec.md §4.1, §4.4).
func (t *Tracker) ForgetPeer(peerID PeerID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.peers[peerID]; !ok {
		return
	}
	delete(t.peers, peerID)

	for i, id := range t.queue {
		if id == peerID {
			t.queue = append(t.queue[:i], t.queue[i+1:]...)
			t.metrics.observeQueueSize(len(t.queue))
			break
		}
	}
	t.metrics.observeForgotten()
}

// IsPeerRegistered reports whether peerID is in PhaseRegistered
// (spec.md §4.1).
func (t *Tracker) IsPeerRegistered(peerID PeerID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	ps, ok := t.peers[peerID]
	return ok && ps.phase == PhaseRegistered
}

// PeerShortIDHasher returns the per-peer combined-salt hasher produced
// at registration (spec.md §4.1), for use by the sketch-encoding
// collaborator when it builds short transaction IDs for this peer. It
// is unrelated to the hasher ShouldFanoutTo uses for ranking, which is
// shared across all peers rather than peer-specific.
func (t *Tracker) PeerShortIDHasher(peerID PeerID) (hasher ShortIDHasher, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ps, exists := t.peers[peerID]
	if !exists || ps.phase != PhaseRegistered {
		return SipHasher{}, false
	}
	return NewSipHasher(ps.hasherK0, ps.hasherK1), true
}
