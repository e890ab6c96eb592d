// Package reconcile implements the peer-side bookkeeping for BIP-330-style
// transaction reconciliation: peer lifecycle, per-peer announcement sets,
// a deterministic fanout selector, and a round-robin reconciliation
// scheduler. It does not construct or decode sketches, speak any wire
// protocol, or touch a mempool — those are external collaborators.
package reconcile
