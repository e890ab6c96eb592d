package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/event"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"

	"github.com/shurlinet/reconcile/internal/p2pbridge"
	"github.com/shurlinet/reconcile/pkg/reconcile"
)

// peerBridge registers and forgets libp2p peers against a
// reconcile.Tracker as they connect and disconnect, translating
// peer.ID/network.Direction via internal/p2pbridge. Grounded on
// pkg/p2pnet/peermanager.go's eventLoop.
type peerBridge struct {
	tracker *reconcile.Tracker
	log     *slog.Logger

	mu    sync.Mutex
	known map[reconcile.PeerID]struct{}
}

func newPeerBridge(tracker *reconcile.Tracker, log *slog.Logger) *peerBridge {
	return &peerBridge{tracker: tracker, log: log, known: make(map[reconcile.PeerID]struct{})}
}

// run subscribes to connect/disconnect events on h until ctx is
// canceled. Real traffic is optional for the demo: with no bootstrap
// peers configured, this simply never fires and the synthetic feeder
// in simulate drives the tracker instead.
func (b *peerBridge) run(ctx context.Context, h host.Host) error {
	sub, err := h.EventBus().Subscribe(new(event.EvtPeerConnectednessChanged))
	if err != nil {
		return err
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-sub.Out():
			if !ok {
				return nil
			}
			e := evt.(event.EvtPeerConnectednessChanged)
			switch e.Connectedness {
			case network.Connected:
				b.onConnect(h, e.Peer)
			case network.NotConnected:
				b.onDisconnect(e.Peer)
			}
		}
	}
}

func (b *peerBridge) onConnect(h host.Host, id peer.ID) {
	pid := p2pbridge.DerivePeerID(id)

	conns := h.Network().ConnsToPeer(id)
	isInbound := len(conns) > 0 && p2pbridge.DeriveDirection(conns[0])

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.known[pid]; ok {
		return
	}
	b.known[pid] = struct{}{}

	b.tracker.PreRegisterPeer(pid)
	result := b.tracker.EnableReconciliationSupport(pid, isInbound, isInbound, !isInbound, reconcile.ProtocolVersion, 0)
	b.log.Info("bridged libp2p peer into tracker",
		"peer", p2pbridge.ShortID(id), "inbound", isInbound, "result", result)
}

func (b *peerBridge) onDisconnect(id peer.ID) {
	pid := p2pbridge.DerivePeerID(id)
	b.mu.Lock()
	delete(b.known, pid)
	b.mu.Unlock()
	b.tracker.ForgetPeer(pid)
}

// newLibp2pHost creates a minimal listening host with libp2p's default
// transport stack, enough to accept inbound dials from other reconsim
// instances on a LAN for a live demo.
func newLibp2pHost() (host.Host, error) {
	return libp2p.New(
		libp2p.ListenAddrStrings("/ip4/0.0.0.0/tcp/0"),
	)
}

// dialBootstrapPeer connects h to a single peer given as a
// "/ip4/.../tcp/.../p2p/<id>" multiaddr, the same bootstrap-peer
// convention cmd/peerup's ping/proxy commands accept.
func dialBootstrapPeer(ctx context.Context, h host.Host, addr string) error {
	maddr, err := ma.NewMultiaddr(addr)
	if err != nil {
		return fmt.Errorf("invalid bootstrap addr %q: %w", addr, err)
	}
	pi, err := peer.AddrInfoFromP2pAddr(maddr)
	if err != nil {
		return fmt.Errorf("resolve bootstrap addr %q: %w", addr, err)
	}
	return h.Connect(ctx, *pi)
}
