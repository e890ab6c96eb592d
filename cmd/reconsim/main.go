// Command reconsim runs an in-process demonstration of pkg/reconcile:
// a handful of synthetic peers registering, announcing transactions,
// and rotating through the reconciliation queue, with a Prometheus
// /metrics endpoint exposing the tracker's instrumentation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/shurlinet/reconcile/internal/reconfig"
	"github.com/shurlinet/reconcile/pkg/reconcile"
)

func main() {
	var (
		configPath  = flag.String("config", "", "optional reconfig YAML overrides")
		metricsAddr = flag.String("metrics-addr", "127.0.0.1:9300", "address to serve /metrics on")
		numInbound  = flag.Int("inbound-peers", 20, "synthetic inbound peers to register")
		numOutbound = flag.Int("outbound-peers", 4, "synthetic outbound peers to register")
		runFor      = flag.Duration("run-for", 30*time.Second, "how long to run the simulation")
		bootstrap   = flag.String("bootstrap", "", "optional /ip4/.../tcp/.../p2p/<id> peer to dial on startup")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *metricsAddr, *bootstrap, *numInbound, *numOutbound, *runFor); err != nil {
		slog.Error("reconsim exited with an error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, metricsAddr, bootstrap string, numInbound, numOutbound int, runFor time.Duration) error {
	cfg := reconfig.Defaults()
	if configPath != "" {
		var err error
		cfg, err = reconfig.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	tracker := reconcile.NewTracker(cfg.Options()...)
	runID := uuid.New().String()
	log := slog.With("run_id", runID)

	h, err := newLibp2pHost()
	if err != nil {
		return fmt.Errorf("create libp2p host: %w", err)
	}
	defer h.Close()
	log.Info("listening", "peer_id", h.ID(), "addrs", h.Addrs())

	if bootstrap != "" {
		if err := dialBootstrapPeer(ctx, h, bootstrap); err != nil {
			log.Warn("bootstrap dial failed", "error", err)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(tracker.MetricsRegistry(), promhttp.HandlerOpts{}))
	server := &http.Server{Addr: metricsAddr, Handler: mux}

	g.Go(func() error {
		log.Info("serving metrics", "addr", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	bridge := newPeerBridge(tracker, log)
	g.Go(func() error {
		return bridge.run(gctx, h)
	})

	g.Go(func() error {
		return simulate(gctx, log, tracker, numInbound, numOutbound, runFor)
	})

	return g.Wait()
}

// simulate registers synthetic peers, feeds them synthetic transaction
// announcements, and drives the reconciliation scheduler on a ticker
// until runFor elapses or ctx is canceled.
func simulate(ctx context.Context, log *slog.Logger, tracker *reconcile.Tracker, numInbound, numOutbound int, runFor time.Duration) error {
	start := time.Now()
	now := func() reconcile.Moment { return reconcile.Moment(time.Since(start)) }

	var nextID reconcile.PeerID
	for i := 0; i < numInbound; i++ {
		registerSyntheticPeer(tracker, nextID, true)
		nextID++
	}
	for i := 0; i < numOutbound; i++ {
		registerSyntheticPeer(tracker, nextID, false)
		nextID++
	}
	log.Info("registered synthetic peers", "inbound", numInbound, "outbound", numOutbound)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	deadline := time.After(runFor)
	txCounter := byte(0)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline:
			log.Info("simulation complete")
			return nil
		case <-ticker.C:
			txCounter++
			wtxid := syntheticWtxid(txCounter)

			for id := reconcile.PeerID(0); id < nextID; id++ {
				fanout := tracker.StoreTxsToAnnounce(id, []reconcile.TxID{wtxid}, 0, 0)
				if len(fanout) > 0 {
					log.Debug("flooding transaction immediately", "peer", id, "tx", txCounter)
				}
				if tracker.IsPeerNextToReconcileWith(id, now()) {
					size, q, ok := tracker.InitiateReconciliationRequest(id)
					if ok {
						log.Info("initiated reconciliation", "peer", id, "local_set_size", size, "q", q)
						tracker.RecordReconciliationResult(id, size/4, size)
					}
				}
			}
		}
	}
}

func registerSyntheticPeer(tracker *reconcile.Tracker, id reconcile.PeerID, isInbound bool) {
	tracker.PreRegisterPeer(id)
	tracker.EnableReconciliationSupport(id, isInbound, isInbound, !isInbound, reconcile.ProtocolVersion, 0)
}

func syntheticWtxid(b byte) reconcile.TxID {
	var id reconcile.TxID
	for i := range id {
		id[i] = b
	}
	return id
}
