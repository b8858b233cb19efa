// Command swimd runs a single SWIM membership protocol node over a
// ZeroMQ ROUTER/DEALER transport, with an optional LAN beacon for
// introducer discovery and a small debug HTTP surface (health check,
// membership dump, Prometheus metrics). The membership protocol itself
// has no process lifecycle of its own (spec §5) — this binary supplies
// the one outer tick loop the engine needs, in the style of
// zeromq-gyre's cmd/monitor.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	swim "github.com/hunterlxt/swim-membership-protocol"
	"github.com/hunterlxt/swim-membership-protocol/discovery"
	"github.com/hunterlxt/swim-membership-protocol/transport"
	"github.com/hunterlxt/swim-membership-protocol/wire"
)

// runID identifies this process instance in logs, independent of the
// protocol's own 4-byte node id — restarting swimd with the same --id
// still gets a fresh runID, which is what actually distinguishes log
// lines across a crash-and-restart during debugging.
var runID = uuid.New().String()

var (
	configPath         string
	bindFlag           string
	nodeID             uint32
	nodePort           uint16
	introducerID       uint32
	introducerPort     uint16
	introducerEndpoint string
	metricsBind        string
	tickInterval       time.Duration
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "swimd",
	Short: "Run a SWIM gossip membership protocol node",
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML parameter file")
	runCmd.Flags().StringVar(&bindFlag, "bind", "", "ZMQ ROUTER endpoint to bind, e.g. tcp://*:7000")
	runCmd.Flags().Uint32Var(&nodeID, "id", 0, "this node's id")
	runCmd.Flags().Uint16Var(&nodePort, "port", 7000, "this node's port")
	runCmd.Flags().Uint32Var(&introducerID, "introducer-id", swim.IntroducerAddress.ID, "introducer node id")
	runCmd.Flags().Uint16Var(&introducerPort, "introducer-port", swim.IntroducerAddress.Port, "introducer node port")
	runCmd.Flags().StringVar(&introducerEndpoint, "introducer-endpoint", "", "dialable ZMQ endpoint of the introducer")
	runCmd.Flags().StringVar(&metricsBind, "metrics-bind", "", "debug HTTP surface bind address")
	runCmd.Flags().DurationVar(&tickInterval, "tick-interval", 100*time.Millisecond, "wall-clock duration of one protocol tick")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start a node and run its membership protocol loop until interrupted",
	RunE:  runNode,
}

func runNode(cmd *cobra.Command, args []string) error {
	log.Printf("I: swimd run %s starting", runID)

	params := swim.DefaultParams()
	if configPath != "" {
		loaded, err := swim.LoadParams(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		params = loaded
	}
	if bindFlag != "" {
		params.BindEndpoint = bindFlag
	}
	if introducerEndpoint != "" {
		params.IntroducerEndpoint = introducerEndpoint
	}
	if metricsBind != "" {
		params.MetricsBind = metricsBind
	}
	if params.BindEndpoint == "" {
		return fmt.Errorf("no bind endpoint: pass --bind or set bind_endpoint in --config")
	}

	self := swim.NewAddress(nodeID, nodePort)
	introducer := swim.NewAddress(introducerID, introducerPort)

	net, err := transport.NewZMQNet(toWireAddr(self), params.BindEndpoint)
	if err != nil {
		return fmt.Errorf("binding transport: %w", err)
	}
	defer net.Close()

	if !introducer.Equal(self) {
		if params.IntroducerEndpoint == "" {
			return fmt.Errorf("no introducer endpoint: pass --introducer-endpoint or set introducer_endpoint in --config")
		}
		net.Resolve(toWireAddr(introducer), params.IntroducerEndpoint)
	}

	registry := prometheus.NewRegistry()
	metrics := swim.NewMetrics(registry)
	logger := swim.StdLogger{}

	engine := swim.New(self, params, net, logger).WithMetrics(metrics)

	beacon := discovery.New(toWireAddr(self)).SetPort(9999).NoEcho()
	if err := beacon.Publish(); err != nil {
		log.Printf("W: LAN discovery unavailable: %v", err)
	} else {
		defer beacon.Close()
		go logBeaconSightings(self, beacon)
	}

	if err := engine.Start(introducer); err != nil {
		return fmt.Errorf("starting engine: %w", err)
	}

	var srv *http.Server
	if params.MetricsBind != "" {
		srv = newDebugServer(engine, registry, params.MetricsBind)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("W: debug server: %v", err)
			}
		}()
	}

	return runLoop(engine, srv)
}

// runLoop is the process's only loop: it owns the ticker the engine
// has no internal equivalent of, by design (spec §5).
func runLoop(engine *swim.Engine, srv *http.Server) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sigc:
			engine.Finish()
			if srv != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				srv.Shutdown(ctx)
				cancel()
			}
			return nil
		case <-ticker.C:
			engine.Recv()
			engine.Tick()
		}
	}
}

// logBeaconSightings is a placeholder consumer of the LAN beacon: it
// confirms liveness and the advertised id/port, which is enough to
// learn who's on the network, but a ZMQ DEALER still needs a dialable
// endpoint string that nothing on the wire carries today (spec §1
// treats rendezvous transport as out of scope) — the operator still
// has to supply --introducer-endpoint out of band.
func logBeaconSightings(self swim.Address, b *discovery.Beacon) {
	for sig := range b.Signals() {
		log.Printf("I: [%s] beacon: saw %d.%d.%d.%d:%d from %s",
			self, byte(sig.Address.ID), byte(sig.Address.ID>>8), byte(sig.Address.ID>>16), byte(sig.Address.ID>>24), sig.Address.Port, sig.From)
	}
}

func newDebugServer(engine *swim.Engine, registry *prometheus.Registry, addr string) *http.Server {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Swimd-Run-Id", runID)
		if engine.Failed() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/members", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s (self, in_group=%v)\n", engine.Self(), engine.InGroup())
		for _, m := range engine.Members() {
			fmt.Fprintf(w, "%s\n", m.Address())
		}
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &http.Server{Addr: addr, Handler: r}
}

func toWireAddr(a swim.Address) wire.Address {
	return wire.Address{ID: a.ID, Port: a.Port}
}
