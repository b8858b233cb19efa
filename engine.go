package swim

import (
	"math/rand"
	"time"

	"github.com/hunterlxt/swim-membership-protocol/transport"
	"github.com/hunterlxt/swim-membership-protocol/wire"
)

// Engine is the per-node membership protocol state machine (spec §3,
// §5). It is single-threaded and cooperative: every field below is
// only ever touched from inside Tick, Recv, Start or Finish — there is
// no internal goroutine, unlike zeromq-gyre's Node, which runs its own
// handler() loop. That internal concurrency is exactly what spec §5
// forbids: an outer driver (see package sim, or cmd/swimd) owns the
// only loop that calls into an Engine.
type Engine struct {
	self      Address
	params    Params
	transport transport.Transport
	log       Logger
	metrics   *Metrics
	rng       *rand.Rand

	inGroup bool
	failed  bool

	members *MembershipList
	pos     int

	pingTarget   Address
	finishedPing bool
	pingCounter  int
	timeoutCounter int

	inbox []wire.Message
}

// New creates an Engine for self, using params for its tick constants,
// transport to exchange opaque message buffers, and log to record
// membership changes. A default, process-seeded random source is used
// for round shuffles; call WithRand before Start to plug in a
// reproducible one (the sim harness and tests always do).
func New(self Address, params Params, tr transport.Transport, logger Logger) *Engine {
	return &Engine{
		self:           self,
		params:         params,
		transport:      tr,
		log:            logger,
		members:        NewMembershipList(),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		pingCounter:    params.TFail,
		timeoutCounter: params.TRemove,
	}
}

// WithRand replaces the engine's random source, for deterministic
// tests. Returns e for chaining.
func (e *Engine) WithRand(rng *rand.Rand) *Engine {
	e.rng = rng
	return e
}

// WithMetrics attaches a Metrics sink. Returns e for chaining.
func (e *Engine) WithMetrics(m *Metrics) *Engine {
	e.metrics = m
	return e
}

// Self returns the engine's own address.
func (e *Engine) Self() Address { return e.self }

// InGroup reports whether the engine has joined the cluster.
func (e *Engine) InGroup() bool { return e.inGroup }

// Failed reports whether Finish has been called.
func (e *Engine) Failed() bool { return e.failed }

// Members returns a snapshot of the current membership list, for
// introspection (the debug HTTP surface, tests) — never mutated by
// the caller's use of the returned slice.
func (e *Engine) Members() []MemberEntry {
	return e.members.Snapshot()
}

// Start bootstraps the node (spec §3 "Lifecycles", §4.E). If self
// equals joinAddr, this node is the introducer: it marks itself joined
// immediately and never sends a JOINREQ. Otherwise it sends exactly
// one JOINREQ to joinAddr.
//
// The original source exits the process on a bootstrap failure; this
// implementation returns an error instead and lets the caller (e.g.
// cmd/swimd) decide whether that is fatal (spec §9 decision 3).
func (e *Engine) Start(joinAddr Address) error {
	e.failed = false
	e.inGroup = false
	e.pingCounter = e.params.TFail
	e.timeoutCounter = e.params.TRemove
	e.members = NewMembershipList()

	if e.self == joinAddr {
		e.inGroup = true
		e.log.Log(e.self, "starting up group as introducer")
		return nil
	}

	e.log.Log(e.self, "joining via "+joinAddr.String())
	e.send(joinAddr, wire.NewJoinReq(toWire(e.self), nil))
	return nil
}

// Finish marks the engine permanently failed: every subsequent Tick
// and Recv becomes a no-op (spec §3, §7).
func (e *Engine) Finish() {
	e.failed = true
}

// Recv asks the transport to drain everything currently queued for
// this node's address, decoding each buffer and appending well-formed
// messages to the engine's internal inbound queue. Garbage that fails
// to decode is dropped silently, the same way a NULL-sourced message
// is (spec §7).
func (e *Engine) Recv() {
	if e.failed {
		return
	}
	raw, err := e.transport.Receive(toWire(e.self))
	if err != nil {
		return
	}
	for _, buf := range raw {
		msg, err := wire.Decode(buf)
		if err != nil {
			continue
		}
		e.inbox = append(e.inbox, msg)
	}
}

// Tick performs one scheduler step: it drains and dispatches whatever
// is already in the inbound queue, then — if joined — advances the
// probe schedule (spec §2's two-phase tick).
func (e *Engine) Tick() {
	if e.failed {
		return
	}

	queue := e.inbox
	e.inbox = nil
	for _, msg := range queue {
		e.dispatch(msg)
	}

	if e.inGroup && e.members.Len() > 0 {
		e.schedulerStep()
	}
}

// dispatch routes a decoded message to its handler (spec §4.E, §4.G).
func (e *Engine) dispatch(msg wire.Message) {
	switch m := msg.(type) {
	case *wire.JoinReq:
		e.handleJoinReq(m)
	case *wire.JoinRep:
		e.handleJoinRep(m)
	case *wire.Ping:
		e.handlePing(m)
	case *wire.PingReq:
		e.handlePingReq(m)
	case *wire.Ack:
		e.handleAck(m)
	case *wire.Delete:
		e.handleDelete(m)
	}
}

// send marshals msg and hands it to the transport, addressed from
// self to. Transport failures are swallowed (spec §7) — the protocol
// is self-healing through retransmission, not through error recovery.
func (e *Engine) send(to Address, msg wire.Message) {
	b, err := msg.Marshal()
	if err != nil {
		return
	}
	_ = e.transport.Send(toWire(e.self), toWire(to), b)
}

func toWire(a Address) wire.Address {
	return wire.Address{ID: a.ID, Port: a.Port}
}

func fromWire(a wire.Address) Address {
	return Address{ID: a.ID, Port: a.Port}
}

func toWireEntries(snapshot []MemberEntry) []wire.Entry {
	out := make([]wire.Entry, len(snapshot))
	for i, e := range snapshot {
		out[i] = wire.Entry{ID: e.ID, Port: e.Port}
	}
	return out
}

func fromWireEntry(e wire.Entry) MemberEntry {
	return MemberEntry{ID: e.ID, Port: e.Port}
}
