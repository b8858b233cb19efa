package transport

import (
	"fmt"
	"sync"

	zmq "github.com/pebbe/zmq4"

	"github.com/hunterlxt/swim-membership-protocol/wire"
)

// ZMQNet is a production Transport backed by a single ROUTER socket per
// node (the inbox) and lazily-dialed DEALER sockets to peers (mirrors
// zeromq-gyre's peer.go connect/send pattern, adapted from gyre's
// per-peer object to a single table keyed by wire.Address since the
// engine only ever needs Send/Receive, not a live peer handle).
type ZMQNet struct {
	mu        sync.Mutex
	ctx       *zmq.Context
	inbox     *zmq.Socket
	self      wire.Address
	endpoints map[wire.Address]string
	dealers   map[wire.Address]*zmq.Socket
	pending   [][]byte
}

// NewZMQNet binds a ROUTER socket for self at bindEndpoint (e.g.
// "tcp://*:7000").
func NewZMQNet(self wire.Address, bindEndpoint string) (*ZMQNet, error) {
	ctx, err := zmq.NewContext()
	if err != nil {
		return nil, fmt.Errorf("zmqnet: new context: %w", err)
	}

	inbox, err := ctx.NewSocket(zmq.ROUTER)
	if err != nil {
		return nil, fmt.Errorf("zmqnet: new router socket: %w", err)
	}
	if err := inbox.Bind(bindEndpoint); err != nil {
		return nil, fmt.Errorf("zmqnet: bind %s: %w", bindEndpoint, err)
	}

	return &ZMQNet{
		ctx:       ctx,
		inbox:     inbox,
		self:      self,
		endpoints: make(map[wire.Address]string),
		dealers:   make(map[wire.Address]*zmq.Socket),
	}, nil
}

// Resolve records the dialable endpoint for a peer address. The engine
// never calls this directly; cmd/swimd populates it from static
// configuration (the introducer endpoint) before the first Send.
func (z *ZMQNet) Resolve(addr wire.Address, endpoint string) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.endpoints[addr] = endpoint
}

func (z *ZMQNet) dealerFor(to wire.Address) (*zmq.Socket, error) {
	if d, ok := z.dealers[to]; ok {
		return d, nil
	}
	endpoint, ok := z.endpoints[to]
	if !ok {
		return nil, fmt.Errorf("zmqnet: no known endpoint for %v", to)
	}

	dealer, err := z.ctx.NewSocket(zmq.DEALER)
	if err != nil {
		return nil, err
	}
	if err := dealer.SetIdentity(fmt.Sprintf("%d:%d", z.self.ID, z.self.Port)); err != nil {
		return nil, err
	}
	if err := dealer.Connect(endpoint); err != nil {
		return nil, err
	}
	z.dealers[to] = dealer
	return dealer, nil
}

// Send dials (or reuses) a DEALER socket to to and writes payload.
// Unresolved or failed sends are swallowed as a transport error, per
// the protocol's self-healing-through-retransmission design (spec §7);
// the error is still returned so callers can log it.
func (z *ZMQNet) Send(from, to wire.Address, payload []byte) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	dealer, err := z.dealerFor(to)
	if err != nil {
		return err
	}
	_, err = dealer.SendBytes(payload, 0)
	return err
}

// Receive drains the ROUTER socket non-blockingly: it polls once with
// a zero timeout and returns whatever frames are already waiting,
// stripping the routing-id frame ROUTER sockets prepend.
func (z *ZMQNet) Receive(addr wire.Address) ([][]byte, error) {
	z.mu.Lock()
	defer z.mu.Unlock()

	poller := zmq.NewPoller()
	poller.Add(z.inbox, zmq.POLLIN)

	var out [][]byte
	for {
		sockets, err := poller.Poll(0)
		if err != nil {
			return out, err
		}
		if len(sockets) == 0 {
			break
		}
		frames, err := z.inbox.RecvMessageBytes(0)
		if err != nil {
			break
		}
		// frames[0] is the ROUTER-prepended identity frame.
		if len(frames) < 2 {
			continue
		}
		out = append(out, frames[1])
	}
	return out, nil
}

// Close tears down every dealer socket and the inbox, in that order,
// matching zeromq-gyre's peer.disconnect-before-socket-close ordering.
func (z *ZMQNet) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()

	for addr, d := range z.dealers {
		d.Close()
		delete(z.dealers, addr)
	}
	if err := z.inbox.Close(); err != nil {
		return err
	}
	return z.ctx.Term()
}
