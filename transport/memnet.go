package transport

import (
	"sync"

	"github.com/hunterlxt/swim-membership-protocol/wire"
)

// MemNet is a shared in-memory switch keyed by address: every engine
// driven by the same sim.Driver sends through the same MemNet, and
// each Send simply appends to the destination's queue. This is the Go
// analogue of the original EmulNet/Queue pair the reference
// implementation multiplexed a whole simulated cluster through inside
// one process.
type MemNet struct {
	mu     sync.Mutex
	queues map[wire.Address][][]byte

	// Dropped, when set, reports addresses whose inbound traffic is
	// silently discarded — used by tests to simulate a crashed node
	// without removing it from the switch outright.
	dropped map[wire.Address]bool
}

// NewMemNet returns an empty switch.
func NewMemNet() *MemNet {
	return &MemNet{
		queues:  make(map[wire.Address][][]byte),
		dropped: make(map[wire.Address]bool),
	}
}

// Send enqueues payload for delivery to to. MemNet never fails a send;
// an unreachable or dropped destination just accumulates (or discards)
// silently, matching the protocol's self-healing-through-retransmission
// error policy (spec §7).
func (n *MemNet) Send(from, to wire.Address, payload []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.dropped[to] {
		return nil
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	n.queues[to] = append(n.queues[to], buf)
	return nil
}

// Receive drains everything queued for addr, FIFO.
func (n *MemNet) Receive(addr wire.Address) ([][]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	msgs := n.queues[addr]
	delete(n.queues, addr)
	return msgs, nil
}

// Crash marks addr as unreachable: further sends to it are dropped and
// its existing queue is discarded, simulating the node vanishing
// without shutting down gracefully.
func (n *MemNet) Crash(addr wire.Address) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.dropped[addr] = true
	delete(n.queues, addr)
}
