// Package transport provides the queue-backed network adapter the
// engine sends and receives opaque message buffers through (spec
// §4.D). Two implementations are provided: MemNet, an in-memory switch
// used by tests and the sim harness, and ZMQNet, a real ROUTER/DEALER
// transport for production use.
package transport

import "github.com/hunterlxt/swim-membership-protocol/wire"

// Transport is the contract the engine consumes. Send is a
// fire-and-forget enqueue with no ordering or delivery guarantee.
// Receive drains everything currently queued for addr and returns it
// FIFO; the engine appends the result to its own inbound queue.
type Transport interface {
	Send(from, to wire.Address, payload []byte) error
	Receive(addr wire.Address) ([][]byte, error)
}
