// Package sim is the outer driver a production process has no use
// for but a test or a local demo needs badly: it wires a set of
// Engines to a single shared transport.MemNet and ticks them in
// lockstep, the way the original coursework harness ran a whole
// simulated cluster inside one test process (spec §5: the engine
// itself never loops; something else has to).
package sim

import (
	"math/rand"

	swim "github.com/hunterlxt/swim-membership-protocol"
	"github.com/hunterlxt/swim-membership-protocol/transport"
	"github.com/hunterlxt/swim-membership-protocol/wire"
)

// Driver owns one MemNet and every Engine registered against it.
type Driver struct {
	Net     *transport.MemNet
	engines []*swim.Engine
}

// NewDriver returns an empty driver with a fresh MemNet.
func NewDriver() *Driver {
	return &Driver{Net: transport.NewMemNet()}
}

// AddNode creates an Engine for (id, port), seeds its round-shuffle
// source deterministically from seed, and registers it with the
// driver's shared network.
func (d *Driver) AddNode(id uint32, port uint16, params swim.Params, logger swim.Logger, seed int64) *swim.Engine {
	addr := swim.NewAddress(id, port)
	e := swim.New(addr, params, d.Net, logger).WithRand(rand.New(rand.NewSource(seed)))
	d.engines = append(d.engines, e)
	return e
}

// Engines returns every engine registered with the driver, in
// registration order.
func (d *Driver) Engines() []*swim.Engine {
	return d.engines
}

// Tick runs one round for the whole cluster: every engine drains its
// transport inbox first, then every engine advances its scheduler.
// Splitting the two phases means a message sent during this round's
// dispatch isn't also processed in the same round — every engine sees
// one tick's worth of the world, same as real wall-clock ticks would.
func (d *Driver) Tick() {
	for _, e := range d.engines {
		e.Recv()
	}
	for _, e := range d.engines {
		e.Tick()
	}
}

// Run advances the whole cluster by n ticks.
func (d *Driver) Run(n int) {
	for i := 0; i < n; i++ {
		d.Tick()
	}
}

// Crash marks e permanently failed and severs it from the network: no
// further sends reach it, and anything already queued for it is
// discarded (spec §8's "failed node" scenarios all start here).
func (d *Driver) Crash(e *swim.Engine) {
	e.Finish()
	d.Net.Crash(wire.Address{ID: e.Self().ID, Port: e.Self().Port})
}
