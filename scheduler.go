package swim

import "github.com/hunterlxt/swim-membership-protocol/wire"

// schedulerStep runs one iteration of the probe scheduler (spec §4.F).
// Only called from Tick, and only when InGroup and the membership list
// is non-empty at entry. Grounded directly on the original
// MP1Node::nodeLoopOps, translated step for step.
func (e *Engine) schedulerStep() {
	// 1. Timeout expiry.
	if e.timeoutCounter == 0 {
		e.timeoutCounter = e.params.TRemove
		if !e.finishedPing {
			e.failProbe()
		}
	}

	// The timeout-expiry step above may have just removed the last
	// member; the remaining steps all index into the list, so bail
	// out rather than probe an address that no longer exists. Probing
	// resumes on the tick after a new member joins.
	if e.members.Len() == 0 {
		return
	}

	// 2. Round boundary. pos can also be past the end when a removal
	// shrank the list after pos reached Len.
	if e.pos >= e.members.Len() {
		e.members.Shuffle(e.rng)
		e.pos = 0
	}

	// 3. Start direct probe.
	if e.timeoutCounter == e.params.TRemove {
		e.startDirectPing()
	}

	// 4. Escalate to indirect probe.
	if e.timeoutCounter < e.params.TRemove && !e.finishedPing && e.pingCounter == 0 {
		e.startIndirectPing()
	}

	e.pingCounter--
	e.timeoutCounter--
}

// failProbe removes the unacknowledged probe target and fans the
// failure out to every remaining member, including self (spec §4.F
// step 1, §9).
func (e *Engine) failProbe() {
	target := e.pingTarget
	if e.members.RemoveByID(target.ID) {
		e.log.LogNodeRemove(e.self, target)
		e.metrics.incRemoval()
		e.metrics.setMembers(e.members.Len())
	}
	e.sendFailedNode(target)
}

// sendFailedNode fans a DELETE(end=target) out to every entry still in
// the membership list, plus self (spec §4.F step 1: "every remaining
// member (including self — harmlessly delivered)").
func (e *Engine) sendFailedNode(target Address) {
	del := wire.NewDelete(toWire(e.self), toWire(target))
	for _, entry := range e.members.Snapshot() {
		e.send(entry.Address(), del)
	}
	e.send(e.self, del)
}

// startDirectPing selects the next member in probe order and pings it
// directly (spec §4.F step 3).
func (e *Engine) startDirectPing() {
	entry := e.members.At(e.pos)
	e.pingTarget = entry.Address()
	e.finishedPing = false
	e.pingCounter = e.params.TFail

	e.send(e.pingTarget, wire.NewPing(toWire(e.self), toWire(e.self)))
	e.metrics.incDirectProbe()

	e.pos++
}

// startIndirectPing recruits the next member in probe order as a
// relay for the in-flight probe target (spec §4.F step 4).
func (e *Engine) startIndirectPing() {
	relay := e.members.At(e.pos)
	e.send(relay.Address(), wire.NewPing(toWire(e.self), toWire(e.pingTarget)))
	e.metrics.incIndirectProbe()

	e.pingCounter = e.params.TFail
	e.pos++
}
