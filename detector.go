package swim

import "github.com/hunterlxt/swim-membership-protocol/wire"

// handlePing implements spec §4.G's PING handler: reply to msg.Src
// with an ACK whose End is msg.End, carried forward unchanged. For a
// direct probe that End is the prober itself; for a PING relayed by
// handlePingReq it is the original requester, not the relay (spec
// §4.G, grounded on MP1Node::handlePing). A PING with a NULL Src or
// End is dropped.
func (e *Engine) handlePing(m *wire.Ping) {
	src := fromWire(m.Src)
	end := fromWire(m.End)
	if src.IsNull() || end.IsNull() {
		return
	}

	e.send(src, wire.NewAck(toWire(e.self), toWire(end)))
}

// handlePingReq implements spec §4.G's PINGREQ handler: relay a PING
// to the named target on the requester's behalf, substituting our own
// address as the PING's source so the eventual ACK routes back through
// us (grounded on MP1Node::handlePingReq). Nothing in the Probe
// Scheduler ever emits a PINGREQ (spec §9 decision 2: zeromq-gyre and
// the reference implementation both reach this path only via direct
// peer-to-peer testing), but a conforming peer must still answer one.
func (e *Engine) handlePingReq(m *wire.PingReq) {
	requester := fromWire(m.Src)
	target := fromWire(m.End)
	if requester.IsNull() && target.IsNull() {
		return
	}

	e.send(target, wire.NewPing(toWire(e.self), toWire(requester)))
}

// handleAck implements spec §4.G's ACK handler. If the ACK names us as
// the end recipient, the in-flight probe is satisfied. Otherwise we
// are a relay standing between the indirect prober and the target, and
// must pass the ACK on — but, preserved literally from
// MP1Node::handleAck rather than fixed (spec §9 decision 1), the
// forwarded ACK's Src is stamped with our own address, not the
// original target's. That's harmless here only because the recipient
// of the forward never inspects Src, just End, to decide the probe is
// satisfied.
func (e *Engine) handleAck(m *wire.Ack) {
	src := fromWire(m.Src)
	end := fromWire(m.End)
	if src.IsNull() && end.IsNull() {
		return
	}

	if end == e.self {
		e.finishedPing = true
		e.metrics.incAck()
		return
	}

	e.send(end, wire.NewAck(toWire(e.self), toWire(end)))
}

// handleDelete implements spec §4.G's DELETE handler: remove the named
// node from the membership list if present. A DELETE naming a node we
// don't know, or that already left, is a silent no-op (grounded on
// MP1Node::handleDelete / deleteNode).
func (e *Engine) handleDelete(m *wire.Delete) {
	end := fromWire(m.End)
	if end.IsNull() {
		return
	}

	if e.members.RemoveByID(end.ID) {
		e.log.LogNodeRemove(e.self, end)
		e.metrics.incRemoval()
		e.metrics.setMembers(e.members.Len())
	}
}
