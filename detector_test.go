package swim

import (
	"testing"

	"github.com/hunterlxt/swim-membership-protocol/transport"
	"github.com/hunterlxt/swim-membership-protocol/wire"
)

// TestHandlePingRepliesToEnd covers spec §4.G's PING handler: the ACK
// goes to msg.Src, carrying msg.End forward unchanged — the prober for
// a direct probe, or the original requester for a relayed one.
func TestHandlePingRepliesToEnd(t *testing.T) {
	net := transport.NewMemNet()
	e := newTestEngine(NewAddress(2, 7000), net)

	prober := NewAddress(1, 0)
	e.handlePing(wire.NewPing(toWire(prober), toWire(prober)))

	msg := recvOne(t, net, prober)
	ack, ok := msg.(*wire.Ack)
	if !ok {
		t.Fatalf("expected an ACK, got %T", msg)
	}
	if fromWire(ack.Src) != e.Self() {
		t.Fatalf("ACK src should be self, got %+v", ack.Src)
	}
	if fromWire(ack.End) != prober {
		t.Fatalf("ACK end should carry the ping's end forward, got %+v", ack.End)
	}
}

// TestHandlePingReqRelaysToTarget covers spec §4.G's PINGREQ handler.
func TestHandlePingReqRelaysToTarget(t *testing.T) {
	net := transport.NewMemNet()
	e := newTestEngine(NewAddress(3, 7000), net)

	requester := NewAddress(1, 0)
	target := NewAddress(2, 7000)
	e.handlePingReq(wire.NewPingReq(toWire(requester), toWire(target)))

	msg := recvOne(t, net, target)
	ping, ok := msg.(*wire.Ping)
	if !ok {
		t.Fatalf("expected a PING sent to the target, got %T", msg)
	}
	if fromWire(ping.Src) != e.Self() {
		t.Fatalf("the relayed PING's src should be the relay itself, got %+v", ping.Src)
	}
	if fromWire(ping.End) != requester {
		t.Fatalf("the relayed PING's end should be the original requester, got %+v", ping.End)
	}
}

// TestHandleAckCompletesOwnProbe covers spec §4.G's ACK handler when
// the probe was direct: an ACK naming us as End satisfies the in-flight
// probe without any further network traffic.
func TestHandleAckCompletesOwnProbe(t *testing.T) {
	net := transport.NewMemNet()
	e := newTestEngine(NewAddress(1, 0), net)
	e.finishedPing = false

	target := NewAddress(2, 7000)
	e.handleAck(wire.NewAck(toWire(target), toWire(e.Self())))

	if !e.finishedPing {
		t.Fatal("expected finishedPing to be set once the ACK names us as End")
	}
}

// TestHandleAckForwardsWhenNotAddressee covers spec §9's decision to
// preserve the reference implementation's relay behavior literally:
// a relay forwards the ACK toward End, re-stamping Src as its own
// address rather than the original target's.
func TestHandleAckForwardsWhenNotAddressee(t *testing.T) {
	net := transport.NewMemNet()
	relay := NewAddress(3, 7000)
	e := newTestEngine(relay, net)

	target := NewAddress(2, 7000)
	prober := NewAddress(1, 0)
	e.handleAck(wire.NewAck(toWire(target), toWire(prober)))

	if e.finishedPing {
		t.Fatal("a relay forwarding someone else's ACK should not mark its own probe complete")
	}

	msg := recvOne(t, net, prober)
	ack, ok := msg.(*wire.Ack)
	if !ok {
		t.Fatalf("expected a forwarded ACK, got %T", msg)
	}
	if fromWire(ack.Src) != relay {
		t.Fatalf("the forwarded ACK's src is re-stamped with the relay's own address, got %+v", ack.Src)
	}
	if fromWire(ack.End) != prober {
		t.Fatalf("the forwarded ACK's end should still be the original prober, got %+v", ack.End)
	}
}

// TestHandleDeleteRemovesMember covers spec §4.G's DELETE handler.
func TestHandleDeleteRemovesMember(t *testing.T) {
	net := transport.NewMemNet()
	e := newTestEngine(NewAddress(1, 0), net)

	victim := NewAddress(2, 7000)
	e.members.InsertUnique(MemberEntry{ID: victim.ID, Port: victim.Port})

	e.handleDelete(wire.NewDelete(toWire(NewAddress(9, 0)), toWire(victim)))

	if e.members.ContainsID(victim.ID) {
		t.Fatal("expected the named member to be removed")
	}
}

// TestHandleDeleteUnknownMemberIsNoop covers spec §7: a DELETE naming
// a node we never knew about is silently ignored.
func TestHandleDeleteUnknownMemberIsNoop(t *testing.T) {
	net := transport.NewMemNet()
	e := newTestEngine(NewAddress(1, 0), net)

	e.handleDelete(wire.NewDelete(toWire(NewAddress(9, 0)), toWire(NewAddress(99, 0))))

	if e.members.Len() != 0 {
		t.Fatalf("expected no change, got %d members", e.members.Len())
	}
}

// TestHandleDeleteIgnoresNullEnd covers spec §7's malformed-input
// drop policy for DELETE specifically.
func TestHandleDeleteIgnoresNullEnd(t *testing.T) {
	net := transport.NewMemNet()
	e := newTestEngine(NewAddress(1, 0), net)
	e.members.InsertUnique(MemberEntry{ID: 2, Port: 7000})

	e.handleDelete(wire.NewDelete(toWire(NewAddress(9, 0)), toWire(NullAddress)))

	if e.members.Len() != 1 {
		t.Fatal("a NULL-end DELETE should not alter the membership list")
	}
}
