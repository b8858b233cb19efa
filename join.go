package swim

import "github.com/hunterlxt/swim-membership-protocol/wire"

// handleJoinReq implements spec §4.E's JOINREQ handler. Grounded
// directly on the original MP1Node::handleJoinReq, translated from a
// raw vector/memcmp scan into MembershipList.InsertUnique, and from
// zeromq-gyre's requirePeer "find or create" idiom for the reply.
func (e *Engine) handleJoinReq(m *wire.JoinReq) {
	src := fromWire(m.Src)
	if src.IsNull() {
		return
	}

	if e.members.InsertUnique(MemberEntry{ID: src.ID, Port: src.Port}) {
		e.log.LogNodeAdd(e.self, src)
		e.metrics.incJoin()
		e.metrics.setMembers(e.members.Len())
	}

	e.send(src, wire.NewJoinRep(toWire(e.self), toWireEntries(e.members.Snapshot())))
}

// handleJoinRep implements spec §4.E's JOINREP handler: insert the
// replying peer, mark ourselves joined the first time the introducer
// replies, and fan out a JOINREQ to every peer named in the carried
// snapshot that we don't already know about — the pairwise handshake
// that acquaints a new joiner with the whole cluster without a version
// vector (spec §4.E rationale).
func (e *Engine) handleJoinRep(m *wire.JoinRep) {
	src := fromWire(m.Src)
	if src.IsNull() {
		return
	}

	if e.members.InsertUnique(MemberEntry{ID: src.ID, Port: src.Port}) {
		e.log.LogNodeAdd(e.self, src)
		e.metrics.incJoin()
		e.metrics.setMembers(e.members.Len())
	}

	if src.ID == IntroducerAddress.ID {
		if !e.inGroup {
			e.log.Log(e.self, "now in the group")
		}
		e.inGroup = true
	}

	for _, entry := range m.Members {
		if entry.ID == e.self.ID {
			continue
		}
		if e.members.ContainsID(entry.ID) {
			continue
		}
		peer := fromWireEntry(entry).Address()
		e.members.InsertUnique(MemberEntry{ID: peer.ID, Port: peer.Port})
		e.log.LogNodeAdd(e.self, peer)
		e.metrics.incJoin()
		e.metrics.setMembers(e.members.Len())

		e.send(peer, wire.NewJoinReq(toWire(e.self), nil))
	}
}
