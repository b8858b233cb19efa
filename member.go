package swim

import "math/rand"

// MemberEntry is a peer identity as carried in the membership list and
// in JOIN* message snapshots. Two entries are equal iff their IDs are
// equal — the engine distinguishes peers by id only, even though
// addresses also carry a port (spec §3).
type MemberEntry struct {
	ID   uint32
	Port uint16
}

// Address returns the full 6-byte address of this entry.
func (e MemberEntry) Address() Address {
	return NewAddress(e.ID, e.Port)
}

// MembershipList is an ordered sequence of MemberEntry. Insertion
// appends; removal preserves the relative order of survivors. No two
// entries may share the same ID, and the list never holds the NULL
// address or the engine's own id as an entry discovered through
// JOIN/JOINREP — self-membership is always implicit (spec §3).
type MembershipList struct {
	entries []MemberEntry
}

// NewMembershipList returns an empty list.
func NewMembershipList() *MembershipList {
	return &MembershipList{}
}

// Len returns the number of entries.
func (m *MembershipList) Len() int {
	return len(m.entries)
}

// At returns the entry at index i. Callers must keep i within
// [0, Len()); this mirrors the original MP1 vector indexing and is
// only ever called by the scheduler after checking bounds.
func (m *MembershipList) At(i int) MemberEntry {
	return m.entries[i]
}

// ContainsID reports whether id is already present.
func (m *MembershipList) ContainsID(id uint32) bool {
	for _, e := range m.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// InsertUnique appends entry if its id isn't already present. Returns
// true if the entry was actually inserted.
func (m *MembershipList) InsertUnique(entry MemberEntry) bool {
	if m.ContainsID(entry.ID) {
		return false
	}
	m.entries = append(m.entries, entry)
	return true
}

// RemoveByID removes the entry with the given id, preserving the
// relative order of the remaining entries. Removing an absent id is a
// silent no-op (spec §7) and returns false.
func (m *MembershipList) RemoveByID(id uint32) bool {
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Shuffle applies a uniform random permutation using rng. Reshuffling
// is only ever invoked by the scheduler at round boundaries (spec
// §3, §4.F) — the list is otherwise stable between calls.
func (m *MembershipList) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(m.entries), func(i, j int) {
		m.entries[i], m.entries[j] = m.entries[j], m.entries[i]
	})
}

// Snapshot returns a copy of the current entries, suitable for
// embedding in a JOINREQ/JOINREP message — mutating the returned slice
// never affects the list.
func (m *MembershipList) Snapshot() []MemberEntry {
	out := make([]MemberEntry, len(m.entries))
	copy(out, m.entries)
	return out
}
