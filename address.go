package swim

import "fmt"

// Address is a compact 6-byte node identity: a 4-byte node id followed
// by a 2-byte port. Equality is bytewise for Address itself; membership
// bookkeeping elsewhere in this package compares on ID alone (see
// MemberEntry).
type Address struct {
	ID   uint32
	Port uint16
}

// NullAddress is the distinguished zero address, treated as malformed
// input (spec §7): JOINREQ/JOINREP with a NULL source, DELETE with a
// NULL subject, and PING with either one NULL are dropped; ACK and
// PINGREQ are dropped only when both source and subject are NULL.
var NullAddress = Address{}

// IntroducerAddress is the well-known rendezvous point for bootstrap:
// node id 1, port 0.
var IntroducerAddress = Address{ID: 1, Port: 0}

// NewAddress constructs an Address from its id and port.
func NewAddress(id uint32, port uint16) Address {
	return Address{ID: id, Port: port}
}

// IsNull reports whether a equals the zero address.
func (a Address) IsNull() bool {
	return a == NullAddress
}

// Equal reports full 6-byte equality, used only for self-vs-other
// checks on delivery (spec §4.A). Membership comparisons must use ID
// equality instead.
func (a Address) Equal(b Address) bool {
	return a == b
}

func (a Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d:%d",
		byte(a.ID), byte(a.ID>>8), byte(a.ID>>16), byte(a.ID>>24), a.Port)
}
