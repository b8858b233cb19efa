// Package wire implements the on-the-wire encoding of the six SWIM
// message variants (JOINREQ, JOINREP, PING, PINGREQ, ACK, DELETE). It
// is deliberately transport-agnostic: Encode/Decode work on plain byte
// slices, and the transport layer is responsible for framing (the
// engine never sees a socket).
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Message type tags, as they appear on the wire (spec §6).
const (
	JoinReqType uint8 = 0
	JoinRepType uint8 = 1
	DeleteType  uint8 = 2
	PingType    uint8 = 3
	PingReqType uint8 = 4
	AckType     uint8 = 5
)

// Address is the wire representation of a node identity: a 4-byte id
// and a 2-byte port, little-endian.
type Address struct {
	ID   uint32
	Port uint16
}

// Entry is a membership-list snapshot entry carried by JOINREQ/JOINREP.
type Entry struct {
	ID   uint32
	Port uint16
}

// Message is implemented by every one of the six variants.
type Message interface {
	Type() uint8
	Marshal() ([]byte, error)
	String() string
}

var errShortBuffer = errors.New("wire: buffer too short")

func putAddress(buf *bytes.Buffer, a Address) {
	binary.Write(buf, binary.LittleEndian, a.ID)
	binary.Write(buf, binary.LittleEndian, a.Port)
}

func getAddress(buf *bytes.Buffer) (Address, error) {
	var a Address
	if buf.Len() < 6 {
		return a, errShortBuffer
	}
	binary.Read(buf, binary.LittleEndian, &a.ID)
	binary.Read(buf, binary.LittleEndian, &a.Port)
	return a, nil
}

func putEntries(buf *bytes.Buffer, entries []Entry) {
	binary.Write(buf, binary.LittleEndian, uint32(len(entries)))
	for _, e := range entries {
		binary.Write(buf, binary.LittleEndian, e.ID)
		binary.Write(buf, binary.LittleEndian, e.Port)
	}
}

func getEntries(buf *bytes.Buffer) ([]Entry, error) {
	if buf.Len() < 4 {
		return nil, errShortBuffer
	}
	var count uint32
	binary.Read(buf, binary.LittleEndian, &count)
	if buf.Len() < int(count)*6 {
		return nil, errShortBuffer
	}
	entries := make([]Entry, count)
	for i := range entries {
		binary.Read(buf, binary.LittleEndian, &entries[i].ID)
		binary.Read(buf, binary.LittleEndian, &entries[i].Port)
	}
	return entries, nil
}

// Decode parses a single encoded message. It dispatches on the leading
// type byte; malformed or truncated frames return an error, which
// callers (the transport adapter) treat as droppable garbage rather
// than a fatal condition.
func Decode(b []byte) (Message, error) {
	if len(b) < 1 {
		return nil, errShortBuffer
	}
	buf := bytes.NewBuffer(b[1:])
	switch b[0] {
	case JoinReqType:
		return unmarshalJoinReq(buf)
	case JoinRepType:
		return unmarshalJoinRep(buf)
	case DeleteType:
		return unmarshalDelete(buf)
	case PingType:
		return unmarshalPing(buf)
	case PingReqType:
		return unmarshalPingReq(buf)
	case AckType:
		return unmarshalAck(buf)
	default:
		return nil, fmt.Errorf("wire: unknown message type %d", b[0])
	}
}

// Encode is a convenience wrapper equivalent to calling m.Marshal().
func Encode(m Message) ([]byte, error) {
	return m.Marshal()
}
