package wire

import (
	"bytes"
	"fmt"
)

// Ack answers a Ping. End carries forward whatever End the triggering
// Ping carried (spec §4.G): the receiver never distinguishes whether
// it is the final probe target or merely relaying.
type Ack struct {
	Src Address
	End Address
}

func NewAck(src, end Address) *Ack {
	return &Ack{Src: src, End: end}
}

func (a *Ack) Type() uint8 { return AckType }

func (a *Ack) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(AckType)
	putAddress(buf, a.Src)
	putAddress(buf, a.End)
	return buf.Bytes(), nil
}

func unmarshalAck(buf *bytes.Buffer) (*Ack, error) {
	a := &Ack{}
	var err error
	if a.Src, err = getAddress(buf); err != nil {
		return nil, err
	}
	if a.End, err = getAddress(buf); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Ack) String() string {
	return fmt.Sprintf("ACK{src=%+v end=%+v}", a.Src, a.End)
}
