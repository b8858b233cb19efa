package wire

import (
	"bytes"
	"fmt"
)

// Ping is used for both the direct probe and the indirect (relayed)
// probe — End distinguishes the two: for a direct probe End equals
// Src (the prober); for an indirect probe End names the real probe
// target and the message is sent to a relay instead (spec §4.F, §4.G).
type Ping struct {
	Src Address
	End Address
}

func NewPing(src, end Address) *Ping {
	return &Ping{Src: src, End: end}
}

func (p *Ping) Type() uint8 { return PingType }

func (p *Ping) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(PingType)
	putAddress(buf, p.Src)
	putAddress(buf, p.End)
	return buf.Bytes(), nil
}

func unmarshalPing(buf *bytes.Buffer) (*Ping, error) {
	p := &Ping{}
	var err error
	if p.Src, err = getAddress(buf); err != nil {
		return nil, err
	}
	if p.End, err = getAddress(buf); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Ping) String() string {
	return fmt.Sprintf("PING{src=%+v end=%+v}", p.Src, p.End)
}
