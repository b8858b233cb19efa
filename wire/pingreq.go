package wire

import (
	"bytes"
	"fmt"
)

// PingReq asks its receiver (a relay) to probe End on behalf of Src.
// Present in the protocol vocabulary but never emitted by the
// scheduler described in spec §4.F, which uses Ping for both direct
// and indirect probing; retained for forward compatibility (spec §9).
type PingReq struct {
	Src Address
	End Address
}

func NewPingReq(src, end Address) *PingReq {
	return &PingReq{Src: src, End: end}
}

func (p *PingReq) Type() uint8 { return PingReqType }

func (p *PingReq) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(PingReqType)
	putAddress(buf, p.Src)
	putAddress(buf, p.End)
	return buf.Bytes(), nil
}

func unmarshalPingReq(buf *bytes.Buffer) (*PingReq, error) {
	p := &PingReq{}
	var err error
	if p.Src, err = getAddress(buf); err != nil {
		return nil, err
	}
	if p.End, err = getAddress(buf); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PingReq) String() string {
	return fmt.Sprintf("PINGREQ{src=%+v end=%+v}", p.Src, p.End)
}
