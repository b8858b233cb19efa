package wire

import (
	"bytes"
	"fmt"
)

// JoinReq is the bootstrap request a non-introducer sends to the
// introducer (or, during fanout, to any peer it just learned about).
type JoinReq struct {
	Src     Address
	End     Address
	Members []Entry
}

// NewJoinReq creates a JoinReq with End defaulted to Src, matching the
// convention that End is only meaningful for probe/delete messages.
func NewJoinReq(src Address, members []Entry) *JoinReq {
	return &JoinReq{Src: src, End: src, Members: members}
}

func (j *JoinReq) Type() uint8 { return JoinReqType }

func (j *JoinReq) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(JoinReqType)
	putAddress(buf, j.Src)
	putAddress(buf, j.End)
	putEntries(buf, j.Members)
	return buf.Bytes(), nil
}

func unmarshalJoinReq(buf *bytes.Buffer) (*JoinReq, error) {
	j := &JoinReq{}
	var err error
	if j.Src, err = getAddress(buf); err != nil {
		return nil, err
	}
	if j.End, err = getAddress(buf); err != nil {
		return nil, err
	}
	if j.Members, err = getEntries(buf); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *JoinReq) String() string {
	return fmt.Sprintf("JOINREQ{src=%+v members=%d}", j.Src, len(j.Members))
}
