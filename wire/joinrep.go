package wire

import (
	"bytes"
	"fmt"
)

// JoinRep is the introducer's (or any handshake peer's) reply to a
// JoinReq, carrying a snapshot of its current membership list so the
// joiner can fan out further JOINREQs (spec §4.E).
type JoinRep struct {
	Src     Address
	End     Address
	Members []Entry
}

// NewJoinRep creates a JoinRep with End defaulted to Src.
func NewJoinRep(src Address, members []Entry) *JoinRep {
	return &JoinRep{Src: src, End: src, Members: members}
}

func (j *JoinRep) Type() uint8 { return JoinRepType }

func (j *JoinRep) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(JoinRepType)
	putAddress(buf, j.Src)
	putAddress(buf, j.End)
	putEntries(buf, j.Members)
	return buf.Bytes(), nil
}

func unmarshalJoinRep(buf *bytes.Buffer) (*JoinRep, error) {
	j := &JoinRep{}
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

func (j *JoinRep) String() string {
	return fmt.Sprintf("JOINREP{src=%+v members=%d}", j.Src, len(j.Members))
}
