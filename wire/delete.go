package wire

import (
	"bytes"
	"fmt"
)

// Delete fans out the failure of End to every surviving member,
// including — harmlessly — the prober itself (spec §4.F, §9).
type Delete struct {
	Src Address
	End Address
}

func NewDelete(src, end Address) *Delete {
	return &Delete{Src: src, End: end}
}

func (d *Delete) Type() uint8 { return DeleteType }

func (d *Delete) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte(DeleteType)
	putAddress(buf, d.Src)
	putAddress(buf, d.End)
	return buf.Bytes(), nil
}

func unmarshalDelete(buf *bytes.Buffer) (*Delete, error) {
	d := &Delete{}
	var err error
	if d.Src, err = getAddress(buf); err != nil {
		return nil, err
	}
	if d.End, err = getAddress(buf); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Delete) String() string {
	return fmt.Sprintf("DELETE{src=%+v end=%+v}", d.Src, d.End)
}
