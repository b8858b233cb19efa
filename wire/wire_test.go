package wire

import (
	"reflect"
	"testing"
)

func roundTrip(t *testing.T, m Message) Message {
	t.Helper()
	b, err := m.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return decoded
}

func TestJoinRepRoundTrip(t *testing.T) {
	src := Address{ID: 1, Port: 0}
	members := []Entry{{ID: 2, Port: 5}, {ID: 3, Port: 5}}
	m := NewJoinRep(src, members)

	decoded := roundTrip(t, m)
	got, ok := decoded.(*JoinRep)
	if !ok {
		t.Fatalf("decoded type = %T, want *JoinRep", decoded)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestJoinReqRoundTrip(t *testing.T) {
	src := Address{ID: 2, Port: 5}
	m := NewJoinReq(src, nil)

	decoded := roundTrip(t, m)
	got, ok := decoded.(*JoinReq)
	if !ok {
		t.Fatalf("decoded type = %T, want *JoinReq", decoded)
	}
	if got.Src != m.Src || got.End != m.End || len(got.Members) != 0 {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestPingRoundTrip(t *testing.T) {
	m := NewPing(Address{ID: 2, Port: 5}, Address{ID: 2, Port: 5})
	decoded := roundTrip(t, m)
	got, ok := decoded.(*Ping)
	if !ok {
		t.Fatalf("decoded type = %T, want *Ping", decoded)
	}
	if *got != *m {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestPingReqRoundTrip(t *testing.T) {
	m := NewPingReq(Address{ID: 2, Port: 5}, Address{ID: 3, Port: 5})
	decoded := roundTrip(t, m)
	got, ok := decoded.(*PingReq)
	if !ok {
		t.Fatalf("decoded type = %T, want *PingReq", decoded)
	}
	if *got != *m {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestAckRoundTrip(t *testing.T) {
	m := NewAck(Address{ID: 3, Port: 5}, Address{ID: 2, Port: 5})
	decoded := roundTrip(t, m)
	got, ok := decoded.(*Ack)
	if !ok {
		t.Fatalf("decoded type = %T, want *Ack", decoded)
	}
	if *got != *m {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestDeleteRoundTrip(t *testing.T) {
	m := NewDelete(Address{ID: 2, Port: 5}, Address{ID: 3, Port: 5})
	decoded := roundTrip(t, m)
	got, ok := decoded.(*Delete)
	if !ok {
		t.Fatalf("decoded type = %T, want *Delete", decoded)
	}
	if *got != *m {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestDecodeTruncated(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("Decode(nil) should error")
	}
	if _, err := Decode([]byte{PingType, 1, 2}); err == nil {
		t.Error("Decode of a truncated PING should error")
	}
}

func TestDecodeUnknownType(t *testing.T) {
	if _, err := Decode([]byte{0xFF, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Error("Decode of an unknown type should error")
	}
}
