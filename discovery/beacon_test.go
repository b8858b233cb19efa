package discovery

import (
	"testing"
	"time"

	"github.com/hunterlxt/swim-membership-protocol/wire"
)

func TestEncodeDecodeAddress(t *testing.T) {
	want := wire.Address{ID: 0x01020304, Port: 7000}
	got := decodeAddress(encodeAddress(want))
	if got != want {
		t.Fatalf("round trip mismatch: want %+v, got %+v", want, got)
	}
}

func TestBeaconPublishSubscribe(t *testing.T) {
	self := wire.Address{ID: 42, Port: 7000}
	b := New(self)
	b.SetPort(9999).SetInterval(50 * time.Millisecond)

	if err := b.Publish(); err != nil {
		t.Skipf("no usable network interface in this environment: %v", err)
	}
	defer b.Close()

	select {
	case sig := <-b.Signals():
		if sig.Address != self {
			t.Fatalf("expected to hear our own beacon %+v, got %+v", self, sig.Address)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected to receive our own beacon but got nothing")
	}
}
