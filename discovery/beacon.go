// Package discovery implements LAN peer discovery by UDP multicast
// beacon, for processes that want to find an introducer without being
// handed its address out of band. It has no bearing on the membership
// protocol itself (spec §1 calls transport/rendezvous out of scope);
// cmd/swimd wires it in only to log the addresses it sees. The payload
// carries no dialable endpoint, so it does not resolve the introducer.
//
// Adapted from zeromq-gyre's beacon package (itself a translation of
// czmq's zbeacon), ported off the dead code.google.com/p/go.net
// packages onto golang.org/x/net/ipv4 and ipv6, and with the wire
// payload narrowed from a ZRE UUID+mailbox-port frame down to a bare
// 6-byte Address (spec §4.A's id+port encoding).
package discovery

import (
	"bytes"
	"encoding/binary"
	"errors"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/hunterlxt/swim-membership-protocol/wire"
)

const (
	payloadSize     = 6
	defaultInterval = 1 * time.Second
)

var (
	ipv4Group = "224.0.0.250"
	ipv6Group = "ff02::fa"
)

// Signal is one beacon observed from the network, decoded into the
// Address it advertises plus the IP it arrived from.
type Signal struct {
	From    net.IP
	Address wire.Address
}

// Beacon broadcasts this node's address on the local network and
// collects the addresses broadcast by others. Signals and transmission
// run on background goroutines started by Publish — this is
// the one place in the module that looks like zeromq-gyre's
// concurrency model, since a LAN beacon, unlike the Engine, has no
// outer driver to poll it.
type Beacon struct {
	sync.Mutex
	signals    chan *Signal
	ipv4Conn   *ipv4.PacketConn
	ipv6Conn   *ipv6.PacketConn
	port       int
	interval   time.Duration
	noecho     bool
	terminated bool
	self       wire.Address
	advertise  bool
	iface      string
	wg         sync.WaitGroup
	outAddr    *net.UDPAddr
}

// New creates a beacon for self, not yet listening on any port.
func New(self wire.Address) *Beacon {
	return &Beacon{
		signals:  make(chan *Signal, 50),
		interval: defaultInterval,
		self:     self,
	}
}

// SetPort sets the UDP multicast port both sides of the beacon use.
func (b *Beacon) SetPort(port int) *Beacon {
	b.port = port
	return b
}

// SetInterval sets the broadcast interval.
func (b *Beacon) SetInterval(interval time.Duration) *Beacon {
	b.interval = interval
	return b
}

// SetInterface restricts the beacon to a single named interface.
func (b *Beacon) SetInterface(iface string) *Beacon {
	b.iface = iface
	return b
}

// NoEcho filters out beacons that carry our own address.
func (b *Beacon) NoEcho() *Beacon {
	b.noecho = true
	return b
}

// Signals returns the channel discovered addresses arrive on.
func (b *Beacon) Signals() chan *Signal {
	return b.signals
}

// Publish starts advertising self at the configured interval and
// begins listening for other beacons.
func (b *Beacon) Publish() error {
	b.Lock()
	b.advertise = true
	b.Unlock()
	return b.start()
}

// Silence stops advertising self, while continuing to listen.
func (b *Beacon) Silence() *Beacon {
	b.Lock()
	defer b.Unlock()
	b.advertise = false
	return b
}

// Close terminates the beacon's background goroutines.
func (b *Beacon) Close() {
	b.Lock()
	b.terminated = true
	if b.signals != nil {
		close(b.signals)
	}
	b.Unlock()

	if b.ipv4Conn != nil {
		b.ipv4Conn.WriteTo(nil, nil, b.outAddr)
		b.ipv4Conn.Close()
	} else if b.ipv6Conn != nil {
		b.ipv6Conn.WriteTo(nil, nil, b.outAddr)
		b.ipv6Conn.Close()
	}

	b.wg.Wait()
}

func (b *Beacon) start() error {
	if b.iface == "" {
		b.iface = os.Getenv("SWIM_BEACON_INTERFACE")
	}

	var ifs []net.Interface
	var err error
	if b.iface == "" {
		ifs, err = net.Interfaces()
		if err != nil {
			return err
		}
	} else {
		iface, err := net.InterfaceByName(b.iface)
		if err != nil {
			return err
		}
		ifs = append(ifs, *iface)
	}

	conn, err := net.ListenPacket("udp4", net.JoinHostPort("224.0.0.0", strconv.Itoa(b.port)))
	if err == nil {
		b.ipv4Conn = ipv4.NewPacketConn(conn)
		b.ipv4Conn.SetMulticastLoopback(true)
	} else {
		conn6, err := net.ListenPacket("udp6", net.JoinHostPort(net.IPv6linklocalallnodes.String(), strconv.Itoa(b.port)))
		if err != nil {
			return err
		}
		b.ipv6Conn = ipv6.NewPacketConn(conn6)
		b.ipv6Conn.SetMulticastLoopback(true)
	}

	for _, iface := range ifs {
		if b.ipv4Conn != nil {
			group := &net.UDPAddr{IP: net.ParseIP(ipv4Group)}
			b.ipv4Conn.JoinGroup(&iface, group)
			b.outAddr = &net.UDPAddr{IP: net.ParseIP(ipv4Group), Port: b.port}
			break
		}
		group := &net.UDPAddr{IP: net.ParseIP(ipv6Group)}
		b.ipv6Conn.JoinGroup(&iface, group)
		b.outAddr = &net.UDPAddr{IP: net.ParseIP(ipv6Group), Port: b.port}
		break
	}

	if b.ipv4Conn == nil && b.ipv6Conn == nil {
		return errors.New("discovery: no interfaces to bind to")
	}

	go b.listen()
	go b.signal()
	return nil
}

func (b *Beacon) listen() {
	b.wg.Add(1)
	defer b.wg.Done()

	for {
		b.Lock()
		if b.terminated {
			b.Unlock()
			return
		}
		b.Unlock()

		buf := make([]byte, payloadSize)
		var n int
		var src net.IP
		var err error
		if b.ipv4Conn != nil {
			var cm *ipv4.ControlMessage
			n, cm, _, err = b.ipv4Conn.ReadFrom(buf)
			if cm != nil {
				src = cm.Src
			}
		} else {
			var cm *ipv6.ControlMessage
			n, cm, _, err = b.ipv6Conn.ReadFrom(buf)
			if cm != nil {
				src = cm.Src
			}
		}
		if err != nil || n != payloadSize {
			continue
		}

		addr := decodeAddress(buf)
		if b.noecho && addr == b.self {
			continue
		}

		select {
		case b.signals <- &Signal{From: src, Address: addr}:
		default:
		}
	}
}

func (b *Beacon) signal() {
	b.wg.Add(1)
	defer b.wg.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for range ticker.C {
		b.Lock()
		if b.terminated {
			b.Unlock()
			return
		}
		if b.advertise {
			payload := encodeAddress(b.self)
			if b.ipv4Conn != nil {
				b.ipv4Conn.WriteTo(payload, nil, b.outAddr)
			} else {
				b.ipv6Conn.WriteTo(payload, nil, b.outAddr)
			}
		}
		b.Unlock()
	}
}

func encodeAddress(a wire.Address) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, a.ID)
	binary.Write(buf, binary.LittleEndian, a.Port)
	return buf.Bytes()
}

func decodeAddress(b []byte) wire.Address {
	var a wire.Address
	buf := bytes.NewReader(b)
	binary.Read(buf, binary.LittleEndian, &a.ID)
	binary.Read(buf, binary.LittleEndian, &a.Port)
	return a
}
