package state

import (
	"net/netip"
	"strconv"
)

// SflowCollector is one sFlow collector endpoint. The ID is the fully
// expanded "ip:port" string and doubles as the map key.
type SflowCollector struct {
	ID   string
	IP   netip.Addr
	Port uint16
}

// NewSflowCollector builds a collector from its address; v6 addresses use
// the expanded form so the ID is stable regardless of input formatting.
func NewSflowCollector(ip netip.Addr, port uint16) *SflowCollector {
	return &SflowCollector{
		ID:   CollectorID(ip, port),
		IP:   ip,
		Port: port,
	}
}

// CollectorID returns the canonical "ip:port" identity for a collector.
func CollectorID(ip netip.Addr, port uint16) string {
	return ip.StringExpanded() + ":" + strconv.Itoa(int(port))
}
