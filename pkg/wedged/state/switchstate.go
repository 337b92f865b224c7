package state

import (
	"net/netip"
	"time"

	"github.com/wedge-network/wedged/pkg/wedged/config"
)

// Neighbor table defaults applied to a fresh state.
const (
	defaultArpTimeout         = 60 * time.Second
	defaultNdpTimeout         = 60 * time.Second
	defaultArpAgerInterval    = 5 * time.Second
	defaultStaleEntryInterval = 10 * time.Second
	defaultMaxNeighborProbes  = 300
)

// SwitchState is the root of the state tree. All fields are written only
// during a reconciliation pass; afterwards the whole tree is read-only.
type SwitchState struct {
	Ports           map[PortID]*Port
	AggregatePorts  map[AggregatePortID]*AggregatePort
	Vlans           map[VlanID]*Vlan
	Interfaces      map[InterfaceID]*Interface
	Acls            map[string]*AclEntry
	SflowCollectors map[string]*SflowCollector
	LoadBalancers   map[config.LoadBalancerID]*LoadBalancer
	RouteTables     RouteTableMap
	ControlPlane    *ControlPlane

	DefaultVlan        VlanID
	ArpAgerInterval    time.Duration
	ArpTimeout         time.Duration
	NdpTimeout         time.Duration
	MaxNeighborProbes  int
	StaleEntryInterval time.Duration
	DhcpV4RelaySrc     netip.Addr
	DhcpV6RelaySrc     netip.Addr
	DhcpV4ReplySrc     netip.Addr
	DhcpV6ReplySrc     netip.Addr
}

// New returns an empty state with default neighbor timers and unset DHCP
// source overrides.
func New() *SwitchState {
	return &SwitchState{
		Ports:              make(map[PortID]*Port),
		AggregatePorts:     make(map[AggregatePortID]*AggregatePort),
		Vlans:              make(map[VlanID]*Vlan),
		Interfaces:         make(map[InterfaceID]*Interface),
		Acls:               make(map[string]*AclEntry),
		SflowCollectors:    make(map[string]*SflowCollector),
		LoadBalancers:      make(map[config.LoadBalancerID]*LoadBalancer),
		RouteTables:        make(RouteTableMap),
		ControlPlane:       NewControlPlane(),
		ArpTimeout:         defaultArpTimeout,
		NdpTimeout:         defaultNdpTimeout,
		ArpAgerInterval:    defaultArpAgerInterval,
		StaleEntryInterval: defaultStaleEntryInterval,
		MaxNeighborProbes:  defaultMaxNeighborProbes,
		DhcpV4RelaySrc:     netip.IPv4Unspecified(),
		DhcpV6RelaySrc:     netip.IPv6Unspecified(),
		DhcpV4ReplySrc:     netip.IPv4Unspecified(),
		DhcpV6ReplySrc:     netip.IPv6Unspecified(),
	}
}

// Clone returns a shallow copy whose maps are shared with the original.
// A reconciliation pass replaces whole maps on the clone when a component
// changes; the original is never touched.
func (s *SwitchState) Clone() *SwitchState {
	c := *s
	return &c
}
