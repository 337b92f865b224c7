// Package config defines the declarative switch configuration record.
//
// A SwitchConfig describes the desired state of one switch. The agent
// reconciles it against the running SwitchState; config files never
// address hardware directly. Optional fields use pointer types — absence
// and zero are distinct, and the reconciler honors that distinction.
package config

// PortState is the administrative state requested for a port.
type PortState string

const (
	PortStateDisabled PortState = "DISABLED"
	PortStateEnabled  PortState = "ENABLED"
)

// PortSpeed is the configured port speed. DEFAULT leaves the platform
// auto-negotiated speed in place.
type PortSpeed string

const (
	PortSpeedDefault     PortSpeed = "DEFAULT"
	PortSpeedGigE        PortSpeed = "GIGE"
	PortSpeedXG          PortSpeed = "XG"
	PortSpeedTwentyFiveG PortSpeed = "TWENTYFIVEG"
	PortSpeedFortyG      PortSpeed = "FORTYG"
	PortSpeedFiftyG      PortSpeed = "FIFTYG"
	PortSpeedHundredG    PortSpeed = "HUNDREDG"
)

// PortFEC enables or disables forward error correction on a port.
type PortFEC string

const (
	PortFECOn  PortFEC = "ON"
	PortFECOff PortFEC = "OFF"
)

// PortPause holds flow-control pause settings.
type PortPause struct {
	Tx bool `json:"tx" yaml:"tx"`
	Rx bool `json:"rx" yaml:"rx"`
}

// StreamType classifies the traffic a queue carries.
type StreamType string

const (
	StreamTypeUnicast   StreamType = "UNICAST"
	StreamTypeMulticast StreamType = "MULTICAST"
	StreamTypeAll       StreamType = "ALL"
)

// QueueScheduling selects the scheduling discipline for a queue.
type QueueScheduling string

const (
	QueueSchedulingStrictPriority     QueueScheduling = "STRICT_PRIORITY"
	QueueSchedulingWeightedRoundRobin QueueScheduling = "WEIGHTED_ROUND_ROBIN"
)

// MMUScalingFactor selects the dynamic buffer scaling factor for a queue.
type MMUScalingFactor string

const (
	MMUScalingFactorOne   MMUScalingFactor = "ONE"
	MMUScalingFactorTwo   MMUScalingFactor = "TWO"
	MMUScalingFactorFour  MMUScalingFactor = "FOUR"
	MMUScalingFactorEight MMUScalingFactor = "EIGHT"
)

// LinearQueueCongestionDetection configures linear marking/drop probability
// between the two thresholds.
type LinearQueueCongestionDetection struct {
	MinimumLength int `json:"minimumLength" yaml:"minimumLength"`
	MaximumLength int `json:"maximumLength" yaml:"maximumLength"`
}

// QueueCongestionDetection is a tagged union; exactly one variant must be
// set when AQM is configured.
type QueueCongestionDetection struct {
	Linear *LinearQueueCongestionDetection `json:"linear,omitempty" yaml:"linear,omitempty"`
}

// QueueCongestionBehavior selects what AQM does once congestion is detected.
type QueueCongestionBehavior struct {
	EarlyDrop bool `json:"earlyDrop" yaml:"earlyDrop"`
	ECN       bool `json:"ecn" yaml:"ecn"`
}

// ActiveQueueManagement couples congestion detection with its behavior.
type ActiveQueueManagement struct {
	Detection QueueCongestionDetection `json:"detection" yaml:"detection"`
	Behavior  QueueCongestionBehavior  `json:"behavior" yaml:"behavior"`
}

// PortQueue configures a single queue on a port. ID is the queue index;
// indexes not listed keep their platform defaults.
type PortQueue struct {
	ID            int                    `json:"id" yaml:"id"`
	StreamType    StreamType             `json:"streamType" yaml:"streamType"`
	Scheduling    QueueScheduling        `json:"scheduling" yaml:"scheduling"`
	Weight        *int                   `json:"weight,omitempty" yaml:"weight,omitempty"`
	ReservedBytes *int                   `json:"reservedBytes,omitempty" yaml:"reservedBytes,omitempty"`
	ScalingFactor *MMUScalingFactor      `json:"scalingFactor,omitempty" yaml:"scalingFactor,omitempty"`
	Aqm           *ActiveQueueManagement `json:"aqm,omitempty" yaml:"aqm,omitempty"`
}

// Port configures a single physical port. Ports exist by virtue of the
// platform; configuration can only adjust them, never create them.
type Port struct {
	LogicalID           int            `json:"logicalID" yaml:"logicalID"`
	State               PortState      `json:"state" yaml:"state"`
	IngressVlan         int            `json:"ingressVlan" yaml:"ingressVlan"`
	Speed               PortSpeed      `json:"speed" yaml:"speed"`
	Pause               PortPause      `json:"pause" yaml:"pause"`
	SFlowIngressRate    int64          `json:"sFlowIngressRate" yaml:"sFlowIngressRate"`
	SFlowEgressRate     int64          `json:"sFlowEgressRate" yaml:"sFlowEgressRate"`
	Name                string         `json:"name" yaml:"name"`
	Description         string         `json:"description" yaml:"description"`
	FEC                 PortFEC        `json:"fec" yaml:"fec"`
	Queues              []PortQueue    `json:"queues,omitempty" yaml:"queues,omitempty"`
	EgressTrafficPolicy *TrafficPolicy `json:"egressTrafficPolicy,omitempty" yaml:"egressTrafficPolicy,omitempty"`
}

// VlanPort attaches a port to a VLAN, optionally tagged.
type VlanPort struct {
	VlanID      int  `json:"vlanID" yaml:"vlanID"`
	LogicalPort int  `json:"logicalPort" yaml:"logicalPort"`
	EmitTags    bool `json:"emitTags" yaml:"emitTags"`
}

// Vlan configures a VLAN. The interface binding may be omitted, in which
// case it is inferred from the interfaces configured on the VLAN.
type Vlan struct {
	ID                   int               `json:"id" yaml:"id"`
	Name                 string            `json:"name" yaml:"name"`
	IntfID               *int              `json:"intfID,omitempty" yaml:"intfID,omitempty"`
	DhcpRelayAddressV4   *string           `json:"dhcpRelayAddressV4,omitempty" yaml:"dhcpRelayAddressV4,omitempty"`
	DhcpRelayAddressV6   *string           `json:"dhcpRelayAddressV6,omitempty" yaml:"dhcpRelayAddressV6,omitempty"`
	DhcpRelayOverridesV4 map[string]string `json:"dhcpRelayOverridesV4,omitempty" yaml:"dhcpRelayOverridesV4,omitempty"`
	DhcpRelayOverridesV6 map[string]string `json:"dhcpRelayOverridesV6,omitempty" yaml:"dhcpRelayOverridesV6,omitempty"`
}

// NdpConfig carries IPv6 neighbor discovery parameters for an interface.
type NdpConfig struct {
	RouterAdvertisementSeconds     int     `json:"routerAdvertisementSeconds" yaml:"routerAdvertisementSeconds"`
	CurHopLimit                    int     `json:"curHopLimit" yaml:"curHopLimit"`
	RouterLifetime                 int     `json:"routerLifetime" yaml:"routerLifetime"`
	PrefixValidLifetimeSeconds     int     `json:"prefixValidLifetimeSeconds" yaml:"prefixValidLifetimeSeconds"`
	PrefixPreferredLifetimeSeconds int     `json:"prefixPreferredLifetimeSeconds" yaml:"prefixPreferredLifetimeSeconds"`
	RouterAddress                  *string `json:"routerAddress,omitempty" yaml:"routerAddress,omitempty"`
}

// Interface configures a routed interface on a VLAN within a virtual router.
type Interface struct {
	IntfID              int        `json:"intfID" yaml:"intfID"`
	RouterID            int        `json:"routerID" yaml:"routerID"`
	VlanID              int        `json:"vlanID" yaml:"vlanID"`
	Name                *string    `json:"name,omitempty" yaml:"name,omitempty"`
	Mac                 *string    `json:"mac,omitempty" yaml:"mac,omitempty"`
	Mtu                 *int       `json:"mtu,omitempty" yaml:"mtu,omitempty"`
	IPAddresses         []string   `json:"ipAddresses,omitempty" yaml:"ipAddresses,omitempty"`
	Ndp                 *NdpConfig `json:"ndp,omitempty" yaml:"ndp,omitempty"`
	IsVirtual           bool       `json:"isVirtual" yaml:"isVirtual"`
	IsStateSyncDisabled bool       `json:"isStateSyncDisabled" yaml:"isStateSyncDisabled"`
}

// LacpActivity selects active or passive LACP on a subport.
type LacpActivity string

const (
	LacpActivityActive  LacpActivity = "ACTIVE"
	LacpActivityPassive LacpActivity = "PASSIVE"
)

// LacpPortRate selects the LACPDU transmission rate.
type LacpPortRate string

const (
	LacpPortRateSlow LacpPortRate = "SLOW"
	LacpPortRateFast LacpPortRate = "FAST"
)

// AggregatePortMember names one member port of a LAG with its LACP
// parameters. Priority must lie in [0, 2^16).
type AggregatePortMember struct {
	MemberPortID int          `json:"memberPortID" yaml:"memberPortID"`
	Priority     int          `json:"priority" yaml:"priority"`
	Rate         LacpPortRate `json:"rate" yaml:"rate"`
	Activity     LacpActivity `json:"activity" yaml:"activity"`
}

// MinimumCapacity is a tagged union: either an absolute link count (>= 1)
// or a fraction (0, 1] of the member count. Exactly one variant must be set.
type MinimumCapacity struct {
	LinkCount      *int     `json:"linkCount,omitempty" yaml:"linkCount,omitempty"`
	LinkPercentage *float64 `json:"linkPercentage,omitempty" yaml:"linkPercentage,omitempty"`
}

// AggregatePort configures a link aggregation group.
type AggregatePort struct {
	Key             int                   `json:"key" yaml:"key"`
	Name            string                `json:"name" yaml:"name"`
	Description     string                `json:"description" yaml:"description"`
	MemberPorts     []AggregatePortMember `json:"memberPorts,omitempty" yaml:"memberPorts,omitempty"`
	MinimumCapacity MinimumCapacity       `json:"minimumCapacity" yaml:"minimumCapacity"`
}

// Lacp overrides the system LACP identity. When absent, the platform MAC
// and the default system priority are used.
type Lacp struct {
	SystemID       string `json:"systemID" yaml:"systemID"`
	SystemPriority int    `json:"systemPriority" yaml:"systemPriority"`
}

// AclActionType is the basic ACL disposition.
type AclActionType string

const (
	AclActionTypeDeny   AclActionType = "DENY"
	AclActionTypePermit AclActionType = "PERMIT"
)

// IpFragMatch matches on IP fragmentation status.
type IpFragMatch string

const (
	IpFragMatchAny           IpFragMatch = "MATCH_ANY_FRAGMENT"
	IpFragMatchFirst         IpFragMatch = "MATCH_FIRST_FRAGMENT"
	IpFragMatchNotFragmented IpFragMatch = "MATCH_NOT_FRAGMENTED"
)

// IpType matches on the ethertype/IP version of the packet.
type IpType string

const (
	IpTypeAny IpType = "ANY"
	IpTypeIP  IpType = "IP"
	IpTypeIP4 IpType = "IP4"
	IpTypeIP6 IpType = "IP6"
)

// L4PortRange matches L4 ports in [Min, Max]; both bounds <= 65535.
type L4PortRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// PktLenRange matches packet lengths in [Min, Max].
type PktLenRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Ttl matches (ttl & Mask) against Value; both in [0, 255].
type Ttl struct {
	Value int `json:"value" yaml:"value"`
	Mask  int `json:"mask" yaml:"mask"`
}

// AclEntry is one named ACL with match fields and a disposition. Names are
// unique across the ACL list.
type AclEntry struct {
	Name           string        `json:"name" yaml:"name"`
	ActionType     AclActionType `json:"actionType" yaml:"actionType"`
	SrcIp          *string       `json:"srcIp,omitempty" yaml:"srcIp,omitempty"`
	DstIp          *string       `json:"dstIp,omitempty" yaml:"dstIp,omitempty"`
	Proto          *int          `json:"proto,omitempty" yaml:"proto,omitempty"`
	TcpFlagsBitMap *int          `json:"tcpFlagsBitMap,omitempty" yaml:"tcpFlagsBitMap,omitempty"`
	SrcPort        *int          `json:"srcPort,omitempty" yaml:"srcPort,omitempty"`
	DstPort        *int          `json:"dstPort,omitempty" yaml:"dstPort,omitempty"`
	SrcL4PortRange *L4PortRange  `json:"srcL4PortRange,omitempty" yaml:"srcL4PortRange,omitempty"`
	DstL4PortRange *L4PortRange  `json:"dstL4PortRange,omitempty" yaml:"dstL4PortRange,omitempty"`
	PktLenRange    *PktLenRange  `json:"pktLenRange,omitempty" yaml:"pktLenRange,omitempty"`
	IpFrag         *IpFragMatch  `json:"ipFrag,omitempty" yaml:"ipFrag,omitempty"`
	IcmpType       *int          `json:"icmpType,omitempty" yaml:"icmpType,omitempty"`
	IcmpCode       *int          `json:"icmpCode,omitempty" yaml:"icmpCode,omitempty"`
	Dscp           *int          `json:"dscp,omitempty" yaml:"dscp,omitempty"`
	DstMac         *string       `json:"dstMac,omitempty" yaml:"dstMac,omitempty"`
	IpType         *IpType       `json:"ipType,omitempty" yaml:"ipType,omitempty"`
	Ttl            *Ttl          `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// MatchToActionEntry binds a named ACL matcher to a traffic action.
type MatchToActionEntry struct {
	Matcher string        `json:"matcher" yaml:"matcher"`
	Action  TrafficAction `json:"action" yaml:"action"`
}

// TrafficAction describes what to do with matched traffic.
type TrafficAction struct {
	SendToQueue   *int    `json:"sendToQueue,omitempty" yaml:"sendToQueue,omitempty"`
	PacketCounter *string `json:"packetCounter,omitempty" yaml:"packetCounter,omitempty"`
}

// TrafficPolicy is an ordered list of matcher→action bindings. Order
// determines the priority of the expanded ACLs.
type TrafficPolicy struct {
	MatchToAction []MatchToActionEntry `json:"matchToAction,omitempty" yaml:"matchToAction,omitempty"`
}

// SflowCollector names an sFlow collector endpoint.
type SflowCollector struct {
	IP   string `json:"ip" yaml:"ip"`
	Port int    `json:"port" yaml:"port"`
}

// LoadBalancerID selects which hardware load balancing a config applies to.
type LoadBalancerID string

const (
	LoadBalancerIDEcmp          LoadBalancerID = "ECMP"
	LoadBalancerIDAggregatePort LoadBalancerID = "AGGREGATE_PORT"
)

// HashingAlgorithm selects the hash function used for load balancing.
type HashingAlgorithm string

const (
	HashingAlgorithmCRC16CCITT HashingAlgorithm = "CRC16_CCITT"
	HashingAlgorithmCRC32Lo    HashingAlgorithm = "CRC32_LO"
	HashingAlgorithmCRC32Hi    HashingAlgorithm = "CRC32_HI"
)

// LoadBalancer configures one hardware load balancer. Seed is defaulted
// deterministically from the platform MAC when absent.
type LoadBalancer struct {
	ID              LoadBalancerID   `json:"id" yaml:"id"`
	Algorithm       HashingAlgorithm `json:"algorithm" yaml:"algorithm"`
	Seed            *uint32          `json:"seed,omitempty" yaml:"seed,omitempty"`
	IPv4Fields      []string         `json:"ipv4Fields,omitempty" yaml:"ipv4Fields,omitempty"`
	IPv6Fields      []string         `json:"ipv6Fields,omitempty" yaml:"ipv6Fields,omitempty"`
	TransportFields []string         `json:"transportFields,omitempty" yaml:"transportFields,omitempty"`
	MPLSFields      []string         `json:"mplsFields,omitempty" yaml:"mplsFields,omitempty"`
}

// StaticRouteWithNextHops is a static route resolved through next-hop
// addresses.
type StaticRouteWithNextHops struct {
	RouterID int      `json:"routerID" yaml:"routerID"`
	Prefix   string   `json:"prefix" yaml:"prefix"`
	Nexthops []string `json:"nexthops" yaml:"nexthops"`
}

// StaticRouteNoNextHops is a static route with a fixed disposition
// (drop or punt) instead of next hops.
type StaticRouteNoNextHops struct {
	RouterID int    `json:"routerID" yaml:"routerID"`
	Prefix   string `json:"prefix" yaml:"prefix"`
}

// SwitchConfig is the full declarative configuration for one switch.
type SwitchConfig struct {
	Ports                     []Port                    `json:"ports,omitempty" yaml:"ports,omitempty"`
	VlanPorts                 []VlanPort                `json:"vlanPorts,omitempty" yaml:"vlanPorts,omitempty"`
	Vlans                     []Vlan                    `json:"vlans,omitempty" yaml:"vlans,omitempty"`
	Interfaces                []Interface               `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	AggregatePorts            []AggregatePort           `json:"aggregatePorts,omitempty" yaml:"aggregatePorts,omitempty"`
	Acls                      []AclEntry                `json:"acls,omitempty" yaml:"acls,omitempty"`
	GlobalEgressTrafficPolicy *TrafficPolicy            `json:"globalEgressTrafficPolicy,omitempty" yaml:"globalEgressTrafficPolicy,omitempty"`
	SFlowCollectors           []SflowCollector          `json:"sFlowCollectors,omitempty" yaml:"sFlowCollectors,omitempty"`
	LoadBalancers             []LoadBalancer            `json:"loadBalancers,omitempty" yaml:"loadBalancers,omitempty"`
	Lacp                      *Lacp                     `json:"lacp,omitempty" yaml:"lacp,omitempty"`
	StaticRoutesWithNhops     []StaticRouteWithNextHops `json:"staticRoutesWithNhops,omitempty" yaml:"staticRoutesWithNhops,omitempty"`
	StaticRoutesToNull        []StaticRouteNoNextHops   `json:"staticRoutesToNull,omitempty" yaml:"staticRoutesToNull,omitempty"`
	StaticRoutesToCPU         []StaticRouteNoNextHops   `json:"staticRoutesToCPU,omitempty" yaml:"staticRoutesToCPU,omitempty"`
	DefaultVlan               int                       `json:"defaultVlan" yaml:"defaultVlan"`
	ArpAgerInterval           int                       `json:"arpAgerInterval" yaml:"arpAgerInterval"`
	ArpTimeoutSeconds         int                       `json:"arpTimeoutSeconds" yaml:"arpTimeoutSeconds"`
	MaxNeighborProbes         int                       `json:"maxNeighborProbes" yaml:"maxNeighborProbes"`
	StaleEntryInterval        int                       `json:"staleEntryInterval" yaml:"staleEntryInterval"`
	DhcpRelaySrcOverrideV4    *string                   `json:"dhcpRelaySrcOverrideV4,omitempty" yaml:"dhcpRelaySrcOverrideV4,omitempty"`
	DhcpRelaySrcOverrideV6    *string                   `json:"dhcpRelaySrcOverrideV6,omitempty" yaml:"dhcpRelaySrcOverrideV6,omitempty"`
	DhcpReplySrcOverrideV4    *string                   `json:"dhcpReplySrcOverrideV4,omitempty" yaml:"dhcpReplySrcOverrideV4,omitempty"`
	DhcpReplySrcOverrideV6    *string                   `json:"dhcpReplySrcOverrideV6,omitempty" yaml:"dhcpReplySrcOverrideV6,omitempty"`
}
