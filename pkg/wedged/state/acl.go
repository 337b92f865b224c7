package state

import (
	"net/netip"

	"github.com/wedge-network/wedged/pkg/wedged/config"
)

// Bounds for ACL match fields.
const (
	AclMaxL4Port   = 65535
	AclMaxIcmpType = 255
	AclMaxIcmpCode = 255
	AclProtoIcmp   = 1
	AclProtoIcmpv6 = 58
)

// AclL4PortRange matches L4 ports in [Min, Max].
type AclL4PortRange struct {
	Min uint16
	Max uint16
}

// AclPktLenRange matches packet lengths in [Min, Max].
type AclPktLenRange struct {
	Min uint16
	Max uint16
}

// AclTtl matches (ttl & Mask) == (Value & Mask).
type AclTtl struct {
	Value uint8
	Mask  uint8
}

// SendToQueueAction redirects matched traffic to a port queue.
type SendToQueueAction struct {
	QueueID   int
	SendToCPU bool
}

// MatchAction is the richer action attached to ACLs expanded from traffic
// policies.
type MatchAction struct {
	SendToQueue   *SendToQueueAction
	PacketCounter *string
}

// Equal reports whether two match actions are the same.
func (m *MatchAction) Equal(o *MatchAction) bool {
	if (m == nil) != (o == nil) {
		return false
	}
	if m == nil {
		return true
	}
	return equalPtr(m.SendToQueue, o.SendToQueue) &&
		equalPtr(m.PacketCounter, o.PacketCounter)
}

// AclEntry is one ACL with its assigned priority and match fields. Unset
// match fields are nil; IP matchers use the invalid zero Prefix when unset.
type AclEntry struct {
	Name           string
	Priority       int
	ActionType     config.AclActionType
	SrcIp          netip.Prefix
	DstIp          netip.Prefix
	Proto          *uint8
	TcpFlagsBitMap *uint8
	SrcPort        *uint16
	DstPort        *uint16
	SrcL4PortRange *AclL4PortRange
	DstL4PortRange *AclL4PortRange
	PktLenRange    *AclPktLenRange
	IpFrag         *config.IpFragMatch
	IcmpType       *uint8
	IcmpCode       *uint8
	Dscp           *uint8
	DstMac         *MAC
	IpType         *config.IpType
	Ttl            *AclTtl
	Action         *MatchAction
}

// Equal reports whether two entries match field-for-field, priority
// included.
func (a *AclEntry) Equal(o *AclEntry) bool {
	return a.Name == o.Name &&
		a.Priority == o.Priority &&
		a.ActionType == o.ActionType &&
		a.SrcIp == o.SrcIp &&
		a.DstIp == o.DstIp &&
		equalPtr(a.Proto, o.Proto) &&
		equalPtr(a.TcpFlagsBitMap, o.TcpFlagsBitMap) &&
		equalPtr(a.SrcPort, o.SrcPort) &&
		equalPtr(a.DstPort, o.DstPort) &&
		equalPtr(a.SrcL4PortRange, o.SrcL4PortRange) &&
		equalPtr(a.DstL4PortRange, o.DstL4PortRange) &&
		equalPtr(a.PktLenRange, o.PktLenRange) &&
		equalPtr(a.IpFrag, o.IpFrag) &&
		equalPtr(a.IcmpType, o.IcmpType) &&
		equalPtr(a.IcmpCode, o.IcmpCode) &&
		equalPtr(a.Dscp, o.Dscp) &&
		equalPtr(a.DstMac, o.DstMac) &&
		equalPtr(a.IpType, o.IpType) &&
		equalPtr(a.Ttl, o.Ttl) &&
		a.Action.Equal(o.Action)
}
