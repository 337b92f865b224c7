package reconcile

import "fmt"

// Kind distinguishes reconciliation failures. Message text is
// informational; callers branch on the kind.
type Kind string

const (
	KindDuplicateEntry            Kind = "duplicate-entry"
	KindUnknownPort               Kind = "unknown-port"
	KindInvalidQueueIndex         Kind = "invalid-queue-index"
	KindInvalidAqm                Kind = "invalid-aqm"
	KindSubportPriorityOutOfRange Kind = "subport-priority-out-of-range"
	KindInvalidMinCapacity        Kind = "invalid-min-capacity"
	KindVlanMultiRouter           Kind = "vlan-multi-router"
	KindVlanMultiInterface        Kind = "vlan-multi-interface"
	KindVlanAddressMismatch       Kind = "vlan-address-mismatch"
	KindMissingVlan               Kind = "missing-vlan"
	KindDefaultVlanMissing        Kind = "default-vlan-missing"
	KindDuplicateInterfaceAddress Kind = "duplicate-interface-address"
	KindDuplicateNetwork          Kind = "duplicate-network"
	KindInvalidDhcpOverride       Kind = "invalid-dhcp-override"
	KindInvalidAddress            Kind = "invalid-address"
	KindAclL4PortRange            Kind = "acl-l4-port-range"
	KindAclPktLenRange            Kind = "acl-pkt-len-range"
	KindAclIcmpCode               Kind = "acl-icmp-code"
	KindAclIcmpType               Kind = "acl-icmp-type"
	KindAclIcmpProto              Kind = "acl-icmp-proto"
	KindAclTtlRange               Kind = "acl-ttl-range"
	KindUnknownMatcher            Kind = "unknown-matcher"
	KindDstPortConflict           Kind = "dst-port-conflict"
)

// Error is a structured reconciliation failure. The whole transformation
// aborts on the first Error; partial states are never returned.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Msg
}

// Is lets errors.Is match against an *Error carrying only a Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
