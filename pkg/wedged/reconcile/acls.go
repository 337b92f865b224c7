package reconcile

import (
	"fmt"
	"net/netip"

	"github.com/wedge-network/wedged/pkg/util"
	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// aclStartPriority is where assigned ACL priorities begin. Priorities
// below it stay reserved for control-plane policing.
const aclStartPriority = 100000

// updateAcls assigns priorities in two passes: DENY ACLs first, in config
// order, then the ACLs expanded from the global and per-port egress
// traffic policies. PERMIT ACLs not referenced by any policy are dropped.
func (a *applier) updateAcls() (map[string]*state.AclEntry, error) {
	diff := newNodeMapDiff[string, state.AclEntry]("ACL", a.orig.Acls)
	priority := aclStartPriority

	for i := range a.cfg.Acls {
		aclCfg := &a.cfg.Acls[i]
		if aclCfg.ActionType != config.AclActionTypeDeny {
			continue
		}
		if err := a.updateAcl(aclCfg, priority, nil, diff); err != nil {
			return nil, err
		}
		priority++
	}

	aclByName := make(map[string]*config.AclEntry, len(a.cfg.Acls))
	for i := range a.cfg.Acls {
		aclByName[a.cfg.Acls[i].Name] = &a.cfg.Acls[i]
	}

	if a.cfg.GlobalEgressTrafficPolicy != nil {
		if err := a.expandTrafficPolicy(a.cfg.GlobalEgressTrafficPolicy, "", -1,
			aclByName, &priority, diff); err != nil {
			return nil, err
		}
	}
	for i := range a.cfg.Ports {
		portCfg := &a.cfg.Ports[i]
		if portCfg.EgressTrafficPolicy == nil {
			continue
		}
		tag := fmt.Sprintf("port%d:", portCfg.LogicalID)
		if err := a.expandTrafficPolicy(portCfg.EgressTrafficPolicy, tag,
			portCfg.LogicalID, aclByName, &priority, diff); err != nil {
			return nil, err
		}
	}

	return diff.result(), nil
}

// expandTrafficPolicy clones the named matcher ACLs into system ACLs
// carrying the policy's action, skipping DENY matchers (already emitted in
// the first pass). dstPort < 0 means no port pinning.
func (a *applier) expandTrafficPolicy(policy *config.TrafficPolicy, tag string, dstPort int,
	aclByName map[string]*config.AclEntry, priority *int,
	diff *nodeMapDiff[string, state.AclEntry]) error {

	for _, mta := range policy.MatchToAction {
		matcherCfg, ok := aclByName[mta.Matcher]
		if !ok {
			return newError(KindUnknownMatcher, "no acl named %s found", mta.Matcher)
		}
		if dstPort >= 0 && matcherCfg.DstPort != nil && *matcherCfg.DstPort != dstPort {
			return newError(KindDstPortConflict,
				"acl %s has dstPort set to %d but is bound to port %d",
				matcherCfg.Name, *matcherCfg.DstPort, dstPort)
		}
		if matcherCfg.ActionType == config.AclActionTypeDeny {
			continue
		}

		aclCfg := *matcherCfg
		aclCfg.Name = "system:" + tag + mta.Matcher
		if dstPort >= 0 {
			pinned := dstPort
			aclCfg.DstPort = &pinned
		}

		action := &state.MatchAction{}
		if mta.Action.SendToQueue != nil {
			action.SendToQueue = &state.SendToQueueAction{QueueID: *mta.Action.SendToQueue}
		}
		if mta.Action.PacketCounter != nil {
			counter := *mta.Action.PacketCounter
			action.PacketCounter = &counter
		}

		if err := a.updateAcl(&aclCfg, *priority, action, diff); err != nil {
			return err
		}
		*priority++
	}
	return nil
}

// updateAcl builds the entry and records it in the diff, carrying the
// previous node over when nothing changed.
func (a *applier) updateAcl(aclCfg *config.AclEntry, priority int,
	action *state.MatchAction, diff *nodeMapDiff[string, state.AclEntry]) error {

	newAcl, err := createAcl(aclCfg, priority, action)
	if err != nil {
		return err
	}
	origAcl := a.orig.Acls[aclCfg.Name]
	if origAcl != nil && origAcl.Equal(newAcl) {
		return diff.update(aclCfg.Name, origAcl, nil)
	}
	return diff.update(aclCfg.Name, origAcl, newAcl)
}

// checkAcl validates the match fields of one configured ACL.
func checkAcl(aclCfg *config.AclEntry) error {
	for _, r := range []struct {
		which string
		rng   *config.L4PortRange
	}{
		{"src", aclCfg.SrcL4PortRange},
		{"dst", aclCfg.DstL4PortRange},
	} {
		if r.rng == nil {
			continue
		}
		if r.rng.Min < 0 || r.rng.Min > state.AclMaxL4Port {
			return newError(KindAclL4PortRange,
				"%s's L4 port range has a min value outside [0, %d]", r.which, state.AclMaxL4Port)
		}
		if r.rng.Max < 0 || r.rng.Max > state.AclMaxL4Port {
			return newError(KindAclL4PortRange,
				"%s's L4 port range has a max value outside [0, %d]", r.which, state.AclMaxL4Port)
		}
		if r.rng.Min > r.rng.Max {
			return newError(KindAclL4PortRange,
				"%s's L4 port range has a min value larger than its max value", r.which)
		}
	}
	if aclCfg.PktLenRange != nil && aclCfg.PktLenRange.Min > aclCfg.PktLenRange.Max {
		return newError(KindAclPktLenRange,
			"the min. packet length cannot exceed the max. packet length")
	}
	if aclCfg.IcmpCode != nil && aclCfg.IcmpType == nil {
		return newError(KindAclIcmpCode, "icmp type must be set when icmp code is set")
	}
	if aclCfg.IcmpType != nil && (*aclCfg.IcmpType < 0 || *aclCfg.IcmpType > state.AclMaxIcmpType) {
		return newError(KindAclIcmpType,
			"icmp type value must be between 0 and %d", state.AclMaxIcmpType)
	}
	if aclCfg.IcmpCode != nil && (*aclCfg.IcmpCode < 0 || *aclCfg.IcmpCode > state.AclMaxIcmpCode) {
		return newError(KindAclIcmpCode,
			"icmp code value must be between 0 and %d", state.AclMaxIcmpCode)
	}
	if aclCfg.IcmpType != nil &&
		(aclCfg.Proto == nil ||
			(*aclCfg.Proto != state.AclProtoIcmp && *aclCfg.Proto != state.AclProtoIcmpv6)) {
		return newError(KindAclIcmpProto, "proto must be either icmp or icmpv6 if icmp type is set")
	}
	if aclCfg.Ttl != nil {
		if aclCfg.Ttl.Value < 0 || aclCfg.Ttl.Value > 255 {
			return newError(KindAclTtlRange, "ttl value must be between 0 and 255")
		}
		if aclCfg.Ttl.Mask < 0 || aclCfg.Ttl.Mask > 255 {
			return newError(KindAclTtlRange, "ttl mask must be between 0 and 255")
		}
	}
	return nil
}

// createAcl validates the config and builds a state entry at the assigned
// priority.
func createAcl(aclCfg *config.AclEntry, priority int, action *state.MatchAction) (*state.AclEntry, error) {
	if err := checkAcl(aclCfg); err != nil {
		return nil, err
	}

	newAcl := &state.AclEntry{
		Name:       aclCfg.Name,
		Priority:   priority,
		ActionType: aclCfg.ActionType,
		Action:     action,
	}
	if aclCfg.SrcIp != nil {
		prefix, err := parseAclNetwork(aclCfg.Name, "srcIp", *aclCfg.SrcIp)
		if err != nil {
			return nil, err
		}
		newAcl.SrcIp = prefix
	}
	if aclCfg.DstIp != nil {
		prefix, err := parseAclNetwork(aclCfg.Name, "dstIp", *aclCfg.DstIp)
		if err != nil {
			return nil, err
		}
		newAcl.DstIp = prefix
	}
	if aclCfg.Proto != nil {
		proto := uint8(*aclCfg.Proto)
		newAcl.Proto = &proto
	}
	if aclCfg.TcpFlagsBitMap != nil {
		flags := uint8(*aclCfg.TcpFlagsBitMap)
		newAcl.TcpFlagsBitMap = &flags
	}
	if aclCfg.SrcPort != nil {
		port := uint16(*aclCfg.SrcPort)
		newAcl.SrcPort = &port
	}
	if aclCfg.DstPort != nil {
		port := uint16(*aclCfg.DstPort)
		newAcl.DstPort = &port
	}
	if aclCfg.SrcL4PortRange != nil {
		newAcl.SrcL4PortRange = &state.AclL4PortRange{
			Min: uint16(aclCfg.SrcL4PortRange.Min),
			Max: uint16(aclCfg.SrcL4PortRange.Max),
		}
	}
	if aclCfg.DstL4PortRange != nil {
		newAcl.DstL4PortRange = &state.AclL4PortRange{
			Min: uint16(aclCfg.DstL4PortRange.Min),
			Max: uint16(aclCfg.DstL4PortRange.Max),
		}
	}
	if aclCfg.PktLenRange != nil {
		newAcl.PktLenRange = &state.AclPktLenRange{
			Min: uint16(aclCfg.PktLenRange.Min),
			Max: uint16(aclCfg.PktLenRange.Max),
		}
	}
	if aclCfg.IpFrag != nil {
		frag := *aclCfg.IpFrag
		newAcl.IpFrag = &frag
	}
	if aclCfg.IcmpType != nil {
		icmpType := uint8(*aclCfg.IcmpType)
		newAcl.IcmpType = &icmpType
	}
	if aclCfg.IcmpCode != nil {
		icmpCode := uint8(*aclCfg.IcmpCode)
		newAcl.IcmpCode = &icmpCode
	}
	if aclCfg.Dscp != nil {
		dscp := uint8(*aclCfg.Dscp)
		newAcl.Dscp = &dscp
	}
	if aclCfg.DstMac != nil {
		mac, err := state.ParseMAC(*aclCfg.DstMac)
		if err != nil {
			return nil, newError(KindInvalidAddress, "acl %s dstMac: %v", aclCfg.Name, err)
		}
		newAcl.DstMac = &mac
	}
	if aclCfg.IpType != nil {
		ipType := *aclCfg.IpType
		newAcl.IpType = &ipType
	}
	if aclCfg.Ttl != nil {
		newAcl.Ttl = &state.AclTtl{
			Value: uint8(aclCfg.Ttl.Value),
			Mask:  uint8(aclCfg.Ttl.Mask),
		}
	}
	return newAcl, nil
}

func parseAclNetwork(name, field, cidr string) (netip.Prefix, error) {
	addr, length, perr := util.ParseCIDR(cidr)
	if perr != nil {
		return netip.Prefix{}, newError(KindInvalidAddress,
			"acl %s %s %q: %v", name, field, cidr, perr)
	}
	return util.MaskedPrefix(addr, length), nil
}
