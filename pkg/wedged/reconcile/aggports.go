package reconcile

import (
	"math"
	"slices"

	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// updateAggregatePorts reconciles the configured LAGs; LAGs absent from
// the config are implicit deletions.
func (a *applier) updateAggregatePorts() (map[state.AggregatePortID]*state.AggregatePort, error) {
	diff := newNodeMapDiff[state.AggregatePortID, state.AggregatePort]("aggregate port", a.orig.AggregatePorts)

	for i := range a.cfg.AggregatePorts {
		aggCfg := &a.cfg.AggregatePorts[i]
		id := state.AggregatePortID(aggCfg.Key)
		origAggPort := a.orig.AggregatePorts[id]

		newAggPort, err := a.updateAggPort(origAggPort, aggCfg)
		if err != nil {
			return nil, err
		}
		if err := diff.update(id, origAggPort, newAggPort); err != nil {
			return nil, err
		}
	}

	return diff.result(), nil
}

// updateAggPort builds the LAG described by aggCfg. With a previous LAG
// present and unchanged it returns nil.
func (a *applier) updateAggPort(orig *state.AggregatePort, aggCfg *config.AggregatePort) (*state.AggregatePort, error) {
	subports, err := subportsSorted(aggCfg)
	if err != nil {
		return nil, err
	}
	systemID, systemPriority, err := a.systemLacpConfig()
	if err != nil {
		return nil, err
	}
	minLinkCount, err := computeMinimumLinkCount(aggCfg)
	if err != nil {
		return nil, err
	}

	if orig != nil &&
		orig.Name == aggCfg.Name &&
		orig.Description == aggCfg.Description &&
		orig.SystemPriority == systemPriority &&
		orig.SystemID == systemID &&
		orig.MinimumLinkCount == minLinkCount &&
		orig.SubportsEqual(subports) {
		return nil, nil
	}

	return &state.AggregatePort{
		ID:               state.AggregatePortID(aggCfg.Key),
		Name:             aggCfg.Name,
		Description:      aggCfg.Description,
		SystemID:         systemID,
		SystemPriority:   systemPriority,
		MinimumLinkCount: minLinkCount,
		Subports:         subports,
	}, nil
}

// subportsSorted validates the member list and returns it in tuple order.
func subportsSorted(aggCfg *config.AggregatePort) ([]state.Subport, error) {
	subports := make([]state.Subport, len(aggCfg.MemberPorts))
	for i, member := range aggCfg.MemberPorts {
		if member.Priority < 0 || member.Priority >= 1<<16 {
			return nil, newError(KindSubportPriorityOutOfRange,
				"member port %d has priority outside of [0, 2^16)", i)
		}
		subports[i] = state.Subport{
			PortID:   state.PortID(member.MemberPortID),
			Priority: uint16(member.Priority),
			Rate:     member.Rate,
			Activity: member.Activity,
		}
	}
	slices.SortFunc(subports, func(x, y state.Subport) int {
		if x.Less(y) {
			return -1
		}
		if y.Less(x) {
			return 1
		}
		return 0
	})
	return subports, nil
}

// systemLacpConfig resolves the LACP system identity: the configured
// override when present, otherwise the platform MAC with the default
// priority.
func (a *applier) systemLacpConfig() (state.MAC, uint16, error) {
	if a.cfg.Lacp == nil {
		return a.platform.LocalMac(), state.DefaultSystemPriority, nil
	}
	systemID, err := state.ParseMAC(a.cfg.Lacp.SystemID)
	if err != nil {
		return state.MAC{}, 0, newError(KindInvalidAddress,
			"LACP system id: %v", err)
	}
	return systemID, uint16(a.cfg.Lacp.SystemPriority), nil
}

// computeMinimumLinkCount resolves the minimum-capacity union into a link
// count. A fraction is taken of the member count, rounded up.
func computeMinimumLinkCount(aggCfg *config.AggregatePort) (uint8, error) {
	minCapacity := aggCfg.MinimumCapacity
	switch {
	case minCapacity.LinkCount != nil && minCapacity.LinkPercentage == nil:
		count := *minCapacity.LinkCount
		if count < 1 {
			return 0, newError(KindInvalidMinCapacity,
				"aggregate port %d minimum link count %d < 1", aggCfg.Key, count)
		}
		return uint8(count), nil
	case minCapacity.LinkPercentage != nil && minCapacity.LinkCount == nil:
		fraction := *minCapacity.LinkPercentage
		if fraction <= 0 || fraction > 1 {
			return 0, newError(KindInvalidMinCapacity,
				"aggregate port %d minimum link percentage %v outside (0, 1]", aggCfg.Key, fraction)
		}
		return uint8(math.Ceil(fraction * float64(len(aggCfg.MemberPorts)))), nil
	default:
		return 0, newError(KindInvalidMinCapacity,
			"aggregate port %d must set exactly one of linkCount and linkPercentage", aggCfg.Key)
	}
}
