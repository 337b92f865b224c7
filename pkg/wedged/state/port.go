package state

import (
	"maps"

	"github.com/wedge-network/wedged/pkg/wedged/config"
)

// PortVlanInfo describes a port's membership in one VLAN.
type PortVlanInfo struct {
	Tagged bool
}

// PortQueue is the state of one queue on a port. Optional fields keep
// explicit presence: nil means the platform default applies.
type PortQueue struct {
	ID            int
	StreamType    config.StreamType
	Scheduling    config.QueueScheduling
	Weight        *int
	ReservedBytes *int
	ScalingFactor *config.MMUScalingFactor
	Aqm           *config.ActiveQueueManagement
}

// NewPortQueue returns a queue at index id with platform default settings.
func NewPortQueue(id int) *PortQueue {
	return &PortQueue{
		ID:         id,
		StreamType: config.StreamTypeUnicast,
		Scheduling: config.QueueSchedulingWeightedRoundRobin,
	}
}

// Clone returns a shallow copy; the caller owns the copy until publish.
func (q *PortQueue) Clone() *PortQueue {
	c := *q
	return &c
}

// Equal reports whether two queues hold the same settings.
func (q *PortQueue) Equal(o *PortQueue) bool {
	return q.ID == o.ID &&
		q.StreamType == o.StreamType &&
		q.Scheduling == o.Scheduling &&
		equalPtr(q.Weight, o.Weight) &&
		equalPtr(q.ReservedBytes, o.ReservedBytes) &&
		equalPtr(q.ScalingFactor, o.ScalingFactor) &&
		equalAqm(q.Aqm, o.Aqm)
}

func equalPtr[T comparable](a, b *T) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func equalAqm(a, b *config.ActiveQueueManagement) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Behavior == b.Behavior &&
		equalPtr(a.Detection.Linear, b.Detection.Linear)
}

// Port is the state of one physical port, including its queues and
// derived VLAN membership.
type Port struct {
	ID               PortID
	Name             string
	Description      string
	AdminState       config.PortState
	IngressVlan      VlanID
	Speed            config.PortSpeed
	Pause            config.PortPause
	FEC              config.PortFEC
	SFlowIngressRate int64
	SFlowEgressRate  int64
	Vlans            map[VlanID]PortVlanInfo
	Queues           []*PortQueue
}

// NewPort returns a disabled port with numQueues default queues.
func NewPort(id PortID, numQueues int) *Port {
	queues := make([]*PortQueue, numQueues)
	for i := range queues {
		queues[i] = NewPortQueue(i)
	}
	return &Port{
		ID:         id,
		AdminState: config.PortStateDisabled,
		Speed:      config.PortSpeedDefault,
		FEC:        config.PortFECOff,
		Queues:     queues,
	}
}

// Clone returns a shallow copy; maps and queue pointers are shared with
// the original until the caller replaces them.
func (p *Port) Clone() *Port {
	c := *p
	return &c
}

// VlansEqual reports whether the port's VLAN membership equals vlans.
func (p *Port) VlansEqual(vlans map[VlanID]PortVlanInfo) bool {
	return maps.Equal(p.Vlans, vlans)
}
