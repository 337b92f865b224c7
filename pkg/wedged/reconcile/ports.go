package reconcile

import (
	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// updatePorts reconciles every configured port and resets ports missing
// from the config to their default disabled state. The port set itself is
// fixed by the platform; config can never grow or shrink it.
func (a *applier) updatePorts() (map[state.PortID]*state.Port, error) {
	diff := newNodeMapDiff[state.PortID, state.Port]("port", a.orig.Ports)

	for i := range a.cfg.Ports {
		portCfg := &a.cfg.Ports[i]
		id := state.PortID(portCfg.LogicalID)
		origPort, ok := a.orig.Ports[id]
		if !ok {
			return nil, newError(KindUnknownPort,
				"config listed for non-existent port %d", id)
		}
		newPort, err := a.updatePort(origPort, portCfg)
		if err != nil {
			return nil, err
		}
		if err := diff.update(id, origPort, newPort); err != nil {
			return nil, err
		}
	}

	// Ports without a config entry fall back to their default state.
	for id, origPort := range a.orig.Ports {
		if _, done := diff.next[id]; done {
			continue
		}
		defaultCfg := defaultPortConfig(id)
		newPort, err := a.updatePort(origPort, defaultCfg)
		if err != nil {
			return nil, err
		}
		if err := diff.update(id, origPort, newPort); err != nil {
			return nil, err
		}
	}

	return diff.result(), nil
}

func defaultPortConfig(id state.PortID) *config.Port {
	return &config.Port{
		LogicalID: int(id),
		State:     config.PortStateDisabled,
		Speed:     config.PortSpeedDefault,
		FEC:       config.PortFECOff,
	}
}

// updatePort returns a new port matching portCfg, or nil when the
// previous port already matches field for field, queues included.
func (a *applier) updatePort(orig *state.Port, portCfg *config.Port) (*state.Port, error) {
	vlans := a.portVlans[orig.ID]

	queues, err := a.updatePortQueues(orig, portCfg)
	if err != nil {
		return nil, err
	}
	queuesUnchanged := len(queues) == len(orig.Queues)
	for i := 0; i < len(queues) && queuesUnchanged; i++ {
		if queues[i] != orig.Queues[i] {
			queuesUnchanged = false
		}
	}

	if portCfg.State == orig.AdminState &&
		state.VlanID(portCfg.IngressVlan) == orig.IngressVlan &&
		portCfg.Speed == orig.Speed &&
		portCfg.Pause == orig.Pause &&
		portCfg.SFlowIngressRate == orig.SFlowIngressRate &&
		portCfg.SFlowEgressRate == orig.SFlowEgressRate &&
		portCfg.Name == orig.Name &&
		portCfg.Description == orig.Description &&
		orig.VlansEqual(vlans) &&
		portCfg.FEC == orig.FEC &&
		queuesUnchanged {
		return nil, nil
	}

	newPort := orig.Clone()
	newPort.AdminState = portCfg.State
	newPort.IngressVlan = state.VlanID(portCfg.IngressVlan)
	newPort.Vlans = vlans
	newPort.Speed = portCfg.Speed
	newPort.Pause = portCfg.Pause
	newPort.SFlowIngressRate = portCfg.SFlowIngressRate
	newPort.SFlowEgressRate = portCfg.SFlowEgressRate
	newPort.Name = portCfg.Name
	newPort.Description = portCfg.Description
	newPort.FEC = portCfg.FEC
	newPort.Queues = queues
	return newPort, nil
}

// updatePortQueues builds the full queue list for a port. The queue count
// is fixed by the platform (the previous port's count); configured
// indexes are reconciled and the rest reset to defaults.
func (a *applier) updatePortQueues(orig *state.Port, portCfg *config.Port) ([]*state.PortQueue, error) {
	cfgQueues := make(map[int]*config.PortQueue)
	for i := range portCfg.Queues {
		q := &portCfg.Queues[i]
		if _, ok := cfgQueues[q.ID]; !ok {
			cfgQueues[q.ID] = q
		}
	}

	newQueues := make([]*state.PortQueue, len(orig.Queues))
	for i := range orig.Queues {
		queueCfg, ok := cfgQueues[i]
		if !ok {
			def := state.NewPortQueue(i)
			if orig.Queues[i].Equal(def) {
				newQueues[i] = orig.Queues[i]
			} else {
				newQueues[i] = def
			}
			continue
		}
		delete(cfgQueues, i)
		newQueue, err := updatePortQueue(orig.Queues[i], queueCfg)
		if err != nil {
			return nil, err
		}
		newQueues[i] = newQueue
	}

	if len(cfgQueues) > 0 {
		idx := -1
		for i := range cfgQueues {
			if idx < 0 || i < idx {
				idx = i
			}
		}
		return nil, newError(KindInvalidQueueIndex,
			"port %d queue config listed for invalid queue %d; platform provides %d queues",
			orig.ID, idx, len(orig.Queues))
	}
	return newQueues, nil
}

// updatePortQueue reconciles one queue. Optional fields left unset in the
// config keep their previous value.
func updatePortQueue(orig *state.PortQueue, queueCfg *config.PortQueue) (*state.PortQueue, error) {
	if err := checkAqm(queueCfg.Aqm); err != nil {
		return nil, err
	}

	newQueue := orig.Clone()
	newQueue.StreamType = queueCfg.StreamType
	newQueue.Scheduling = queueCfg.Scheduling
	if queueCfg.Weight != nil {
		newQueue.Weight = queueCfg.Weight
	}
	if queueCfg.ReservedBytes != nil {
		newQueue.ReservedBytes = queueCfg.ReservedBytes
	}
	if queueCfg.ScalingFactor != nil {
		newQueue.ScalingFactor = queueCfg.ScalingFactor
	}
	if queueCfg.Aqm != nil {
		newQueue.Aqm = queueCfg.Aqm
	}

	if newQueue.Equal(orig) {
		return orig, nil
	}
	return newQueue, nil
}

func checkAqm(aqm *config.ActiveQueueManagement) error {
	if aqm == nil {
		return nil
	}
	if aqm.Detection.Linear == nil {
		return newError(KindInvalidAqm,
			"active queue management must specify a congestion detection method")
	}
	return nil
}
