package reconcile

import (
	"net/netip"

	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// updateSflowCollectors reconciles the collector set. Collector identity
// is the canonical "ip:port" string, so re-formatted addresses in the
// config do not churn the set.
func (a *applier) updateSflowCollectors() (map[string]*state.SflowCollector, error) {
	diff := newNodeMapDiff[string, state.SflowCollector]("sFlow collector", a.orig.SflowCollectors)

	for _, collectorCfg := range a.cfg.SFlowCollectors {
		addr, err := netip.ParseAddr(collectorCfg.IP)
		if err != nil {
			return nil, newError(KindInvalidAddress,
				"sFlow collector address %q: %v", collectorCfg.IP, err)
		}
		newCollector := state.NewSflowCollector(addr, uint16(collectorCfg.Port))
		id := newCollector.ID
		origCollector := a.orig.SflowCollectors[id]

		if origCollector != nil && origCollector.IP == newCollector.IP &&
			origCollector.Port == newCollector.Port {
			newCollector = nil
		}
		if err := diff.update(id, origCollector, newCollector); err != nil {
			return nil, err
		}
	}

	return diff.result(), nil
}
