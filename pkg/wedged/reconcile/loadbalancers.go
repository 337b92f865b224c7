package reconcile

import (
	"hash/crc32"
	"slices"

	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// updateLoadBalancers reconciles the load balancer set by identity.
func (a *applier) updateLoadBalancers() (map[config.LoadBalancerID]*state.LoadBalancer, error) {
	diff := newNodeMapDiff[config.LoadBalancerID, state.LoadBalancer]("load balancer", a.orig.LoadBalancers)

	for i := range a.cfg.LoadBalancers {
		lbCfg := &a.cfg.LoadBalancers[i]
		origLb := a.orig.LoadBalancers[lbCfg.ID]

		newLb := a.buildLoadBalancer(lbCfg)
		if origLb != nil && origLb.Equal(newLb) {
			newLb = nil
		}
		if err := diff.update(lbCfg.ID, origLb, newLb); err != nil {
			return nil, err
		}
	}

	return diff.result(), nil
}

func (a *applier) buildLoadBalancer(lbCfg *config.LoadBalancer) *state.LoadBalancer {
	seed := a.defaultSeed(lbCfg.ID)
	if lbCfg.Seed != nil {
		seed = *lbCfg.Seed
	}
	return &state.LoadBalancer{
		ID:              lbCfg.ID,
		Algorithm:       lbCfg.Algorithm,
		Seed:            seed,
		IPv4Fields:      sortedCopy(lbCfg.IPv4Fields),
		IPv6Fields:      sortedCopy(lbCfg.IPv6Fields),
		TransportFields: sortedCopy(lbCfg.TransportFields),
		MPLSFields:      sortedCopy(lbCfg.MPLSFields),
	}
}

// defaultSeed derives a stable per-balancer seed from the platform MAC so
// unset seeds survive restarts without reshuffling flows.
func (a *applier) defaultSeed(id config.LoadBalancerID) uint32 {
	mac := a.platform.LocalMac()
	return crc32.ChecksumIEEE(append(mac[:], []byte(id)...))
}

func sortedCopy(fields []string) []string {
	if len(fields) == 0 {
		return nil
	}
	c := slices.Clone(fields)
	slices.Sort(c)
	return c
}
