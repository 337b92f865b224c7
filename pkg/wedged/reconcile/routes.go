package reconcile

import (
	"github.com/wedge-network/wedged/pkg/util"
	"github.com/wedge-network/wedged/pkg/wedged/route"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// updateInterfaceRoutes converts the interface route index into
// directly-connected routes: every indexed prefix is added, every
// previously connected prefix no longer indexed is removed, and the v6
// link-local punt route follows its router's existence.
func (a *applier) updateInterfaceRoutes() (state.RouteTableMap, bool) {
	updater := route.NewUpdater(a.orig.RouteTables)

	newRouters := make(map[state.RouterID]struct{}, len(a.intfRouteTables))
	for routerID, table := range a.intfRouteTables {
		for prefix, intfAddr := range table {
			nhop := state.ResolvedNextHop(intfAddr.addr, intfAddr.intfID, state.UcmpDefaultWeight)
			updater.AddRoute(routerID, prefix.Addr(), uint8(prefix.Bits()),
				state.ClientInterfaceRoute, state.RouteNextHopEntry{
					Action:        state.RouteActionNextHops,
					AdminDistance: state.AdminDistanceDirectlyConnected,
					NextHops:      []state.NextHop{nhop},
				})
		}
		newRouters[routerID] = struct{}{}
	}

	// Walk the previous interfaces and delete connected routes whose
	// prefix is gone from the new index.
	staleRouters := make(map[state.RouterID]struct{})
	for _, intf := range a.orig.Interfaces {
		routerID := intf.RouterID
		newTable, routerAlive := a.intfRouteTables[routerID]
		if !routerAlive {
			staleRouters[routerID] = struct{}{}
		}
		for addr, mask := range intf.Addresses {
			prefix := util.MaskedPrefix(addr, mask)
			if routerAlive {
				if _, found := newTable[prefix]; found {
					continue
				}
			}
			updater.DelRoute(routerID, addr, mask, state.ClientInterfaceRoute)
		}
	}

	for routerID := range staleRouters {
		updater.DelLinkLocalRoutes(routerID)
	}
	for routerID := range newRouters {
		updater.AddLinkLocalRoutes(routerID)
	}

	return updater.Done()
}

// updateStaticRoutes hands both configs to the updater so it can diff the
// static routes at its own granularity.
func (a *applier) updateStaticRoutes(cur state.RouteTableMap) (state.RouteTableMap, bool, error) {
	updater := route.NewUpdater(cur)
	if err := updater.UpdateStaticRoutes(a.cfg, a.prevCfg); err != nil {
		return nil, false, newError(KindInvalidAddress, "%v", err)
	}
	tables, changed := updater.Done()
	return tables, changed, nil
}
