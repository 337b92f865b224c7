// Package route implements the route table updater consumed by the
// reconciler. The updater collects add/delete calls per virtual router
// and finalizes them into a new RouteTableMap, preserving the identity of
// every route and table that did not change.
package route

import (
	"fmt"
	"net/netip"

	"github.com/wedge-network/wedged/pkg/util"
	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// linkLocalPrefix is the IPv6 link-local prefix punted to the CPU on every
// router that has interfaces.
var linkLocalPrefix = netip.MustParsePrefix("fe80::/64")

// Updater accumulates route changes against a previous RouteTableMap.
// Routers are copied on first touch; untouched routers keep their previous
// table untouched and unexamined.
type Updater struct {
	prev    state.RouteTableMap
	touched map[state.RouterID]map[netip.Prefix]*state.Route
}

// NewUpdater starts an update against prev.
func NewUpdater(prev state.RouteTableMap) *Updater {
	return &Updater{
		prev:    prev,
		touched: make(map[state.RouterID]map[netip.Prefix]*state.Route),
	}
}

func (u *Updater) table(id state.RouterID) map[netip.Prefix]*state.Route {
	tbl, ok := u.touched[id]
	if ok {
		return tbl
	}
	tbl = make(map[netip.Prefix]*state.Route)
	if prevTbl, ok := u.prev[id]; ok {
		for prefix, r := range prevTbl.Routes {
			tbl[prefix] = r
		}
	}
	u.touched[id] = tbl
	return tbl
}

// AddRoute records addr/length as a route in router id under the given
// client, replacing any previous entry from the same client.
func (u *Updater) AddRoute(id state.RouterID, addr netip.Addr, length uint8,
	client state.ClientID, entry state.RouteNextHopEntry) {

	tbl := u.table(id)
	prefix := util.MaskedPrefix(addr, length)

	if old, ok := tbl[prefix]; ok {
		if existing, ok := old.Entries[client]; ok && existing.Equal(entry) {
			return
		}
		next := cloneRoute(old)
		next.Entries[client] = entry
		tbl[prefix] = next
		return
	}

	tbl[prefix] = &state.Route{
		Prefix:  prefix,
		Entries: map[state.ClientID]state.RouteNextHopEntry{client: entry},
	}
}

// DelRoute removes the client's entry for addr/length in router id. The
// route disappears once its last entry is gone.
func (u *Updater) DelRoute(id state.RouterID, addr netip.Addr, length uint8,
	client state.ClientID) {

	tbl := u.table(id)
	prefix := util.MaskedPrefix(addr, length)

	old, ok := tbl[prefix]
	if !ok {
		return
	}
	if _, ok := old.Entries[client]; !ok {
		return
	}
	if len(old.Entries) == 1 {
		delete(tbl, prefix)
		return
	}
	next := cloneRoute(old)
	delete(next.Entries, client)
	tbl[prefix] = next
}

// AddLinkLocalRoutes installs the IPv6 link-local punt route for router id.
func (u *Updater) AddLinkLocalRoutes(id state.RouterID) {
	u.AddRoute(id, linkLocalPrefix.Addr(), uint8(linkLocalPrefix.Bits()),
		state.ClientLinkLocalRoute, state.RouteNextHopEntry{
			Action:        state.RouteActionToCPU,
			AdminDistance: state.AdminDistanceDirectlyConnected,
		})
}

// DelLinkLocalRoutes removes the IPv6 link-local punt route from router id.
func (u *Updater) DelLinkLocalRoutes(id state.RouterID) {
	u.DelRoute(id, linkLocalPrefix.Addr(), uint8(linkLocalPrefix.Bits()),
		state.ClientLinkLocalRoute)
}

// UpdateStaticRoutes replaces the previous config's static routes with the
// new config's, at static-route granularity.
func (u *Updater) UpdateStaticRoutes(cfg, prevCfg *config.SwitchConfig) error {
	if prevCfg != nil {
		for _, sr := range staticRouteList(prevCfg) {
			addr, length, err := util.ParseCIDR(sr.prefix)
			if err != nil {
				return fmt.Errorf("previous static route %q: %w", sr.prefix, err)
			}
			u.DelRoute(state.RouterID(sr.routerID), addr, length, state.ClientStaticRoute)
		}
	}
	if cfg == nil {
		return nil
	}
	for _, sr := range staticRouteList(cfg) {
		addr, length, err := util.ParseCIDR(sr.prefix)
		if err != nil {
			return fmt.Errorf("static route %q: %w", sr.prefix, err)
		}
		entry := state.RouteNextHopEntry{
			Action:        sr.action,
			AdminDistance: state.AdminDistanceStaticRoute,
		}
		for _, nh := range sr.nexthops {
			nhAddr, err := netip.ParseAddr(nh)
			if err != nil {
				return fmt.Errorf("static route %q next hop %q: %w", sr.prefix, nh, err)
			}
			entry.NextHops = append(entry.NextHops,
				state.NextHop{Addr: nhAddr, Weight: state.UcmpDefaultWeight})
		}
		u.AddRoute(state.RouterID(sr.routerID), addr, length, state.ClientStaticRoute, entry)
	}
	return nil
}

type staticRoute struct {
	routerID int
	prefix   string
	nexthops []string
	action   state.RouteAction
}

func staticRouteList(cfg *config.SwitchConfig) []staticRoute {
	var routes []staticRoute
	for _, sr := range cfg.StaticRoutesWithNhops {
		routes = append(routes, staticRoute{
			routerID: sr.RouterID,
			prefix:   sr.Prefix,
			nexthops: sr.Nexthops,
			action:   state.RouteActionNextHops,
		})
	}
	for _, sr := range cfg.StaticRoutesToNull {
		routes = append(routes, staticRoute{
			routerID: sr.RouterID,
			prefix:   sr.Prefix,
			action:   state.RouteActionDrop,
		})
	}
	for _, sr := range cfg.StaticRoutesToCPU {
		routes = append(routes, staticRoute{
			routerID: sr.RouterID,
			prefix:   sr.Prefix,
			action:   state.RouteActionToCPU,
		})
	}
	return routes
}

// Done finalizes the update. It returns the resulting RouteTableMap and
// whether anything observable changed; when nothing changed the previous
// map is returned as-is.
func (u *Updater) Done() (state.RouteTableMap, bool) {
	changed := false
	next := make(state.RouteTableMap, len(u.prev))

	for id, prevTbl := range u.prev {
		if _, ok := u.touched[id]; !ok {
			next[id] = prevTbl
		}
	}

	for id, routes := range u.touched {
		prevTbl := u.prev[id]
		if len(routes) == 0 {
			if prevTbl != nil {
				changed = true
			}
			continue
		}

		tblChanged := prevTbl == nil || len(prevTbl.Routes) != len(routes)
		final := make(map[netip.Prefix]*state.Route, len(routes))
		for prefix, r := range routes {
			if prevTbl != nil {
				if prevRoute, ok := prevTbl.Routes[prefix]; ok && prevRoute.Equal(r) {
					final[prefix] = prevRoute
					continue
				}
			}
			tblChanged = true
			final[prefix] = r
		}

		if !tblChanged {
			next[id] = prevTbl
			continue
		}
		changed = true
		next[id] = &state.RouteTable{ID: id, Routes: final}
	}

	if !changed {
		return u.prev, false
	}
	return next, true
}

func cloneRoute(r *state.Route) *state.Route {
	entries := make(map[state.ClientID]state.RouteNextHopEntry, len(r.Entries))
	for client, entry := range r.Entries {
		entries[client] = entry
	}
	return &state.Route{Prefix: r.Prefix, Entries: entries}
}
