package state

import (
	"net/netip"
	"slices"
)

// ClientID distinguishes the producers of route entries within one route.
type ClientID int

const (
	ClientBGP            ClientID = 0
	ClientStaticRoute    ClientID = 1
	ClientInterfaceRoute ClientID = 2
	ClientLinkLocalRoute ClientID = 3
)

// AdminDistance ranks route entries from different clients; lower wins.
type AdminDistance int

const (
	AdminDistanceDirectlyConnected AdminDistance = 0
	AdminDistanceStaticRoute       AdminDistance = 1
	AdminDistanceEBGP              AdminDistance = 20
	AdminDistanceIBGP              AdminDistance = 200
	AdminDistanceMax               AdminDistance = 255
)

// RouteAction is what the forwarding plane does with matched packets.
type RouteAction int

const (
	RouteActionNextHops RouteAction = iota
	RouteActionDrop
	RouteActionToCPU
)

// UcmpDefaultWeight is the next-hop weight used when UCMP is not in play.
const UcmpDefaultWeight uint32 = 0

// NextHop is one next hop of a route. Resolved next hops carry the egress
// interface.
type NextHop struct {
	Addr   netip.Addr
	IntfID *InterfaceID
	Weight uint32
}

// ResolvedNextHop builds a next hop pinned to an interface.
func ResolvedNextHop(addr netip.Addr, intf InterfaceID, weight uint32) NextHop {
	id := intf
	return NextHop{Addr: addr, IntfID: &id, Weight: weight}
}

// Equal reports whether two next hops are the same.
func (n NextHop) Equal(o NextHop) bool {
	return n.Addr == o.Addr && n.Weight == o.Weight && equalPtr(n.IntfID, o.IntfID)
}

// RouteNextHopEntry is one client's contribution to a route.
type RouteNextHopEntry struct {
	Action        RouteAction
	AdminDistance AdminDistance
	NextHops      []NextHop
}

// Equal reports whether two entries are the same.
func (e RouteNextHopEntry) Equal(o RouteNextHopEntry) bool {
	return e.Action == o.Action &&
		e.AdminDistance == o.AdminDistance &&
		slices.EqualFunc(e.NextHops, o.NextHops, NextHop.Equal)
}

// Route is one prefix with the per-client entries contributing to it.
type Route struct {
	Prefix  netip.Prefix
	Entries map[ClientID]RouteNextHopEntry
}

// Equal reports whether two routes carry identical per-client entries.
func (r *Route) Equal(o *Route) bool {
	if r.Prefix != o.Prefix || len(r.Entries) != len(o.Entries) {
		return false
	}
	for client, entry := range r.Entries {
		other, ok := o.Entries[client]
		if !ok || !entry.Equal(other) {
			return false
		}
	}
	return true
}

// BestEntry returns the lowest-admin-distance entry and its client, or
// false when the route has no entries.
func (r *Route) BestEntry() (ClientID, RouteNextHopEntry, bool) {
	best := AdminDistanceMax + 1
	var bestClient ClientID
	var bestEntry RouteNextHopEntry
	found := false
	for client, entry := range r.Entries {
		if entry.AdminDistance < best || (entry.AdminDistance == best && client < bestClient) {
			best = entry.AdminDistance
			bestClient = client
			bestEntry = entry
			found = true
		}
	}
	return bestClient, bestEntry, found
}

// RouteTable is the route table of one virtual router, keyed by masked
// prefix.
type RouteTable struct {
	ID     RouterID
	Routes map[netip.Prefix]*Route
}

// RouteTableMap maps router ids to their tables.
type RouteTableMap map[RouterID]*RouteTable
