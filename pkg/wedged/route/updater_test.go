package route

import (
	"net/netip"
	"testing"

	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

func connectedEntry(nexthop string, intf state.InterfaceID) state.RouteNextHopEntry {
	return state.RouteNextHopEntry{
		Action:        state.RouteActionNextHops,
		AdminDistance: state.AdminDistanceDirectlyConnected,
		NextHops: []state.NextHop{
			state.ResolvedNextHop(netip.MustParseAddr(nexthop), intf, state.UcmpDefaultWeight),
		},
	}
}

func TestUpdaterAddRoute(t *testing.T) {
	u := NewUpdater(nil)
	u.AddRoute(0, netip.MustParseAddr("10.0.10.1"), 24,
		state.ClientInterfaceRoute, connectedEntry("10.0.10.1", 100))

	tables, changed := u.Done()
	if !changed {
		t.Fatal("adding a route should report a change")
	}
	r := tables[0].Routes[netip.MustParsePrefix("10.0.10.0/24")]
	if r == nil {
		t.Fatalf("route missing: %v", tables[0].Routes)
	}
	entry := r.Entries[state.ClientInterfaceRoute]
	if entry.NextHops[0].Addr != netip.MustParseAddr("10.0.10.1") {
		t.Errorf("next hop = %+v", entry.NextHops)
	}
}

func TestUpdaterNoChangeKeepsIdentity(t *testing.T) {
	u := NewUpdater(nil)
	u.AddRoute(0, netip.MustParseAddr("10.0.10.1"), 24,
		state.ClientInterfaceRoute, connectedEntry("10.0.10.1", 100))
	prev, _ := u.Done()

	u2 := NewUpdater(prev)
	u2.AddRoute(0, netip.MustParseAddr("10.0.10.1"), 24,
		state.ClientInterfaceRoute, connectedEntry("10.0.10.1", 100))
	next, changed := u2.Done()
	if changed {
		t.Error("identical update should report no change")
	}
	if next[0] != prev[0] {
		t.Error("unchanged table should keep identity")
	}
}

func TestUpdaterDelRoute(t *testing.T) {
	u := NewUpdater(nil)
	u.AddRoute(0, netip.MustParseAddr("10.0.10.1"), 24,
		state.ClientInterfaceRoute, connectedEntry("10.0.10.1", 100))
	u.AddRoute(0, netip.MustParseAddr("10.0.20.1"), 24,
		state.ClientInterfaceRoute, connectedEntry("10.0.20.1", 101))
	prev, _ := u.Done()

	u2 := NewUpdater(prev)
	u2.DelRoute(0, netip.MustParseAddr("10.0.20.1"), 24, state.ClientInterfaceRoute)
	next, changed := u2.Done()
	if !changed {
		t.Fatal("deleting a route should report a change")
	}
	if _, ok := next[0].Routes[netip.MustParsePrefix("10.0.20.0/24")]; ok {
		t.Error("deleted route still present")
	}
	if next[0].Routes[netip.MustParsePrefix("10.0.10.0/24")] !=
		prev[0].Routes[netip.MustParsePrefix("10.0.10.0/24")] {
		t.Error("surviving route should keep identity")
	}

	// Removing the last route removes the table.
	u3 := NewUpdater(next)
	u3.DelRoute(0, netip.MustParseAddr("10.0.10.1"), 24, state.ClientInterfaceRoute)
	final, changed := u3.Done()
	if !changed {
		t.Fatal("emptying a table should report a change")
	}
	if _, ok := final[0]; ok {
		t.Error("empty table should be dropped")
	}
}

func TestUpdaterDelRouteKeepsOtherClients(t *testing.T) {
	u := NewUpdater(nil)
	u.AddRoute(0, netip.MustParseAddr("10.0.10.1"), 24,
		state.ClientInterfaceRoute, connectedEntry("10.0.10.1", 100))
	u.AddRoute(0, netip.MustParseAddr("10.0.10.0"), 24,
		state.ClientStaticRoute, state.RouteNextHopEntry{
			Action:        state.RouteActionDrop,
			AdminDistance: state.AdminDistanceStaticRoute,
		})
	prev, _ := u.Done()

	u2 := NewUpdater(prev)
	u2.DelRoute(0, netip.MustParseAddr("10.0.10.1"), 24, state.ClientInterfaceRoute)
	next, _ := u2.Done()

	r := next[0].Routes[netip.MustParsePrefix("10.0.10.0/24")]
	if r == nil {
		t.Fatal("route with a surviving client should remain")
	}
	if _, ok := r.Entries[state.ClientStaticRoute]; !ok {
		t.Error("static entry should survive")
	}
	if _, ok := r.Entries[state.ClientInterfaceRoute]; ok {
		t.Error("interface entry should be gone")
	}
}

func TestUpdaterLinkLocalRoutes(t *testing.T) {
	u := NewUpdater(nil)
	u.AddLinkLocalRoutes(5)
	tables, changed := u.Done()
	if !changed {
		t.Fatal("expected change")
	}
	r := tables[5].Routes[netip.MustParsePrefix("fe80::/64")]
	if r == nil {
		t.Fatal("link-local route missing")
	}
	if entry := r.Entries[state.ClientLinkLocalRoute]; entry.Action != state.RouteActionToCPU {
		t.Errorf("action = %v, want punt to CPU", entry.Action)
	}

	u2 := NewUpdater(tables)
	u2.DelLinkLocalRoutes(5)
	next, changed := u2.Done()
	if !changed {
		t.Fatal("expected change")
	}
	if _, ok := next[5]; ok {
		t.Error("router 5 should be gone")
	}
}

func TestUpdaterStaticRoutes(t *testing.T) {
	cfg := &config.SwitchConfig{
		StaticRoutesWithNhops: []config.StaticRouteWithNextHops{
			{RouterID: 0, Prefix: "0.0.0.0/0", Nexthops: []string{"10.0.0.254"}},
		},
		StaticRoutesToNull: []config.StaticRouteNoNextHops{
			{RouterID: 0, Prefix: "192.0.2.0/24"},
		},
		StaticRoutesToCPU: []config.StaticRouteNoNextHops{
			{RouterID: 0, Prefix: "198.51.100.0/24"},
		},
	}

	u := NewUpdater(nil)
	if err := u.UpdateStaticRoutes(cfg, nil); err != nil {
		t.Fatalf("UpdateStaticRoutes failed: %v", err)
	}
	tables, _ := u.Done()

	defaultRoute := tables[0].Routes[netip.MustParsePrefix("0.0.0.0/0")]
	entry := defaultRoute.Entries[state.ClientStaticRoute]
	if entry.AdminDistance != state.AdminDistanceStaticRoute ||
		entry.NextHops[0].Addr != netip.MustParseAddr("10.0.0.254") {
		t.Errorf("default route entry = %+v", entry)
	}
	if e := tables[0].Routes[netip.MustParsePrefix("192.0.2.0/24")].Entries[state.ClientStaticRoute]; e.Action != state.RouteActionDrop {
		t.Errorf("null route action = %v", e.Action)
	}
	if e := tables[0].Routes[netip.MustParsePrefix("198.51.100.0/24")].Entries[state.ClientStaticRoute]; e.Action != state.RouteActionToCPU {
		t.Errorf("cpu route action = %v", e.Action)
	}

	// Swapping configs drops the old routes.
	cfg2 := &config.SwitchConfig{
		StaticRoutesWithNhops: []config.StaticRouteWithNextHops{
			{RouterID: 0, Prefix: "0.0.0.0/0", Nexthops: []string{"10.0.0.254"}},
		},
	}
	u2 := NewUpdater(tables)
	if err := u2.UpdateStaticRoutes(cfg2, cfg); err != nil {
		t.Fatalf("UpdateStaticRoutes failed: %v", err)
	}
	next, changed := u2.Done()
	if !changed {
		t.Fatal("expected change")
	}
	if len(next[0].Routes) != 1 {
		t.Errorf("routes = %v", next[0].Routes)
	}
	if next[0].Routes[netip.MustParsePrefix("0.0.0.0/0")] !=
		tables[0].Routes[netip.MustParsePrefix("0.0.0.0/0")] {
		t.Error("surviving static route should keep identity")
	}
}

func TestUpdaterStaticRouteParseError(t *testing.T) {
	cfg := &config.SwitchConfig{
		StaticRoutesWithNhops: []config.StaticRouteWithNextHops{
			{RouterID: 0, Prefix: "not-a-prefix", Nexthops: []string{"10.0.0.254"}},
		},
	}
	u := NewUpdater(nil)
	if err := u.UpdateStaticRoutes(cfg, nil); err == nil {
		t.Fatal("expected parse error")
	}
}
