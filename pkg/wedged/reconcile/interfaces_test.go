package reconcile

import (
	"net/netip"
	"testing"

	"github.com/wedge-network/wedged/internal/testutil"
	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

func intfConfig(intfs ...config.Interface) *config.SwitchConfig {
	cfg := &config.SwitchConfig{
		Vlans:      []config.Vlan{{ID: 10, Name: "blue"}, {ID: 20, Name: "green"}},
		Interfaces: intfs,
	}
	return cfg
}

func TestInterfaceLinkLocalAutoAssignment(t *testing.T) {
	cfg := intfConfig(config.Interface{
		IntfID: 100, RouterID: 0, VlanID: 10,
		Mac:         testutil.Ptr("02:01:02:03:04:05"),
		IPAddresses: []string{"10.0.10.1/24"},
	})
	s1 := mustApply(t, testutil.SeedState(), cfg, nil)

	intf := s1.Interfaces[100]
	wantLL := netip.MustParseAddr("fe80::1:2ff:fe03:405")
	mask, ok := intf.Addresses[wantLL]
	if !ok {
		t.Fatalf("link-local %s missing from %v", wantLL, intf.Addresses)
	}
	if mask != 64 {
		t.Errorf("link-local mask = %d, want 64", mask)
	}

	llCount := 0
	for addr := range intf.Addresses {
		if addr.Is6() && addr.IsLinkLocalUnicast() {
			llCount++
		}
	}
	if llCount != 1 {
		t.Errorf("interface has %d link-locals, want 1", llCount)
	}

	// The link-local never reaches the route tables.
	for _, table := range s1.RouteTables {
		for prefix, r := range table.Routes {
			if prefix.Addr().Is6() && prefix.Addr().IsLinkLocalUnicast() {
				if _, ok := r.Entries[state.ClientInterfaceRoute]; ok {
					t.Errorf("link-local %s programmed as interface route", prefix)
				}
			}
		}
	}
}

func TestInterfaceDefaults(t *testing.T) {
	cfg := intfConfig(config.Interface{IntfID: 100, RouterID: 0, VlanID: 10})
	s1 := mustApply(t, testutil.SeedState(), cfg, nil)

	intf := s1.Interfaces[100]
	if intf.Name != "Interface 100" {
		t.Errorf("name = %q", intf.Name)
	}
	if intf.Mac != testutil.LocalMac {
		t.Errorf("mac = %s, want platform MAC", intf.Mac)
	}
	if intf.Mtu != state.DefaultMtu {
		t.Errorf("mtu = %d, want %d", intf.Mtu, state.DefaultMtu)
	}
}

func TestInterfaceDuplicateAddress(t *testing.T) {
	cfg := intfConfig(config.Interface{
		IntfID: 100, RouterID: 0, VlanID: 10,
		Mac:         testutil.Ptr("02:00:00:00:01:00"),
		IPAddresses: []string{"10.0.10.1/24", "10.0.10.1/25"},
	})
	_, err := Apply(testutil.SeedState(), cfg, testutil.NewPlatform(), nil)
	wantKind(t, err, KindDuplicateInterfaceAddress)
}

func TestInterfaceDuplicateNetwork(t *testing.T) {
	cfg := intfConfig(
		config.Interface{IntfID: 100, RouterID: 0, VlanID: 10,
			Mac: testutil.Ptr("02:00:00:00:01:00"), IPAddresses: []string{"10.0.10.1/24"}},
		config.Interface{IntfID: 101, RouterID: 0, VlanID: 20,
			Mac: testutil.Ptr("02:00:00:00:01:01"), IPAddresses: []string{"10.0.10.2/24"}},
	)
	_, err := Apply(testutil.SeedState(), cfg, testutil.NewPlatform(), nil)
	wantKind(t, err, KindDuplicateNetwork)
}

// The same prefix listed twice on one interface keeps the last occurrence.
func TestInterfaceRepeatedPrefixLastWins(t *testing.T) {
	cfg := intfConfig(config.Interface{
		IntfID: 100, RouterID: 0, VlanID: 10,
		Mac:         testutil.Ptr("02:00:00:00:01:00"),
		IPAddresses: []string{"10.0.10.1/24", "10.0.10.7/24"},
	})
	s1 := mustApply(t, testutil.SeedState(), cfg, nil)

	r := s1.RouteTables[0].Routes[netip.MustParsePrefix("10.0.10.0/24")]
	if r == nil {
		t.Fatal("connected route missing")
	}
	entry := r.Entries[state.ClientInterfaceRoute]
	if len(entry.NextHops) != 1 || entry.NextHops[0].Addr != netip.MustParseAddr("10.0.10.7") {
		t.Errorf("next hop = %+v, want last occurrence 10.0.10.7", entry.NextHops)
	}
}

func TestInterfaceRoutesRoundTrip(t *testing.T) {
	cfg := intfConfig(
		config.Interface{IntfID: 100, RouterID: 0, VlanID: 10,
			Mac: testutil.Ptr("02:00:00:00:01:00"), IPAddresses: []string{"10.0.10.1/24"}},
		config.Interface{IntfID: 101, RouterID: 1, VlanID: 20,
			Mac: testutil.Ptr("02:00:00:00:01:01"), IPAddresses: []string{"192.168.0.1/30"}},
	)
	s1 := mustApply(t, testutil.SeedState(), cfg, nil)

	// Every non-link-local address has its connected route.
	for _, intf := range s1.Interfaces {
		for addr, mask := range intf.Addresses {
			if addr.Is6() && addr.IsLinkLocalUnicast() {
				continue
			}
			table := s1.RouteTables[intf.RouterID]
			if table == nil {
				t.Fatalf("no route table for router %d", intf.RouterID)
			}
			prefix := netip.PrefixFrom(addr, int(mask)).Masked()
			r := table.Routes[prefix]
			if r == nil {
				t.Fatalf("connected route %s missing in router %d", prefix, intf.RouterID)
			}
			entry, ok := r.Entries[state.ClientInterfaceRoute]
			if !ok {
				t.Fatalf("route %s lacks interface-route entry", prefix)
			}
			if entry.AdminDistance != state.AdminDistanceDirectlyConnected {
				t.Errorf("route %s admin distance = %d", prefix, entry.AdminDistance)
			}
		}
	}

	// Each live router carries the v6 link-local punt route.
	for _, id := range []state.RouterID{0, 1} {
		r := s1.RouteTables[id].Routes[netip.MustParsePrefix("fe80::/64")]
		if r == nil {
			t.Fatalf("router %d missing fe80::/64", id)
		}
		if entry := r.Entries[state.ClientLinkLocalRoute]; entry.Action != state.RouteActionToCPU {
			t.Errorf("fe80::/64 action = %v, want punt", entry.Action)
		}
	}

	// Dropping the second interface removes its routes and its router.
	cfg2 := intfConfig(
		config.Interface{IntfID: 100, RouterID: 0, VlanID: 10,
			Mac: testutil.Ptr("02:00:00:00:01:00"), IPAddresses: []string{"10.0.10.1/24"}},
	)
	s2 := mustApply(t, s1, cfg2, cfg)
	if _, ok := s2.RouteTables[1]; ok {
		t.Error("router 1 should be gone once its last interface is removed")
	}
}

func TestInterfaceNdpConfig(t *testing.T) {
	ndp := &config.NdpConfig{
		RouterAdvertisementSeconds: 4,
		CurHopLimit:                64,
		RouterLifetime:             1800,
	}
	cfg := intfConfig(config.Interface{
		IntfID: 100, RouterID: 0, VlanID: 10,
		Mac: testutil.Ptr("02:00:00:00:01:00"), Ndp: ndp,
	})
	s1 := mustApply(t, testutil.SeedState(), cfg, nil)
	if got := s1.Interfaces[100].Ndp; got.RouterAdvertisementSeconds != 4 || got.CurHopLimit != 64 {
		t.Errorf("ndp = %+v", got)
	}

	// Clearing the NDP config is a change.
	cfg2 := intfConfig(config.Interface{
		IntfID: 100, RouterID: 0, VlanID: 10,
		Mac: testutil.Ptr("02:00:00:00:01:00"),
	})
	s2 := mustApply(t, s1, cfg2, cfg)
	if s2.Interfaces[100] == s1.Interfaces[100] {
		t.Error("interface should be a new node after NDP change")
	}
}
