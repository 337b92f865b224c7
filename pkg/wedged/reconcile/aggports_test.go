package reconcile

import (
	"testing"

	"github.com/wedge-network/wedged/internal/testutil"
	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

func lagConfig(min config.MinimumCapacity, members ...config.AggregatePortMember) *config.SwitchConfig {
	return &config.SwitchConfig{
		AggregatePorts: []config.AggregatePort{
			{Key: 1, Name: "po1", MemberPorts: members, MinimumCapacity: min},
		},
	}
}

func member(port, priority int) config.AggregatePortMember {
	return config.AggregatePortMember{
		MemberPortID: port,
		Priority:     priority,
		Rate:         config.LacpPortRateFast,
		Activity:     config.LacpActivityActive,
	}
}

func TestAggPortSortedSubports(t *testing.T) {
	cfg := lagConfig(config.MinimumCapacity{LinkCount: testutil.Ptr(1)},
		member(4, 10), member(2, 10), member(3, 5))
	s1 := mustApply(t, testutil.SeedState(), cfg, nil)

	agg := s1.AggregatePorts[1]
	want := []state.PortID{2, 3, 4}
	for i, sub := range agg.Subports {
		if sub.PortID != want[i] {
			t.Fatalf("subports not sorted: %+v", agg.Subports)
		}
	}
}

func TestAggPortSystemIdDefaults(t *testing.T) {
	cfg := lagConfig(config.MinimumCapacity{LinkCount: testutil.Ptr(1)}, member(3, 1))
	s1 := mustApply(t, testutil.SeedState(), cfg, nil)

	agg := s1.AggregatePorts[1]
	if agg.SystemID != testutil.LocalMac {
		t.Errorf("system id = %s, want platform MAC %s", agg.SystemID, testutil.LocalMac)
	}
	if agg.SystemPriority != state.DefaultSystemPriority {
		t.Errorf("system priority = %d, want %d", agg.SystemPriority, state.DefaultSystemPriority)
	}
}

func TestAggPortSystemIdOverride(t *testing.T) {
	cfg := lagConfig(config.MinimumCapacity{LinkCount: testutil.Ptr(1)}, member(3, 1))
	cfg.Lacp = &config.Lacp{SystemID: "02:aa:bb:cc:dd:ee", SystemPriority: 4096}
	s1 := mustApply(t, testutil.SeedState(), cfg, nil)

	agg := s1.AggregatePorts[1]
	wantMac, _ := state.ParseMAC("02:aa:bb:cc:dd:ee")
	if agg.SystemID != wantMac || agg.SystemPriority != 4096 {
		t.Errorf("system id = %s/%d", agg.SystemID, agg.SystemPriority)
	}
}

func TestAggPortMinimumLinkCount(t *testing.T) {
	tests := []struct {
		name    string
		min     config.MinimumCapacity
		members int
		want    uint8
		wantErr bool
	}{
		{"absolute", config.MinimumCapacity{LinkCount: testutil.Ptr(2)}, 3, 2, false},
		{"fraction rounds up", config.MinimumCapacity{LinkPercentage: testutil.Ptr(0.5)}, 3, 2, false},
		{"fraction full", config.MinimumCapacity{LinkPercentage: testutil.Ptr(1.0)}, 3, 3, false},
		{"count below one", config.MinimumCapacity{LinkCount: testutil.Ptr(0)}, 3, 0, true},
		{"fraction above one", config.MinimumCapacity{LinkPercentage: testutil.Ptr(1.5)}, 3, 0, true},
		{"fraction zero", config.MinimumCapacity{LinkPercentage: testutil.Ptr(0.0)}, 3, 0, true},
		{"neither variant", config.MinimumCapacity{}, 3, 0, true},
		{"both variants", config.MinimumCapacity{
			LinkCount: testutil.Ptr(1), LinkPercentage: testutil.Ptr(0.5)}, 3, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := make([]config.AggregatePortMember, 0, tt.members)
			for i := 0; i < tt.members; i++ {
				members = append(members, member(i+2, 1))
			}
			cfg := lagConfig(tt.min, members...)
			s1, err := Apply(testutil.SeedState(), cfg, testutil.NewPlatform(), nil)
			if tt.wantErr {
				wantKind(t, err, KindInvalidMinCapacity)
				return
			}
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if got := s1.AggregatePorts[1].MinimumLinkCount; got != tt.want {
				t.Errorf("min link count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAggPortSubportPriorityRange(t *testing.T) {
	cfg := lagConfig(config.MinimumCapacity{LinkCount: testutil.Ptr(1)}, member(3, 1<<16))
	_, err := Apply(testutil.SeedState(), cfg, testutil.NewPlatform(), nil)
	wantKind(t, err, KindSubportPriorityOutOfRange)
}

func TestAggPortImplicitDelete(t *testing.T) {
	cfg := lagConfig(config.MinimumCapacity{LinkCount: testutil.Ptr(1)}, member(3, 1))
	s1 := mustApply(t, testutil.SeedState(), cfg, nil)
	if len(s1.AggregatePorts) != 1 {
		t.Fatalf("aggregate ports = %d", len(s1.AggregatePorts))
	}

	s2 := mustApply(t, s1, &config.SwitchConfig{}, cfg)
	if len(s2.AggregatePorts) != 0 {
		t.Errorf("removed LAG still present: %v", s2.AggregatePorts)
	}
}
