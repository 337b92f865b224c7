package state

import (
	"slices"
	"testing"

	"github.com/wedge-network/wedged/pkg/wedged/config"
)

func TestParseMAC(t *testing.T) {
	mac, err := ParseMAC("02:aa:bb:cc:dd:ee")
	if err != nil {
		t.Fatalf("ParseMAC failed: %v", err)
	}
	if mac.String() != "02:aa:bb:cc:dd:ee" {
		t.Errorf("round trip = %s", mac)
	}

	if _, err := ParseMAC("not-a-mac"); err == nil {
		t.Error("garbage should fail")
	}
	// 64-bit EUI addresses parse with net.ParseMAC but are not valid here.
	if _, err := ParseMAC("02:00:00:00:00:00:00:01"); err == nil {
		t.Error("8-byte address should fail")
	}
}

func TestSubportOrdering(t *testing.T) {
	subports := []Subport{
		{PortID: 2, Priority: 5},
		{PortID: 1, Priority: 9},
		{PortID: 1, Priority: 3},
	}
	slices.SortFunc(subports, func(a, b Subport) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	if subports[0].PortID != 1 || subports[0].Priority != 3 {
		t.Errorf("sorted = %+v", subports)
	}
	if subports[2].PortID != 2 {
		t.Errorf("sorted = %+v", subports)
	}
}

func TestPortQueueEqual(t *testing.T) {
	a := NewPortQueue(1)
	b := NewPortQueue(1)
	if !a.Equal(b) {
		t.Error("fresh queues at the same index should be equal")
	}

	w := 50
	b.Weight = &w
	if a.Equal(b) {
		t.Error("weight difference should break equality")
	}

	w2 := 50
	a.Weight = &w2
	if !a.Equal(b) {
		t.Error("equal weights through different pointers should match")
	}

	a.Aqm = &config.ActiveQueueManagement{
		Detection: config.QueueCongestionDetection{
			Linear: &config.LinearQueueCongestionDetection{MinimumLength: 1, MaximumLength: 2},
		},
	}
	b.Aqm = &config.ActiveQueueManagement{
		Detection: config.QueueCongestionDetection{
			Linear: &config.LinearQueueCongestionDetection{MinimumLength: 1, MaximumLength: 2},
		},
	}
	if !a.Equal(b) {
		t.Error("identical AQM through different pointers should match")
	}
	b.Aqm.Detection.Linear.MaximumLength = 3
	if a.Equal(b) {
		t.Error("AQM threshold difference should break equality")
	}
}

func TestAclEntryEqual(t *testing.T) {
	proto := uint8(6)
	a := &AclEntry{Name: "x", Priority: 100000, ActionType: config.AclActionTypeDeny, Proto: &proto}
	proto2 := uint8(6)
	b := &AclEntry{Name: "x", Priority: 100000, ActionType: config.AclActionTypeDeny, Proto: &proto2}
	if !a.Equal(b) {
		t.Error("entries with equal fields should match")
	}

	b.Priority = 100001
	if a.Equal(b) {
		t.Error("priority difference should break equality")
	}

	b.Priority = a.Priority
	queue := &SendToQueueAction{QueueID: 2}
	b.Action = &MatchAction{SendToQueue: queue}
	if a.Equal(b) {
		t.Error("action difference should break equality")
	}
}

func TestSwitchStateCloneSharesMaps(t *testing.T) {
	s := New()
	s.Ports[1] = NewPort(1, 4)

	c := s.Clone()
	if c == s {
		t.Fatal("clone should be a new root")
	}
	if c.Ports[1] != s.Ports[1] {
		t.Error("clone should share unchanged subtrees")
	}
}
