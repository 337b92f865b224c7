package config

import (
	"github.com/wedge-network/wedged/pkg/util"
)

// Validate runs the structural checks that do not need the previous
// state: id uniqueness and basic ranges. Cross-entity invariants (VLAN
// bindings, address sharing, queue counts) belong to reconciliation.
func (c *SwitchConfig) Validate() error {
	var v util.ValidationBuilder

	seenPorts := make(map[int]bool)
	for _, p := range c.Ports {
		if seenPorts[p.LogicalID] {
			v.AddErrorf("port %d listed more than once", p.LogicalID)
		}
		seenPorts[p.LogicalID] = true
	}

	seenVlans := make(map[int]bool)
	for _, vlan := range c.Vlans {
		if vlan.ID < 0 || vlan.ID > 4095 {
			v.AddErrorf("vlan id %d outside [0, 4095]", vlan.ID)
		}
		if seenVlans[vlan.ID] {
			v.AddErrorf("vlan %d listed more than once", vlan.ID)
		}
		seenVlans[vlan.ID] = true
	}

	seenIntfs := make(map[int]bool)
	for _, intf := range c.Interfaces {
		if seenIntfs[intf.IntfID] {
			v.AddErrorf("interface %d listed more than once", intf.IntfID)
		}
		seenIntfs[intf.IntfID] = true
	}

	for _, collector := range c.SFlowCollectors {
		if collector.Port < 0 || collector.Port > 65535 {
			v.AddErrorf("sFlow collector %s port %d outside [0, 65535]",
				collector.IP, collector.Port)
		}
	}

	if c.DefaultVlan < 0 || c.DefaultVlan > 4095 {
		v.AddErrorf("default vlan %d outside [0, 4095]", c.DefaultVlan)
	}

	return v.Build()
}
