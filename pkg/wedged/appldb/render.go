package appldb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wedge-network/wedged/pkg/wedged/config"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// Render flattens a SwitchState into an applied-state snapshot. Rendering
// the same state twice yields equal snapshots, so publishes are
// reproducible.
func Render(s *state.SwitchState) Snapshot {
	snap := make(Snapshot)

	for _, port := range s.Ports {
		snap.add("PORT", portKey(port), Fields{
			"admin_status": adminStatus(port.AdminState),
			"speed":        string(port.Speed),
			"fec":          strings.ToLower(string(port.FEC)),
			"ingress_vlan": strconv.Itoa(int(port.IngressVlan)),
			"description":  port.Description,
		})
	}

	for _, agg := range s.AggregatePorts {
		snap.add("LAG", agg.Name, Fields{
			"min_links":       strconv.Itoa(int(agg.MinimumLinkCount)),
			"system_id":       agg.SystemID.String(),
			"system_priority": strconv.Itoa(int(agg.SystemPriority)),
		})
		for _, sub := range agg.Subports {
			snap.add("LAG_MEMBER",
				fmt.Sprintf("%s|Ethernet%d", agg.Name, sub.PortID), Fields{
					"priority": strconv.Itoa(int(sub.Priority)),
					"rate":     strings.ToLower(string(sub.Rate)),
					"activity": strings.ToLower(string(sub.Activity)),
				})
		}
	}

	for _, vlan := range s.Vlans {
		snap.add("VLAN", vlanKey(vlan.ID), Fields{
			"vlanid": strconv.Itoa(int(vlan.ID)),
			"name":   vlan.Name,
			"intf":   strconv.Itoa(int(vlan.InterfaceID)),
		})
		for portID, info := range vlan.Ports {
			mode := "untagged"
			if info.Tagged {
				mode = "tagged"
			}
			snap.add("VLAN_MEMBER",
				fmt.Sprintf("%s|Ethernet%d", vlanKey(vlan.ID), portID),
				Fields{"tagging_mode": mode})
		}
		for addr, entry := range vlan.ArpResponseTable {
			addNeigh(snap, vlan.ID, addr.String(), entry, "IPv4")
		}
		for addr, entry := range vlan.NdpResponseTable {
			addNeigh(snap, vlan.ID, addr.String(), entry, "IPv6")
		}
	}

	for _, intf := range s.Interfaces {
		for addr, mask := range intf.Addresses {
			snap.add("INTF", fmt.Sprintf("%s|%s/%d", intf.Name, addr, mask), Fields{})
		}
	}

	for _, acl := range s.Acls {
		action := "FORWARD"
		if acl.ActionType == config.AclActionTypeDeny {
			action = "DROP"
		}
		snap.add("ACL_RULE", "EGRESS|"+acl.Name, Fields{
			"PRIORITY":      strconv.Itoa(acl.Priority),
			"PACKET_ACTION": action,
		})
	}

	for id, table := range s.RouteTables {
		for prefix, r := range table.Routes {
			_, entry, ok := r.BestEntry()
			if !ok {
				continue
			}
			fields := Fields{}
			switch entry.Action {
			case state.RouteActionDrop:
				fields["blackhole"] = "true"
			case state.RouteActionToCPU:
				fields["nexthop"] = "cpu"
			default:
				var nhops []string
				for _, nh := range entry.NextHops {
					nhops = append(nhops, nh.Addr.String())
				}
				fields["nexthop"] = strings.Join(nhops, ",")
			}
			snap.add("ROUTE_TABLE", fmt.Sprintf("%d|%s", id, prefix), fields)
		}
	}

	for _, collector := range s.SflowCollectors {
		snap.add("SFLOW_COLLECTOR", collector.ID, Fields{
			"collector_ip":   collector.IP.String(),
			"collector_port": strconv.Itoa(int(collector.Port)),
		})
	}

	return snap
}

func portKey(port *state.Port) string {
	if port.Name != "" {
		return port.Name
	}
	return fmt.Sprintf("Ethernet%d", port.ID)
}

func vlanKey(id state.VlanID) string {
	return fmt.Sprintf("Vlan%d", id)
}

func adminStatus(s config.PortState) string {
	if s == config.PortStateEnabled {
		return "up"
	}
	return "down"
}

func addNeigh(snap Snapshot, vlan state.VlanID, addr string, entry state.NeighborResponseEntry, family string) {
	snap.add("NEIGH", vlanKey(vlan)+"|"+addr, Fields{
		"neigh":  entry.Mac.String(),
		"family": family,
		"intf":   strconv.Itoa(int(entry.InterfaceID)),
	})
}
