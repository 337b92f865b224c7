package state

import "github.com/wedge-network/wedged/pkg/wedged/config"

// DefaultSystemPriority is the LACP system priority used when the config
// does not override the system identity.
const DefaultSystemPriority uint16 = 65535

// Subport is one member of a LAG together with its LACP parameters.
// Subports order by (port, priority, rate, activity).
type Subport struct {
	PortID   PortID
	Priority uint16
	Rate     config.LacpPortRate
	Activity config.LacpActivity
}

// Less defines the total order used for the sorted subport list.
func (s Subport) Less(o Subport) bool {
	if s.PortID != o.PortID {
		return s.PortID < o.PortID
	}
	if s.Priority != o.Priority {
		return s.Priority < o.Priority
	}
	if s.Rate != o.Rate {
		return s.Rate < o.Rate
	}
	return s.Activity < o.Activity
}

// AggregatePort is the state of one link aggregation group. Subports is
// kept sorted.
type AggregatePort struct {
	ID               AggregatePortID
	Name             string
	Description      string
	SystemID         MAC
	SystemPriority   uint16
	MinimumLinkCount uint8
	Subports         []Subport
}

// SubportsEqual reports whether the LAG's sorted subports equal subports.
func (a *AggregatePort) SubportsEqual(subports []Subport) bool {
	if len(a.Subports) != len(subports) {
		return false
	}
	for i := range subports {
		if a.Subports[i] != subports[i] {
			return false
		}
	}
	return true
}
