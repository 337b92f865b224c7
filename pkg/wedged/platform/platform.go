// Package platform abstracts the few hardware capabilities the
// reconciler needs: the box MAC for derived defaults, and the port
// inventory used to seed the first state.
package platform

import (
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// Platform supplies hardware-derived defaults to the reconciler.
type Platform interface {
	// LocalMac returns the switch's base MAC address.
	LocalMac() state.MAC
}

// Fixed is a Platform described entirely by static values, as read from
// CLI flags or a capability file.
type Fixed struct {
	Mac           state.MAC
	PortIDs       []state.PortID
	QueuesPerPort int
}

// LocalMac returns the configured base MAC.
func (f *Fixed) LocalMac() state.MAC {
	return f.Mac
}

// SeedState builds the initial SwitchState for this platform: every
// inventory port present and disabled, with the platform's queue count.
// Configuration can reshape these ports but never create or destroy them.
func (f *Fixed) SeedState() *state.SwitchState {
	s := state.New()
	for _, id := range f.PortIDs {
		s.Ports[id] = state.NewPort(id, f.QueuesPerPort)
	}
	return s
}
