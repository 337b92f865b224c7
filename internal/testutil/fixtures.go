// Package testutil provides shared fixtures for reconciliation tests.
package testutil

import (
	"github.com/wedge-network/wedged/pkg/wedged/platform"
	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// Ptr returns a pointer to v, for filling optional config fields.
func Ptr[T any](v T) *T {
	return &v
}

// LocalMac is the platform MAC used by test fixtures.
var LocalMac = state.MAC{0x02, 0x01, 0x02, 0x03, 0x04, 0x05}

// NewPlatform returns a small fixed platform: four ports with four queues
// each.
func NewPlatform() *platform.Fixed {
	return &platform.Fixed{
		Mac:           LocalMac,
		PortIDs:       []state.PortID{1, 2, 3, 4},
		QueuesPerPort: 4,
	}
}

// SeedState returns the initial state for NewPlatform.
func SeedState() *state.SwitchState {
	return NewPlatform().SeedState()
}
