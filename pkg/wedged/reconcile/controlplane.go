package reconcile

import "github.com/wedge-network/wedged/pkg/wedged/state"

// updateControlPlane is a stub: CPU queue settings and the trap
// reason-to-queue mapping are not reconciled from config yet, so it never
// reports a change.
// TODO: reconcile ControlPlane.Queues once the config schema grows a
// cpuQueues section.
func (a *applier) updateControlPlane() *state.ControlPlane {
	return nil
}
