package state

// ControlPlane holds CPU port settings: CPU queues and the mapping from
// trap reason to queue. Reconciliation of this node is not wired up yet;
// the node exists so downstream consumers have a stable place to look.
type ControlPlane struct {
	Queues          []*PortQueue
	RxReasonToQueue map[string]int
}

// NewControlPlane returns an empty control plane node.
func NewControlPlane() *ControlPlane {
	return &ControlPlane{}
}
