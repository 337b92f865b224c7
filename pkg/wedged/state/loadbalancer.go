package state

import (
	"slices"

	"github.com/wedge-network/wedged/pkg/wedged/config"
)

// LoadBalancer is the state of one hardware load balancer. Field lists
// are kept sorted so equality is order-independent.
type LoadBalancer struct {
	ID              config.LoadBalancerID
	Algorithm       config.HashingAlgorithm
	Seed            uint32
	IPv4Fields      []string
	IPv6Fields      []string
	TransportFields []string
	MPLSFields      []string
}

// Equal reports whether two load balancers hold the same settings.
func (l *LoadBalancer) Equal(o *LoadBalancer) bool {
	return l.ID == o.ID &&
		l.Algorithm == o.Algorithm &&
		l.Seed == o.Seed &&
		slices.Equal(l.IPv4Fields, o.IPv4Fields) &&
		slices.Equal(l.IPv6Fields, o.IPv6Fields) &&
		slices.Equal(l.TransportFields, o.TransportFields) &&
		slices.Equal(l.MPLSFields, o.MPLSFields)
}
