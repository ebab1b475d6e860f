package probes

import (
	"github.com/StockFoundry/marketbridge-go/internal/domain/session"
)

// Registry selects the probe strategy for a platform tag. The set is closed
// at construction; adding a platform means registering its prober here and
// nowhere else.
type Registry struct {
	probers map[session.Platform]Prober
}

// NewRegistry builds a registry over the given probers.
func NewRegistry(probers ...Prober) *Registry {
	m := make(map[session.Platform]Prober, len(probers))
	for _, p := range probers {
		m[p.Platform()] = p
	}
	return &Registry{probers: m}
}

// For returns the prober for platform, or (nil, false) when the platform is
// unsupported.
func (r *Registry) For(platform session.Platform) (Prober, bool) {
	p, ok := r.probers[platform]
	return p, ok
}
