// Package device exposes what the pipeline needs to know about the local
// device: which phone numbers belong to it and which SIM slot, if any,
// incoming traffic is routed through.
package device

// Provider enumerates the device's own identities.
type Provider interface {
	// MyPossibleNumbers returns every number that may identify this device.
	// Multi-SIM devices return one entry per SIM.
	MyPossibleNumbers() []string
	// SimPhoneNumber returns the routing number of the active SIM slot, or
	// nil when the device has no enumerable SIM slots.
	SimPhoneNumber() *string
}

// StaticProvider is a Provider backed by configuration.
type StaticProvider struct {
	Numbers []string
	Sims    []string
}

// NewStaticProvider builds a provider from configured device and SIM numbers.
func NewStaticProvider(numbers, sims []string) *StaticProvider {
	return &StaticProvider{Numbers: numbers, Sims: sims}
}

// MyPossibleNumbers returns the configured device numbers.
func (p *StaticProvider) MyPossibleNumbers() []string {
	return p.Numbers
}

// SimPhoneNumber returns the first configured SIM number, or nil when the
// device reports no SIM slots.
func (p *StaticProvider) SimPhoneNumber() *string {
	if len(p.Sims) == 0 {
		return nil
	}
	return &p.Sims[0]
}
