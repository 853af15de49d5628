package synth

import (
	"fmt"
	"log/slog"
	"strings"
)

// UnmatchedPolicy decides what happens to a component that survives
// cleanup but matches no rule.
type UnmatchedPolicy string

const (
	// UnmatchedFail aborts conversion with an UnmatchedComponentError.
	UnmatchedFail UnmatchedPolicy = "fail"
	// UnmatchedWarn logs the component and leaves it out of the module.
	UnmatchedWarn UnmatchedPolicy = "warn"
)

// ParseUnmatchedPolicy accepts "fail" or "warn" (case-insensitive).
func ParseUnmatchedPolicy(s string) (UnmatchedPolicy, error) {
	switch p := UnmatchedPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case UnmatchedFail, UnmatchedWarn:
		return p, nil
	}
	return "", fmt.Errorf("unknown unmatched-component policy %q (want fail or warn)", s)
}

// Part names the heuristics recognise.
const (
	CapacitorPart = "C"
	ResistorPart  = "R"
)

// Options controls a conversion.
type Options struct {
	PowerNets  []string // Nets tied to logic 1 (default: VCC)
	GroundNets []string // Nets tied to logic 0 (default: GND)
	Unmatched  UnmatchedPolicy
	Logger     *slog.Logger
}

// DefaultOptions returns the canonical settings: VCC/GND supplies and
// failing on unmatched components.
func DefaultOptions() Options {
	return Options{
		PowerNets:  []string{"VCC"},
		GroundNets: []string{"GND"},
		Unmatched:  UnmatchedFail,
	}
}

// withDefaults fills unset fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if len(o.PowerNets) == 0 {
		o.PowerNets = def.PowerNets
	}
	if len(o.GroundNets) == 0 {
		o.GroundNets = def.GroundNets
	}
	if o.Unmatched == "" {
		o.Unmatched = def.Unmatched
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// supplies is the power/ground net classification used by the heuristics.
type supplies struct {
	power  map[string]bool
	ground map[string]bool
}

func newSupplies(o Options) supplies {
	s := supplies{
		power:  make(map[string]bool, len(o.PowerNets)),
		ground: make(map[string]bool, len(o.GroundNets)),
	}
	for _, n := range o.PowerNets {
		s.power[n] = true
	}
	for _, n := range o.GroundNets {
		s.ground[n] = true
	}
	return s
}
