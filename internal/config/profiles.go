package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/production-optimizer/internal/model"
	"github.com/iwvelando/production-optimizer/pkg/constants"
)

// CapacityRange bounds the values a capacity control accepts.
type CapacityRange struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step"`
}

// Contains reports whether v lies inside the range.
func (r CapacityRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// OnGrid reports whether v is Min plus a whole number of steps.
func (r CapacityRange) OnGrid(v float64) bool {
	if r.Step <= 0 {
		return true
	}
	steps := (v - r.Min) / r.Step
	return steps == float64(int64(steps))
}

// Profile is a named set of capacity ranges.
type Profile struct {
	Name  string        `json:"name" yaml:"name"`
	Water CapacityRange `json:"water" yaml:"water"`
	Sugar CapacityRange `json:"sugar" yaml:"sugar"`
	Labor CapacityRange `json:"labor" yaml:"labor"`
}

// Range returns the capacity range of resource r.
func (p Profile) Range(r model.Resource) CapacityRange {
	switch r {
	case model.Water:
		return p.Water
	case model.Sugar:
		return p.Sugar
	default:
		return p.Labor
	}
}

var profiles = map[string]Profile{
	constants.ProfileStandard: {
		Name:  constants.ProfileStandard,
		Water: CapacityRange{Min: 5000, Max: 50000, Step: 1000},
		Sugar: CapacityRange{Min: 1000, Max: 10000, Step: 100},
		Labor: CapacityRange{Min: 100, Max: 5000, Step: 100},
	},
	constants.ProfileExtended: {
		Name:  constants.ProfileExtended,
		Water: CapacityRange{Min: 1000, Max: 50000, Step: 1000},
		Sugar: CapacityRange{Min: 500, Max: 10000, Step: 100},
		Labor: CapacityRange{Min: 60, Max: 5000, Step: 10},
	},
}

// LookupProfile returns the named capacity profile.
func LookupProfile(name string) (Profile, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = constants.ProfileStandard
	}
	p, ok := profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("unknown capacity profile %q (valid: %s)", name, strings.Join(ProfileNames(), ", "))
	}
	return p, nil
}

// ProfileNames lists the known profiles in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
