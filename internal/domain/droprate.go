package domain

import "time"

// Tier is a gacha rarity bucket
type Tier string

const (
	TierCommon Tier = "COMMON"
	TierRare   Tier = "RARE"
	TierSR     Tier = "SR"
	TierSSR    Tier = "SSR"
	TierUR     Tier = "UR"
)

// AllTiers lists every tier from most to least common.
// Order matters for weighted selection and for stable output.
var AllTiers = []Tier{TierCommon, TierRare, TierSR, TierSSR, TierUR}

// IsValid reports whether t belongs to the closed tier set
func (t Tier) IsValid() bool {
	switch t {
	case TierCommon, TierRare, TierSR, TierSSR, TierUR:
		return true
	default:
		return false
	}
}

// DefaultPackType is the pack used when a caller asks for an unconfigured pack
const DefaultPackType = "STANDARD"

// RateMap maps every tier to its drop rate in percent (0..100)
type RateMap map[Tier]float64

// Clone returns an independent copy of the map
func (m RateMap) Clone() RateMap {
	if m == nil {
		return nil
	}
	out := make(RateMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Sum returns the total of all rates
func (m RateMap) Sum() float64 {
	total := 0.0
	for _, v := range m {
		total += v
	}
	return total
}

// DefaultRates is the built-in fallback table
func DefaultRates() RateMap {
	return RateMap{
		TierCommon: 60,
		TierRare:   25,
		TierSR:     10,
		TierSSR:    4,
		TierUR:     1,
	}
}

// DropRateTable is one pack's stored configuration
type DropRateTable struct {
	PackType  string    `json:"pack_type"`
	Rates     RateMap   `json:"rates"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DropRateUpdateResult is returned after a successful replace-all update
type DropRateUpdateResult struct {
	PackType  string    `json:"pack_type"`
	Rates     RateMap   `json:"rates"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BuiltinRatesSource names the built-in table when no stored pack could serve a request
const BuiltinRatesSource = "BUILTIN"

// ResolvedRates is the table actually served for a requested pack. Source is
// the stored pack that supplied the rates, or BuiltinRatesSource.
type ResolvedRates struct {
	PackType string
	Source   string
	Rates    RateMap
}

// Fallback reports whether the rates came from somewhere other than the requested pack
func (r ResolvedRates) Fallback() bool {
	return r.Source != r.PackType
}
