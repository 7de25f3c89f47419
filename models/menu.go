package models

// Size is a pizza size code as customers type it after normalization.
type Size string

const (
	SizeSmall  Size = "P"
	SizeLarge  Size = "G"
	SizeFamily Size = "F"
)

// DefaultZoneKey is the zone label used when no neighborhood matches.
const DefaultZoneKey = "default"

// Flavor is one entry of the menu. Aliases are extra spellings customers use
// ("frango", "catupiry") that identify the same flavor.
type Flavor struct {
	Name    string
	Aliases []string
}

// Catalog is the fixed menu. Prices are in centavos.
type Catalog struct {
	Prices     map[Size]int64
	CrustPrice int64
	Flavors    []Flavor
}

// Price returns the base price for a size and whether the size is on the menu.
func (c *Catalog) Price(s Size) (int64, bool) {
	p, ok := c.Prices[s]
	return p, ok
}

// Zone is one delivery neighborhood with its fee in centavos.
type Zone struct {
	Name string
	Fee  int64
}

// ZoneFeeTable keeps zones in declaration order; fuzzy matching depends on it.
type ZoneFeeTable struct {
	Zones      []Zone
	DefaultFee int64
}
