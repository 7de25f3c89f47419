package services

import (
	"strings"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"

	"github.com/agnivade/levenshtein"
)

// MaxZoneDistance is the largest edit distance accepted as a neighborhood match.
const MaxZoneDistance = 2

type ZoneMatch string

const (
	ZoneMatchExact   ZoneMatch = "exact"
	ZoneMatchFuzzy   ZoneMatch = "fuzzy"
	ZoneMatchDefault ZoneMatch = "default"
)

type ZoneQuote struct {
	Zone  string
	Fee   int64
	Match ZoneMatch
}

// ZoneResolver maps a typed neighborhood to a delivery fee.
type ZoneResolver struct {
	table *models.ZoneFeeTable
	exact map[string]int64
}

func NewZoneResolver(table *models.ZoneFeeTable) *ZoneResolver {
	r := &ZoneResolver{table: table, exact: make(map[string]int64, len(table.Zones))}
	for _, z := range table.Zones {
		k := normalizeZone(z.Name)
		if _, dup := r.exact[k]; !dup {
			r.exact[k] = z.Fee
		}
	}
	return r
}

// Resolve tries an exact name first, then the first zone in table order
// within MaxZoneDistance edits (not the closest one), then the default fee.
func (r *ZoneResolver) Resolve(raw string) ZoneQuote {
	key := normalizeZone(raw)
	if fee, ok := r.exact[key]; ok && key != "" {
		return ZoneQuote{Zone: key, Fee: fee, Match: ZoneMatchExact}
	}
	if key != "" {
		for _, z := range r.table.Zones {
			name := normalizeZone(z.Name)
			if name == models.DefaultZoneKey {
				continue
			}
			if Levenshtein(key, name) <= MaxZoneDistance {
				return ZoneQuote{Zone: name, Fee: z.Fee, Match: ZoneMatchFuzzy}
			}
		}
	}
	return ZoneQuote{Zone: models.DefaultZoneKey, Fee: r.table.DefaultFee, Match: ZoneMatchDefault}
}

func normalizeZone(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Levenshtein is the case-insensitive edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	return levenshtein.ComputeDistance(strings.ToLower(a), strings.ToLower(b))
}
