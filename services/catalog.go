package services

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

type catalogFile struct {
	Prices  map[string]float64 `yaml:"prices"`
	Crust   float64            `yaml:"crust"`
	Flavors []struct {
		Name    string   `yaml:"name"`
		Aliases []string `yaml:"aliases"`
	} `yaml:"flavors"`
	Zones []struct {
		Name string  `yaml:"name"`
		Fee  float64 `yaml:"fee"`
	} `yaml:"zones"`
	Default *float64 `yaml:"default"`
}

// LoadCatalog reads the menu and zone table from path, or the built-in
// catalog when path is empty.
func LoadCatalog(path string) (*models.Catalog, *models.ZoneFeeTable, error) {
	data := defaultCatalogYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*models.Catalog, *models.ZoneFeeTable, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Prices) == 0 {
		return nil, nil, fmt.Errorf("catalog has no prices")
	}
	if len(f.Flavors) == 0 {
		return nil, nil, fmt.Errorf("catalog has no flavors")
	}
	if f.Default == nil {
		return nil, nil, fmt.Errorf("zone table has no %q fee", models.DefaultZoneKey)
	}

	cat := &models.Catalog{
		Prices:     make(map[models.Size]int64, len(f.Prices)),
		CrustPrice: toCents(f.Crust),
	}
	for code, price := range f.Prices {
		s := models.Size(strings.ToUpper(strings.TrimSpace(code)))
		switch s {
		case models.SizeSmall, models.SizeLarge, models.SizeFamily:
		default:
			return nil, nil, fmt.Errorf("unknown size code %q", code)
		}
		cat.Prices[s] = toCents(price)
	}
	for _, fl := range f.Flavors {
		if strings.TrimSpace(fl.Name) == "" {
			return nil, nil, fmt.Errorf("flavor without name")
		}
		cat.Flavors = append(cat.Flavors, models.Flavor{Name: fl.Name, Aliases: fl.Aliases})
	}

	table := &models.ZoneFeeTable{DefaultFee: toCents(*f.Default)}
	for _, z := range f.Zones {
		name := strings.ToLower(strings.TrimSpace(z.Name))
		if name == "" || name == models.DefaultZoneKey {
			continue
		}
		table.Zones = append(table.Zones, models.Zone{Name: name, Fee: toCents(z.Fee)})
	}
	return cat, table, nil
}

// FlavorPhrases lists flavor names and aliases; the normalizer leaves them alone.
func FlavorPhrases(cat *models.Catalog) []string {
	var out []string
	for _, f := range cat.Flavors {
		out = append(out, f.Name)
		out = append(out, f.Aliases...)
	}
	return out
}

func toCents(reais float64) int64 {
	return int64(math.Round(reais * 100))
}
