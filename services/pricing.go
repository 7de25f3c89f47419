package services

import (
	"fmt"
	"strings"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"
)

// LinePrice is unit price (base plus crust) times quantity. Sizes missing
// from the catalog price as zero; the parser never produces them.
func LinePrice(cat *models.Catalog, l models.OrderLine) int64 {
	base, _ := cat.Price(l.Size)
	if l.ExtraCrust {
		base += cat.CrustPrice
	}
	return base * int64(l.Quantity)
}

// CalcSubtotal returns the order subtotal and the line-by-line summary.
func CalcSubtotal(cat *models.Catalog, lines []models.OrderLine) (subtotal int64, summary string) {
	var b strings.Builder
	for _, l := range lines {
		lp := LinePrice(cat, l)
		subtotal += lp
		crust := ""
		if l.ExtraCrust {
			crust = " + Borda"
		}
		fmt.Fprintf(&b, "\n%dx Pizza %s (%s%s) – %s", l.Quantity, l.Size, strings.Join(l.Flavors, " / "), crust, FormatMoney(lp))
	}
	return subtotal, b.String()
}

// FormatMoney renders centavos as R$105.00.
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$%d.%02d", sign, cents/100, cents%100)
}
