package services

import (
	"errors"
	"reflect"
	"testing"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"
)

func testCatalog(t *testing.T) *models.Catalog {
	t.Helper()
	cat, _, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	return cat
}

func TestParse(t *testing.T) {
	cat := testCatalog(t)
	p := NewParser(cat)
	n := NewNormalizer(FlavorPhrases(cat)...)

	tests := []struct {
		name string
		in   string
		want []models.OrderLine
	}{
		{
			name: "two lines with crust and halves",
			in:   "1 G Calabresa com borda e 1 F metade Frango/Catupiry, metade Portuguesa",
			want: []models.OrderLine{
				{Quantity: 1, Size: models.SizeLarge, Flavors: []string{"Calabresa"}, ExtraCrust: true},
				{Quantity: 1, Size: models.SizeFamily, Flavors: []string{"Frango", "Catupiry", "Portuguesa"}},
			},
		},
		{
			name: "pizza word and lowercase size",
			in:   "2 pizzas g Portuguesa",
			want: []models.OrderLine{
				{Quantity: 2, Size: models.SizeLarge, Flavors: []string{"Portuguesa"}},
			},
		},
		{
			name: "spelled out",
			in:   "duas grandes de quatro queijos",
			want: []models.OrderLine{
				{Quantity: 2, Size: models.SizeLarge, Flavors: []string{"de quatro queijos"}},
			},
		},
		{
			name: "protected flavor name stays whole",
			in:   "1 P Quatro Queijos",
			want: []models.OrderLine{
				{Quantity: 1, Size: models.SizeSmall, Flavors: []string{"Quatro Queijos"}},
			},
		},
		{
			name: "leading noise skipped",
			in:   "quero 1 F calabresa e portuguesa",
			want: []models.OrderLine{
				{Quantity: 1, Size: models.SizeFamily, Flavors: []string{"calabresa", "portuguesa"}},
			},
		},
		{name: "no size", in: "2 frango", want: nil},
		{name: "unknown size", in: "1 X calabresa", want: nil},
		{name: "zero quantity", in: "0 G calabresa", want: nil},
		{name: "no flavor", in: "1 G", want: nil},
		{name: "no number", in: "quero pizza", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(n.Normalize(tt.in))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseOrderError(t *testing.T) {
	p := NewParser(testCatalog(t))
	if _, err := p.ParseOrder("quero pizza"); !errors.Is(err, ErrParse) {
		t.Errorf("ParseOrder error = %v, want ErrParse", err)
	}
	lines, err := p.ParseOrder("1 G Calabresa")
	if err != nil || len(lines) != 1 {
		t.Errorf("ParseOrder = %v, %v; want one line", lines, err)
	}
}

func TestParseOrderQuantityCap(t *testing.T) {
	cat := testCatalog(t)
	p := NewParser(cat)

	for _, in := range []string{"9999999999999999 G Calabresa", "100 G Calabresa", "0 G Calabresa"} {
		if lines, err := p.ParseOrder(in); !errors.Is(err, ErrParse) {
			t.Errorf("ParseOrder(%q) = %v, %v; want ErrParse", in, lines, err)
		}
	}
	lines, err := p.ParseOrder("99 G Calabresa")
	if err != nil || len(lines) != 1 || lines[0].Quantity != MaxQuantity {
		t.Fatalf("ParseOrder(99 G Calabresa) = %v, %v", lines, err)
	}
	if sub, _ := CalcSubtotal(cat, lines); sub != 99*4500 {
		t.Errorf("subtotal = %d, want %d", sub, 99*4500)
	}
}

func TestParseSizeQuantity(t *testing.T) {
	cat := testCatalog(t)
	p := NewParser(cat)
	n := NewNormalizer(FlavorPhrases(cat)...)

	tests := []struct {
		in        string
		wantQty   int
		wantSize  models.Size
		wantCrust bool
		wantOK    bool
	}{
		{"2 G", 2, models.SizeLarge, false, true},
		{"1 família com borda", 1, models.SizeFamily, true, true},
		{"2 pizzas pequenas", 2, models.SizeSmall, false, true},
		{"G", 1, models.SizeLarge, false, true},
		{"grande", 1, models.SizeLarge, false, true},
		{"2", 0, "", false, false},
		{"nenhuma ideia", 0, "", false, false},
		{"P ou G", 0, "", false, false},
		{"99 G", 99, models.SizeLarge, false, true},
		{"100 G", 0, "", false, false},
	}
	for _, tt := range tests {
		qty, size, crust, ok := p.ParseSizeQuantity(n.Normalize(tt.in))
		if qty != tt.wantQty || size != tt.wantSize || crust != tt.wantCrust || ok != tt.wantOK {
			t.Errorf("ParseSizeQuantity(%q) = %d, %q, %v, %v; want %d, %q, %v, %v",
				tt.in, qty, size, crust, ok, tt.wantQty, tt.wantSize, tt.wantCrust, tt.wantOK)
		}
	}
}

func TestMentionedFlavor(t *testing.T) {
	cat := testCatalog(t)
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"quero uma de frango", "Frango/Catupiry", true},
		{"Calabresa, por favor", "Calabresa", true},
		{"tem quatro queijos?", "Quatro Queijos", true},
		{"oi", "", false},
		{"calabresas", "", false},
	}
	for _, tt := range tests {
		got, ok := MentionedFlavor(cat, tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("MentionedFlavor(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestHasOrderKeyword(t *testing.T) {
	cat := testCatalog(t)
	if !HasOrderKeyword(cat, "2 G com borda") {
		t.Error("borda should count as an order keyword")
	}
	if HasOrderKeyword(cat, "2 refrigerantes") {
		t.Error("refrigerantes is not on the menu")
	}
	if !HasDigit("tem 2?") || HasDigit("dois") {
		t.Error("HasDigit must only see decimal digits")
	}
}
