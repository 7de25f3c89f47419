package services

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/FranciscoRer293/pizzaria-ultimat/models"
)

// ErrParse means the order grammar found no line in the text.
var ErrParse = errors.New("no order line recognized")

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokWord
	tokSep
)

type token struct {
	kind tokenKind
	text string
}

const crustWord = "borda"

// MaxQuantity is the most pizzas one order line may ask for. Larger numbers
// do not start a line.
const MaxQuantity = 99

// tokenize splits normalized text into numbers, words and the flavor
// separators "/" and ",". Other punctuation only ends the current token.
func tokenize(s string) []token {
	var toks []token
	r := []rune(s)
	for i := 0; i < len(r); {
		switch c := r[i]; {
		case unicode.IsDigit(c):
			j := i
			for j < len(r) && unicode.IsDigit(r[j]) {
				j++
			}
			toks = append(toks, token{tokNumber, string(r[i:j])})
			i = j
		case unicode.IsLetter(c):
			j := i
			for j < len(r) && unicode.IsLetter(r[j]) {
				j++
			}
			toks = append(toks, token{tokWord, string(r[i:j])})
			i = j
		case c == '/' || c == ',':
			toks = append(toks, token{tokSep, string(c)})
			i++
		default:
			i++
		}
	}
	return toks
}

// Parser turns normalized order text into order lines.
//
//	line        := NUMBER ["pizza" | "pizzas"] SIZE description
//	description := everything up to the next NUMBER or the end
//
// Lines are read left to right and never overlap. A NUMBER that does not
// start a valid line is skipped.
type Parser struct {
	sizes map[models.Size]bool
}

func NewParser(cat *models.Catalog) *Parser {
	p := &Parser{sizes: make(map[models.Size]bool)}
	for s := range cat.Prices {
		p.sizes[s] = true
	}
	return p
}

// Parse returns the order lines found in text, possibly none.
func (p *Parser) Parse(text string) []models.OrderLine {
	toks := tokenize(text)
	var lines []models.OrderLine
	for pos := 0; pos < len(toks); {
		line, next, ok := p.parseLine(toks, pos)
		if !ok {
			pos++
			continue
		}
		if len(line.Flavors) > 0 {
			lines = append(lines, line)
		}
		pos = next
	}
	return lines
}

// ParseOrder is Parse that fails with ErrParse when nothing was recognized.
func (p *Parser) ParseOrder(text string) ([]models.OrderLine, error) {
	lines := p.Parse(text)
	if len(lines) == 0 {
		return nil, ErrParse
	}
	return lines, nil
}

func (p *Parser) parseLine(toks []token, pos int) (models.OrderLine, int, bool) {
	qty, i, ok := p.parseQuantity(toks, pos)
	if !ok {
		return models.OrderLine{}, pos, false
	}
	size, ok := p.sizeAt(toks, i)
	if !ok {
		return models.OrderLine{}, pos, false
	}
	i++
	start := i
	for i < len(toks) && toks[i].kind != tokNumber {
		i++
	}
	flavors, crust := parseDescription(toks[start:i])
	return models.OrderLine{Quantity: qty, Size: size, Flavors: flavors, ExtraCrust: crust}, i, true
}

// parseQuantity reads NUMBER ["pizza"|"pizzas"] and returns the index after it.
func (p *Parser) parseQuantity(toks []token, pos int) (int, int, bool) {
	if pos >= len(toks) || toks[pos].kind != tokNumber {
		return 0, pos, false
	}
	qty, err := strconv.Atoi(toks[pos].text)
	if err != nil || qty < 1 || qty > MaxQuantity {
		return 0, pos, false
	}
	i := pos + 1
	if i < len(toks) && toks[i].kind == tokWord {
		if w := strings.ToLower(toks[i].text); w == "pizza" || w == "pizzas" {
			i++
		}
	}
	return qty, i, true
}

func (p *Parser) sizeAt(toks []token, i int) (models.Size, bool) {
	if i >= len(toks) || toks[i].kind != tokWord {
		return "", false
	}
	s := models.Size(strings.ToUpper(toks[i].text))
	return s, p.sizes[s]
}

// parseDescription drops the crust words and splits the rest into flavors on
// "/", ",", "e" and "metade".
func parseDescription(desc []token) ([]string, bool) {
	crust := false
	kept := make([]token, 0, len(desc))
	for i, t := range desc {
		if t.kind != tokWord {
			kept = append(kept, t)
			continue
		}
		w := strings.ToLower(t.text)
		if w == crustWord {
			crust = true
			continue
		}
		if w == "com" && i+1 < len(desc) && strings.ToLower(desc[i+1].text) == crustWord {
			continue
		}
		kept = append(kept, t)
	}

	var flavors []string
	var cur []string
	flush := func() {
		if f := strings.TrimSpace(strings.Join(cur, " ")); f != "" {
			flavors = append(flavors, f)
		}
		cur = cur[:0]
	}
	for _, t := range kept {
		if t.kind == tokSep {
			flush()
			continue
		}
		if w := strings.ToLower(t.text); w == "e" || w == "metade" {
			flush()
			continue
		}
		cur = append(cur, t.text)
	}
	flush()
	return flavors, crust
}

// ParseSizeQuantity reads the "<qty> <size>" answer given after a customer
// named a flavor. A bare size counts as one pizza.
func (p *Parser) ParseSizeQuantity(text string) (qty int, size models.Size, crust bool, ok bool) {
	toks := tokenize(text)
	for _, t := range toks {
		if t.kind == tokWord && strings.ToLower(t.text) == crustWord {
			crust = true
		}
	}
	for pos := range toks {
		q, i, found := p.parseQuantity(toks, pos)
		if !found {
			continue
		}
		if s, found := p.sizeAt(toks, i); found {
			return q, s, crust, true
		}
	}
	var sizes []models.Size
	for i := range toks {
		if s, found := p.sizeAt(toks, i); found {
			sizes = append(sizes, s)
		}
	}
	if len(sizes) == 1 && !hasNumber(toks) {
		return 1, sizes[0], crust, true
	}
	return 0, "", false, false
}

func hasNumber(toks []token) bool {
	for _, t := range toks {
		if t.kind == tokNumber {
			return true
		}
	}
	return false
}

// MentionedFlavor returns the first catalog flavor named in text, by name or alias.
func MentionedFlavor(cat *models.Catalog, text string) (string, bool) {
	for _, f := range cat.Flavors {
		if containsWord(text, f.Name) {
			return f.Name, true
		}
		for _, a := range f.Aliases {
			if containsWord(text, a) {
				return f.Name, true
			}
		}
	}
	return "", false
}

// HasOrderKeyword reports whether text names a flavor or asks for extra crust.
func HasOrderKeyword(cat *models.Catalog, text string) bool {
	if containsWord(text, crustWord) {
		return true
	}
	_, ok := MentionedFlavor(cat, text)
	return ok
}

// HasDigit reports whether text contains any decimal digit.
func HasDigit(text string) bool {
	return strings.IndexFunc(text, unicode.IsDigit) >= 0
}
