package services

import (
	"strings"
	"unicode"
)

var numberWords = map[string]string{
	"um": "1", "uma": "1",
	"dois": "2", "duas": "2",
	"três": "3", "tres": "3",
	"quatro": "4",
	"cinco":  "5",
	"seis":   "6",
	"sete":   "7",
	"oito":   "8",
	"nove":   "9",
}

var sizeWords = map[string]string{
	"pequena":  "P",
	"pequenas": "P",
	"grande":   "G",
	"grandes":  "G",
	"família":  "F",
	"familia":  "F",
}

// Normalizer rewrites spelled-out numbers and size words into the tokens the
// order parser understands. Protected phrases (flavor names such as
// "Quatro Queijos") are copied through unchanged.
type Normalizer struct {
	protected [][]rune
}

func NewNormalizer(protected ...string) *Normalizer {
	n := &Normalizer{}
	for _, p := range protected {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n.protected = append(n.protected, lowerRunes(p))
	}
	return n
}

// Normalize is pure and safe for concurrent use.
func (n *Normalizer) Normalize(text string) string {
	src := []rune(text)
	low := lowerRunes(text)
	skip := n.protectedMask(low)

	var out strings.Builder
	out.Grow(len(text))
	for i := 0; i < len(src); {
		if !isWordRune(src[i]) {
			out.WriteRune(src[i])
			i++
			continue
		}
		j := i
		for j < len(src) && isWordRune(src[j]) {
			j++
		}
		word := string(low[i:j])
		if !skip[i] {
			if d, ok := numberWords[word]; ok {
				out.WriteString(d)
				i = j
				continue
			}
			if s, ok := sizeWords[word]; ok {
				out.WriteString(s)
				i = j
				continue
			}
		}
		out.WriteString(string(src[i:j]))
		i = j
	}
	return out.String()
}

// protectedMask marks rune positions covered by a whole-word protected phrase.
func (n *Normalizer) protectedMask(low []rune) []bool {
	mask := make([]bool, len(low))
	for _, p := range n.protected {
		for i := 0; i+len(p) <= len(low); i++ {
			if !hasPrefixAt(low, p, i) {
				continue
			}
			end := i + len(p)
			if i > 0 && isWordRune(low[i-1]) {
				continue
			}
			if end < len(low) && isWordRune(low[end]) {
				continue
			}
			for k := i; k < end; k++ {
				mask[k] = true
			}
		}
	}
	return mask
}

func hasPrefixAt(s, p []rune, at int) bool {
	for k := range p {
		if s[at+k] != p[k] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lowerRunes lowercases rune by rune so indexes line up with []rune(s).
func lowerRunes(s string) []rune {
	r := []rune(s)
	for i := range r {
		r[i] = unicode.ToLower(r[i])
	}
	return r
}

// containsWord reports whether phrase occurs in text as whole words, ignoring case.
func containsWord(text, phrase string) bool {
	low := lowerRunes(text)
	p := lowerRunes(strings.TrimSpace(phrase))
	if len(p) == 0 {
		return false
	}
	for i := 0; i+len(p) <= len(low); i++ {
		if !hasPrefixAt(low, p, i) {
			continue
		}
		end := i + len(p)
		if (i == 0 || !isWordRune(low[i-1])) && (end == len(low) || !isWordRune(low[end])) {
			return true
		}
	}
	return false
}
