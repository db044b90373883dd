package heuristic

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "you": {}, "your": {}, "our": {}, "are": {},
	"will": {}, "have": {}, "has": {}, "this": {}, "that": {}, "from": {}, "into": {}, "who": {},
	"can": {}, "able": {}, "work": {}, "working": {}, "team": {}, "years": {}, "year": {},
	"experience": {}, "strong": {}, "good": {}, "knowledge": {}, "skills": {}, "ability": {},
	"must": {}, "should": {}, "plus": {}, "etc": {}, "other": {}, "all": {}, "any": {}, "not": {},
	"per": {}, "via": {}, "using": {}, "use": {}, "well": {}, "new": {}, "including": {},
}

// tokenize lowercases s and splits it into words. '+', '#' and inner '.' stay part of a word
// so that "C++", "C#" and "Node.js" survive.
func tokenize(s string) []string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.'
	})

	out := words[:0]
	for _, w := range words {
		w = strings.Trim(w, ".")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func tokenSet(texts ...string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, text := range texts {
		for _, tok := range tokenize(text) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// keywords returns distinct content words in first-seen order.
func keywords(texts ...string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, text := range texts {
		for _, tok := range tokenize(text) {
			if utf8.RuneCountInString(tok) < 3 || isNumber(tok) {
				continue
			}
			if _, stop := stopWords[tok]; stop {
				continue
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}

func containsAll(set map[string]struct{}, toks []string) bool {
	if len(toks) == 0 {
		return false
	}
	for _, tok := range toks {
		if _, ok := set[tok]; !ok {
			return false
		}
	}
	return true
}
