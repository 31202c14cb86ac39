package search

import (
	"strings"
	"unicode"
)

const maxVariants = 10

type Query struct {
	Original   string
	Normalized string
	Variants   []string
}

// Normalize lowercases input, keeps letters, digits and '+' / '#' (c++, c#)
// and collapses whitespace. Other punctuation is dropped, so "Node.js"
// becomes "nodejs".
func Normalize(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return ""
	}

	b := strings.Builder{}
	b.Grow(len(input))
	lastWasSpace := false

	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '+' || r == '#':
			b.WriteRune(r)
			lastWasSpace = false
		case unicode.IsSpace(r):
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteByte(' ')
			lastWasSpace = true
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Expand returns normalized plus its aliases, deduplicated, original first.
// A query whose spaces were dropped ("springboot") also matches the spaced
// alias key.
func Expand(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, maxVariants)
	seen := make(map[string]struct{}, maxVariants)
	add := func(s string) {
		s = Normalize(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	for _, a := range AliasesOf(normalized) {
		add(a)
	}

	if !strings.Contains(normalized, " ") {
		for k, aliases := range Aliases {
			if !strings.Contains(k, " ") || strings.ReplaceAll(k, " ", "") != normalized {
				continue
			}
			add(k)
			for _, a := range aliases {
				add(a)
			}
			break
		}
	}

	if len(out) > maxVariants {
		out = out[:maxVariants]
	}
	return out
}

func Parse(input string) Query {
	q := Query{Original: input, Normalized: Normalize(input)}
	q.Variants = Expand(q.Normalized)
	return q
}

func (q Query) Empty() bool {
	return q.Normalized == ""
}
