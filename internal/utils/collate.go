package utils

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// spanish returns a new collator on every call, collate.Collator is not safe
// for concurrent use.
func spanish() *collate.Collator {
	return collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
}

// SortSpanish sorts values in place in Spanish dictionary order.
func SortSpanish(values []string) {
	c := spanish()
	sort.SliceStable(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})
}

func SortSpanishBy[T any](items []T, key func(T) string) {
	c := spanish()
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}

// UniqueSpanish drops blanks and duplicates and returns the rest sorted.
func UniqueSpanish(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	SortSpanish(out)
	return out
}
