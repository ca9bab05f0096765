package aggregate

import (
	"sort"
	"strconv"
)

// Ranker is implemented by catalogs that know the survey's display order.
type Ranker interface {
	SectionRank(sectionID string) (int, bool)
	QuestionRank(sectionID, questionID string) (int, bool)
}

// Stored response maps are JSON objects, so the respondent's answer order is
// gone once decoded. Keys are ordered by survey position when the catalog
// knows it, then naturally ("q2" before "q10").
func sortedKeys[V any](m map[string]V, rank func(string) (int, bool)) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iok := rank(keys[i])
		rj, jok := rank(keys[j])
		switch {
		case iok && jok && ri != rj:
			return ri < rj
		case iok != jok:
			return iok
		}
		return naturalLess(keys[i], keys[j])
	})
	return keys
}

func noRank(string) (int, bool) { return 0, false }

func naturalLess(x, y string) bool {
	a, b := x, y
	for a != "" && b != "" {
		ca, cb := a[0], b[0]
		if isDigit(ca) && isDigit(cb) {
			na, restA := leadingNumber(a)
			nb, restB := leadingNumber(b)
			if na != nb {
				return na < nb
			}
			a, b = restA, restB
			continue
		}
		if ca != cb {
			return ca < cb
		}
		a, b = a[1:], b[1:]
	}
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	// "q01" and "q1" tie numerically; break on the raw text.
	return x < y
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func leadingNumber(s string) (int, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		n = int(^uint(0) >> 1)
	}
	return n, s[i:]
}
