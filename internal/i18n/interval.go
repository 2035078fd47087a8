package i18n

import (
	"regexp"
	"strconv"
	"strings"
)

// Interval templates select a clause by matching the count against a
// bracket interval, e.g. "[0] no items|[1] one item|[2,] {{count}} items".
// [a,b] is inclusive, ]a,b[ exclusive, [a,] open-ended above, [,b]
// open-ended below, [n] exact. Ties prefer the first matching clause in
// source order.
//
// Escaped pipes (\|) are unescaped exactly once, here in the clause
// splitter; no other layer unescapes again.

var intervalClause = regexp.MustCompile(`^\s*([\[\]])\s*([0-9]*)\s*(,?)\s*([0-9]*)\s*([\[\]])\s*(.*)$`)

func hasIntervals(template string) bool {
	return intervalClause.MatchString(template)
}

// selectInterval returns the body of the first clause whose interval
// contains count, and whether any clause matched.
func selectInterval(template string, count int) (string, bool) {
	for _, clause := range splitClauses(template) {
		body, ok := matchClause(clause, count)
		if ok {
			return body, true
		}
	}
	return "", false
}

// splitClauses splits on unescaped pipes and unescapes \| in the results.
func splitClauses(template string) []string {
	var clauses []string
	var current strings.Builder
	escaped := false
	for _, r := range template {
		switch {
		case escaped:
			if r != '|' {
				current.WriteRune('\\')
			}
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			clauses = append(clauses, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if escaped {
		current.WriteRune('\\')
	}
	return append(clauses, current.String())
}

func matchClause(clause string, count int) (string, bool) {
	parts := intervalClause.FindStringSubmatch(clause)
	if parts == nil {
		return "", false
	}
	opening, low, comma, high, closing, body := parts[1], parts[2], parts[3], parts[4], parts[5], parts[6]

	// [n] with no comma is an exact match.
	if comma == "" {
		n, err := strconv.Atoi(low)
		if err != nil || count != n {
			return "", false
		}
		return body, true
	}

	if low != "" {
		n, err := strconv.Atoi(low)
		if err != nil {
			return "", false
		}
		if opening == "[" && count < n {
			return "", false
		}
		if opening == "]" && count <= n {
			return "", false
		}
	}
	if high != "" {
		n, err := strconv.Atoi(high)
		if err != nil {
			return "", false
		}
		if closing == "]" && count > n {
			return "", false
		}
		if closing == "[" && count >= n {
			return "", false
		}
	}
	return body, true
}
