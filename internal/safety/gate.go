// Package safety guards generated SQL before it reaches the sales store.
//
// The gate is a denylist over statement text, not a parser. It rejects any
// statement containing a mutating keyword as a case-insensitive substring,
// which over-approximates: a column literally named UPDATED_AT trips the
// UPDATE token. That is the accepted trade-off — the gate is defense in
// depth for model output, not a defense against adversarial SQL (comments,
// encodings, and multi-statement injection are out of scope).
package safety

import "strings"

// ForbiddenKeywords are the mutating statement tokens the gate rejects.
var ForbiddenKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT",
	"ALTER", "TRUNCATE", "ATTACH", "DETACH",
}

// IsSafe reports whether sql contains none of the denylisted tokens.
func IsSafe(sql string) bool {
	upper := strings.ToUpper(sql)
	for _, keyword := range ForbiddenKeywords {
		if strings.Contains(upper, keyword) {
			return false
		}
	}
	return true
}
