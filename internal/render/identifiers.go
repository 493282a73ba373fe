package render

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casing is the case a dialect folds unquoted identifiers to.
type Casing int

const (
	CaseAsIs Casing = iota
	CaseUpper
	CaseLower
)

func (c Casing) String() string {
	switch c {
	case CaseUpper:
		return "upper"
	case CaseLower:
		return "lower"
	}
	return "as-is"
}

// ParseCasing reads a casing name as written in configuration files.
func ParseCasing(s string) (Casing, bool) {
	switch strings.ToLower(s) {
	case "", "as-is", "asis", "none":
		return CaseAsIs, true
	case "upper":
		return CaseUpper, true
	case "lower":
		return CaseLower, true
	}
	return CaseAsIs, false
}

// Identifiers holds the quoting rules applied to every table, column and
// alias name a formatter writes.
type Identifiers struct {
	Open, Close string
	// Quoter replaces Open/Close quoting when set.
	Quoter      func(name string) string
	Casing      Casing
	Keywords    map[string]struct{}
	AlwaysQuote bool
}

// Quote renders name as an identifier. The name is quoted when AlwaysQuote
// is set, when it is not a plain identifier, when it is a keyword or when it
// mixes cases under a forced casing. Otherwise the forced casing is applied.
func (r Identifiers) Quote(name string) string {
	if r.needsQuote(name) {
		return r.quote(name)
	}
	switch r.Casing {
	case CaseUpper:
		return cases.Upper(language.Und).String(name)
	case CaseLower:
		return cases.Lower(language.Und).String(name)
	}
	return name
}

// IsKeyword reports whether name is in the keyword set, ignoring case.
func (r Identifiers) IsKeyword(name string) bool {
	_, ok := r.Keywords[strings.ToUpper(name)]
	return ok
}

// WithKeywords returns a copy of r with extra keywords added.
func (r Identifiers) WithKeywords(words ...string) Identifiers {
	merged := make(map[string]struct{}, len(r.Keywords)+len(words))
	for k := range r.Keywords {
		merged[k] = struct{}{}
	}
	for _, w := range words {
		merged[strings.ToUpper(w)] = struct{}{}
	}
	r.Keywords = merged
	return r
}

func (r Identifiers) needsQuote(name string) bool {
	if r.AlwaysQuote || !isPlain(name) || r.IsKeyword(name) {
		return true
	}
	return r.Casing != CaseAsIs && isMixedCase(name)
}

func (r Identifiers) quote(name string) string {
	if r.Quoter != nil {
		return r.Quoter(name)
	}
	open, closer := r.Open, r.Close
	if open == "" {
		open, closer = `"`, `"`
	}
	return open + strings.ReplaceAll(name, closer, closer+closer) + closer
}

func isPlain(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func isMixedCase(name string) bool {
	return strings.ToUpper(name) != name && strings.ToLower(name) != name
}

// Keywords builds a keyword set.
func Keywords(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[strings.ToUpper(w)] = struct{}{}
	}
	return m
}

// AnsiKeywords are the reserved words shared by the supported dialects.
var AnsiKeywords = Keywords(
	"ALL", "ALTER", "AND", "ANY", "AS", "ASC", "BETWEEN", "BY", "CASE",
	"CAST", "CHECK", "COLUMN", "CONSTRAINT", "CREATE", "CROSS", "CURRENT",
	"CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP", "CURRENT_USER",
	"DEFAULT", "DELETE", "DESC", "DISTINCT", "DROP", "ELSE", "END",
	"EXCEPT", "EXISTS", "FALSE", "FETCH", "FOR", "FOREIGN", "FROM", "FULL",
	"GRANT", "GROUP", "HAVING", "IN", "INNER", "INSERT", "INTERSECT",
	"INTO", "IS", "JOIN", "LEFT", "LIKE", "LIMIT", "NATURAL", "NOT", "NULL",
	"OFFSET", "ON", "OR", "ORDER", "OUTER", "PRIMARY", "REFERENCES",
	"RIGHT", "ROWS", "SELECT", "SET", "SOME", "TABLE", "THEN", "TO", "TRUE",
	"UNION", "UNIQUE", "UPDATE", "USER", "USING", "VALUES", "WHEN", "WHERE",
	"WITH",
)
