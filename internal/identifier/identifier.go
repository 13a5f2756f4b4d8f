// Package identifier classifies raw external security codes (ISIN, CUSIP,
// SEDOL, FIGI, local codes, vendor tickers) into identifier types.
//
// Detection is driven by an ordered rule table evaluated first-match-wins.
// The order matters: several formats overlap structurally (a 12-character
// Bloomberg FIGI also satisfies the ISIN shape), so more specific rules
// must be checked before more general ones.
package identifier

import "regexp"

// Type is the type of an external security identifier.
type Type string

// Known identifier types. The set is open: the database accepts any type
// string, but only these participate in pattern detection and validation.
const (
	TypeFIGI        Type = "FIGI"
	TypeISIN        Type = "ISIN"
	TypeCUSIP       Type = "CUSIP"
	TypeSEDOL       Type = "SEDOL"
	TypeJPCode      Type = "JP_CODE"
	TypeTickerYahoo Type = "TICKER_YAHOO"
	TypeTickerBBG   Type = "TICKER_BBG"
)

// Types lists all known identifier types.
func Types() []Type {
	return []Type{
		TypeFIGI, TypeISIN, TypeCUSIP, TypeSEDOL,
		TypeJPCode, TypeTickerYahoo, TypeTickerBBG,
	}
}

// TickerTypes are the vendor ticker formats tried as a lookup fallback when
// a structurally detected type has no active binding.
var TickerTypes = []Type{TypeTickerYahoo, TypeTickerBBG}

// Valid reports whether t is one of the known identifier types.
func (t Type) Valid() bool {
	switch t {
	case TypeFIGI, TypeISIN, TypeCUSIP, TypeSEDOL,
		TypeJPCode, TypeTickerYahoo, TypeTickerBBG:
		return true
	}
	return false
}

// Match is a single detection candidate.
type Match struct {
	Type       Type    `json:"type"`
	Confidence float64 `json:"confidence"`
}

type rule struct {
	typ        Type
	pattern    *regexp.Regexp
	confidence float64
}

// rules is evaluated top to bottom. FIGI must precede ISIN: "BBG000B9XRY4"
// satisfies both shapes, and the vendor prefix disambiguates. CUSIP (9) and
// SEDOL (7) cannot collide by length. Vendor ticker heuristics come last.
var rules = []rule{
	{TypeFIGI, regexp.MustCompile(`^BBG[A-Z0-9]{9}$`), 0.95},
	{TypeISIN, regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`), 0.90},
	{TypeCUSIP, regexp.MustCompile(`^[A-Z0-9]{9}$`), 0.70},
	{TypeSEDOL, regexp.MustCompile(`^[A-Z0-9]{7}$`), 0.70},
	{TypeJPCode, regexp.MustCompile(`^[0-9]{4}$`), 0.80},
	{TypeTickerYahoo, regexp.MustCompile(`^[A-Z0-9-]{1,8}\.[A-Z]{1,4}$`), 0.50},
	{TypeTickerBBG, regexp.MustCompile(`^[A-Z0-9]{1,8} [A-Z]{2}( Equity)?$`), 0.50},
}

// Detect returns every rule that matches raw, in precedence order. An empty
// or unrecognized input yields an empty slice, never an error.
func Detect(raw string) []Match {
	if raw == "" {
		return nil
	}
	var matches []Match
	for _, r := range rules {
		if r.pattern.MatchString(raw) {
			matches = append(matches, Match{Type: r.typ, Confidence: r.confidence})
		}
	}
	return matches
}

// DetectBest returns the single highest-precedence type matching raw, or
// false when nothing matches.
func DetectBest(raw string) (Type, bool) {
	if raw == "" {
		return "", false
	}
	for _, r := range rules {
		if r.pattern.MatchString(raw) {
			return r.typ, true
		}
	}
	return "", false
}
