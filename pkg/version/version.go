// Package version implements the version algebra used to plan and filter
// self-update artifacts: parsing, canonicalization, equality, wildcard
// containment, and ordering of version strings.
//
// A version is an ordered sequence of non-negative integer parts, an
// optional trailing wildcard marker, and an optional qualifier (a named
// prerelease suffix such as "_rc2", or a bare wildcard qualifier "_*").
// Parsing never returns an error: malformed input produces a Version with
// Invalid set and the original text retained for diagnostics, so callers
// that only need to record or log a version never have to branch on error.
// Operations that require a valid, orderable version (Compare) return an
// error instead of silently producing a meaningless result.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// QualifierKind distinguishes the three qualifier states a version can
// carry. Using an explicit kind (rather than a duck-typed "has a name"
// check) keeps the None/WildcardAny/Named cases from being confused with
// one another during comparison.
type QualifierKind int

const (
	// QualifierNone means no qualifier (or the "final" qualifier, which
	// is equivalent to no qualifier).
	QualifierNone QualifierKind = iota
	// QualifierWildcardAny means a wildcard pattern's qualifier position
	// matches any named qualifier on the candidate; a candidate with no
	// qualifier does not match.
	QualifierWildcardAny
	// QualifierNamed is a concrete prerelease qualifier such as "rc2".
	QualifierNamed
)

// knownQualifiers assigns a comparison order to recognized qualifier
// names. Names not in this table parse successfully but carry Order -1,
// so any comparison that depends on ordering them fails explicitly rather
// than guessing.
var knownQualifiers = map[string]int{
	"pre":   0,
	"alpha": 1,
	"beta":  2,
	"rc":    3,
}

// Qualifier is the prerelease suffix of a version, or its absence.
type Qualifier struct {
	Kind   QualifierKind
	Order  int
	Number int
	Name   string
}

// Version is a parsed version string in canonical form.
type Version struct {
	parts     []int
	wildcard  bool
	qualifier Qualifier
	invalid   bool
	original  string
}

// InvalidVersionError reports that an operation requiring a valid,
// orderable version was attempted on one that isn't.
type InvalidVersionError struct {
	Literal string
	Reason  string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Literal, e.Reason)
}

// Parse converts a version string into its canonical Version form.
//
// Parsing never fails outright: a string that can't be interpreted
// produces a Version with Invalid() true and Original() set to the raw
// text, so the caller can still log or display it. Comparisons against
// an invalid version report false (Equal, Contains) or an error
// (Compare).
func Parse(raw string) Version {
	if raw == "" {
		return Version{parts: []int{}, original: raw}
	}

	if strings.HasSuffix(raw, "*") {
		return parseWildcard(raw)
	}
	return parsePlain(raw)
}

func parseWildcard(raw string) Version {
	body := raw[:len(raw)-1]
	v := Version{wildcard: true, original: raw}

	switch {
	case body == "":
		// Lone "*": matches everything, including the empty version.
		v.parts = []int{}
		return v
	case strings.HasSuffix(body, "."):
		// "...*" preceded by a dot: no qualifier, purely numeric wildcard.
		body = body[:len(body)-1]
	case strings.HasSuffix(body, "_"):
		// "..._*": wildcard-any qualifier.
		body = body[:len(body)-1]
		v.qualifier = Qualifier{Kind: QualifierWildcardAny}
	default:
		lastDot := strings.LastIndexByte(body, '.')
		lastComp := body[lastDot+1:]
		if uidx := strings.IndexByte(lastComp, '_'); uidx >= 0 {
			// "..._name*" or "..._name<number>*": a named qualifier
			// wildcard. A number present alongside the name makes the
			// qualifier fully specified, which is invalid combined with
			// a wildcard.
			name, number, hasNumber := splitQualifierBody(lastComp[uidx+1:])
			if hasNumber {
				v.invalid = true
			}
			if name != "final" {
				v.qualifier = Qualifier{Kind: QualifierNamed, Order: knownOrder(name), Number: number, Name: name}
			}
			body = body[:lastDot+1] + lastComp[:uidx]
		}
		// else: bare numeric wildcard with no separator, e.g. "1*"; no
		// qualifier, body left as-is.
	}

	parts, ok := parseNumericParts(body)
	if !ok {
		v.invalid = true
	}
	v.parts = parts
	return v
}

func parsePlain(raw string) Version {
	v := Version{original: raw}

	segments := strings.Split(raw, ".")
	last := segments[len(segments)-1]
	if uidx := strings.IndexByte(last, '_'); uidx >= 0 {
		qualBody := last[uidx+1:]
		segments[len(segments)-1] = last[:uidx]
		name, number, _ := splitQualifierBody(qualBody)
		if name != "final" {
			v.qualifier = Qualifier{Kind: QualifierNamed, Order: knownOrder(name), Number: number, Name: name}
		}
	}

	parts, ok := parseNumericParts(strings.Join(segments, "."))
	if !ok {
		v.invalid = true
	}
	v.parts = parts
	v.trimTrailingZeros()
	return v
}

// trimTrailingZeros applies the "trailing zero parts beyond index 0 are
// trimmed" canonicalization rule. It only applies to non-wildcard
// versions: a wildcard's trailing zero components are significant (they
// participate in the "remaining wildcard components must be exactly
// zero" containment rule).
func (v *Version) trimTrailingZeros() {
	if v.wildcard {
		return
	}
	for len(v.parts) > 1 && v.parts[len(v.parts)-1] == 0 {
		v.parts = v.parts[:len(v.parts)-1]
	}
}

func knownOrder(name string) int {
	if order, ok := knownQualifiers[name]; ok {
		return order
	}
	return -1
}

// splitQualifierBody splits a qualifier body into its leading name and
// trailing integer number, e.g. "rc2" -> ("rc", 2, true), "rc" -> ("rc",
// 0, false), "" -> ("", 0, false).
func splitQualifierBody(body string) (name string, number int, hasNumber bool) {
	idx := len(body)
	for i, r := range body {
		if r >= '0' && r <= '9' {
			idx = i
			break
		}
	}
	name = body[:idx]
	numStr := body[idx:]
	if numStr == "" {
		return name, 0, false
	}
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return name, 0, false
	}
	return name, n, true
}

// parseNumericParts parses a dot-joined sequence of non-negative base-10
// integers. An empty string parses to an empty (but valid) part list,
// representing the empty version.
func parseNumericParts(body string) ([]int, bool) {
	if body == "" {
		return []int{}, true
	}
	segs := strings.Split(body, ".")
	parts := make([]int, 0, len(segs))
	for _, seg := range segs {
		if seg == "" {
			return nil, false
		}
		for _, r := range seg {
			if r < '0' || r > '9' {
				return nil, false
			}
		}
		n, err := strconv.Atoi(seg)
		if err != nil {
			return nil, false
		}
		parts = append(parts, n)
	}
	return parts, true
}

// Invalid reports whether this version failed to parse as described in
// Parse's documentation.
func (v Version) Invalid() bool { return v.invalid }

// Wildcard reports whether this version carries a trailing wildcard.
func (v Version) Wildcard() bool { return v.wildcard }

// Empty reports whether this version has no parts (the "" / full-install
// source pattern).
func (v Version) Empty() bool { return len(v.parts) == 0 }

// Original returns the raw text this version was parsed from.
func (v Version) Original() string { return v.original }

// Equal reports whether v and o are both valid and have identical
// canonical parts, qualifier, and wildcard flag.
func (v Version) Equal(o Version) bool {
	if v.invalid || o.invalid {
		return false
	}
	if v.wildcard != o.wildcard {
		return false
	}
	if len(v.parts) != len(o.parts) {
		return false
	}
	for i := range v.parts {
		if v.parts[i] != o.parts[i] {
			return false
		}
	}
	return v.qualifier == o.qualifier
}

// Contains reports whether candidate x matches pattern w ("x in w").
//
// If w is not a wildcard, this reduces to equality. Otherwise the match
// follows §4.1 of the containment rules: an empty wildcard matches
// everything; a non-empty wildcard never matches an empty candidate;
// qualifier presence must agree between pattern and candidate (a
// wildcard-any qualifier matches any candidate qualifier); parts are
// compared component-wise, where running off the wildcard's end matches
// and running off the candidate's end requires the remaining wildcard
// components to be exactly zero.
func (w Version) Contains(x Version) bool {
	if w.invalid || x.invalid {
		return false
	}
	if !w.wildcard {
		return w.Equal(x)
	}
	if len(w.parts) == 0 {
		return true
	}
	if len(x.parts) == 0 {
		return false
	}

	wHasQual := w.qualifier.Kind != QualifierNone
	xHasQual := x.qualifier.Kind != QualifierNone
	if wHasQual != xHasQual {
		return false
	}

	i := 0
	for ; i < len(w.parts) && i < len(x.parts); i++ {
		if w.parts[i] != x.parts[i] {
			return false
		}
	}
	if i < len(w.parts) {
		for ; i < len(w.parts); i++ {
			if w.parts[i] != 0 {
				return false
			}
		}
	}
	// i < len(x.parts): candidate has more components than the wildcard
	// specifies; that's a match (running off the wildcard's end).

	if wHasQual && w.qualifier.Kind == QualifierNamed {
		return x.qualifier.Name == w.qualifier.Name
	}
	return true
}

// InAny reports whether v matches (equals, or is contained in, as a
// wildcard candidate) any of the given patterns.
func (v Version) InAny(patterns []Version) bool {
	for _, p := range patterns {
		if p.Contains(v) {
			return true
		}
	}
	return false
}

// Compare orders two non-wildcard, valid versions. It returns -1, 0, or 1
// as v is less than, equal to, or greater than o.
//
// The empty version ("") is treated as the unique minimum: it is defined
// against any other non-wildcard valid version (this is required for the
// planner and graph to reason about a freshly-installed, unversioned
// application), even though general ordering between two non-empty
// versions still requires both operands to be non-wildcard and valid.
//
// Ordering otherwise compares parts lexicographically; a shorter part
// list is treated as greater at the point it runs out relative to a
// longer one that hasn't yet mismatched (this mirrors the reference
// semantics described in the specification's ordering notes and is
// preserved even though it reads as surprising). A
// qualified version is less than the same unqualified version; two
// qualified versions compare by (order, number), and an unknown
// qualifier name (order -1) makes the comparison fail.
func (v Version) Compare(o Version) (int, error) {
	if v.invalid || o.invalid {
		return 0, &InvalidVersionError{Literal: v.original + " vs " + o.original, Reason: "comparison requires valid versions"}
	}
	if v.wildcard || o.wildcard {
		return 0, &InvalidVersionError{Literal: v.original + " vs " + o.original, Reason: "ordering is undefined for wildcard versions"}
	}

	if v.Empty() || o.Empty() {
		switch {
		case v.Empty() && o.Empty():
			return 0, nil
		case v.Empty():
			return -1, nil
		default:
			return 1, nil
		}
	}

	for i := 0; ; i++ {
		aInf, bInf := i >= len(v.parts), i >= len(o.parts)
		if aInf && bInf {
			break
		}
		if aInf {
			return 1, nil
		}
		if bInf {
			return -1, nil
		}
		if v.parts[i] != o.parts[i] {
			if v.parts[i] < o.parts[i] {
				return -1, nil
			}
			return 1, nil
		}
	}

	vQ := v.qualifier.Kind != QualifierNone
	oQ := o.qualifier.Kind != QualifierNone
	switch {
	case vQ && !oQ:
		return -1, nil
	case !vQ && oQ:
		return 1, nil
	case !vQ && !oQ:
		return 0, nil
	}

	if v.qualifier.Order == -1 || o.qualifier.Order == -1 {
		return 0, &InvalidVersionError{Literal: v.qualifier.Name + " vs " + o.qualifier.Name, Reason: "unknown qualifier name has no defined order"}
	}
	if v.qualifier.Order != o.qualifier.Order {
		if v.qualifier.Order < o.qualifier.Order {
			return -1, nil
		}
		return 1, nil
	}
	if v.qualifier.Number != o.qualifier.Number {
		if v.qualifier.Number < o.qualifier.Number {
			return -1, nil
		}
		return 1, nil
	}
	return 0, nil
}

// LessEq reports whether v <= o, per Compare's ordering. An error from
// Compare (wildcard or invalid operand) is treated as "not less-or-equal"
// - callers that must distinguish the error case should call Compare
// directly.
func (v Version) LessEq(o Version) bool {
	if v.Equal(o) {
		return true
	}
	c, err := v.Compare(o)
	return err == nil && c <= 0
}

// String reassembles the canonical textual form of v: parts joined by
// ".", a qualifier suffix ("_name" plus a trailing number when nonzero),
// and a wildcard marker ("*", ".*", "_*", or "_name*").
func (v Version) String() string {
	var b strings.Builder
	for i, p := range v.parts {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(p))
	}

	switch v.qualifier.Kind {
	case QualifierNamed:
		b.WriteByte('_')
		b.WriteString(v.qualifier.Name)
		if v.qualifier.Number != 0 {
			b.WriteString(strconv.Itoa(v.qualifier.Number))
		}
	}

	if !v.wildcard {
		return b.String()
	}

	switch v.qualifier.Kind {
	case QualifierWildcardAny:
		if b.Len() > 0 {
			b.WriteString("_*")
		} else {
			b.WriteString("*")
		}
	case QualifierNamed:
		b.WriteByte('*')
	default:
		if b.Len() > 0 {
			b.WriteString(".*")
		} else {
			b.WriteString("*")
		}
	}
	return b.String()
}
