package dbclient

import "strings"

// DefaultDeniedVerbs are rejected unless configuration says otherwise.
var DefaultDeniedVerbs = []string{"DROP", "TRUNCATE", "DELETE", "UPDATE"}

// Guard decides whether a statement may run. It returns the offending verb when
// the statement is blocked.
type Guard interface {
	Check(statement string) (verb string, blocked bool)
}

// PrefixGuard blocks statements whose text, after trimming and upper-casing,
// starts with one of its verbs. It does not parse SQL: comments, CTEs and
// multi-statement input are not inspected past the first characters.
type PrefixGuard struct {
	verbs []string
}

// NewPrefixGuard builds a guard for verbs; empty entries are ignored.
func NewPrefixGuard(verbs ...string) *PrefixGuard {
	g := &PrefixGuard{}
	for _, v := range verbs {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			g.verbs = append(g.verbs, v)
		}
	}
	return g
}

// DefaultGuard blocks DefaultDeniedVerbs.
func DefaultGuard() *PrefixGuard {
	return NewPrefixGuard(DefaultDeniedVerbs...)
}

func (g *PrefixGuard) Check(statement string) (string, bool) {
	q := strings.ToUpper(strings.TrimSpace(statement))
	for _, verb := range g.verbs {
		if strings.HasPrefix(q, verb) {
			return verb, true
		}
	}
	return "", false
}

// Verbs returns the denied verbs in check order.
func (g *PrefixGuard) Verbs() []string {
	return append([]string(nil), g.verbs...)
}
