package summarize

import (
	"fmt"
	"strings"
)

// Kind selects the summary style. The set is closed: unknown values are
// rejected at parse time instead of falling back to a default.
type Kind string

const (
	KindExecutive     Kind = "executive"
	KindTechnical     Kind = "technical"
	KindBulletPoints  Kind = "bullet_points"
	KindAcademic      Kind = "academic"
	KindSimplified    Kind = "simplified"
	KindComprehensive Kind = "comprehensive"
)

// Kinds lists every valid summary kind, in display order.
var Kinds = []Kind{
	KindExecutive,
	KindTechnical,
	KindBulletPoints,
	KindAcademic,
	KindSimplified,
	KindComprehensive,
}

// ParseKind validates a user-supplied kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Kinds {
		if k == valid {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown summary kind %q (valid: %s)", s, kindNames())
}

func kindNames() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
