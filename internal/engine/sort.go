package engine

import (
	"strings"

	"github.com/mediadex/mediadex/internal/domain/search/filter"
	"github.com/mediadex/mediadex/internal/domain/search/sortspec"
)

// Comparator compiles a sort specification into a comparison function over
// documents. The spec's declared kind decides how values compare; a
// document missing the field compares equal, keeping ties stable.
func Comparator[T filter.Document](spec sortspec.Spec) func(a, b T) int {
	field := spec.By
	kind := spec.Kind()
	asc := spec.Asc

	return func(a, b T) int {
		va, okA := a.Property(field)
		vb, okB := b.Property(field)
		if !okA || !okB {
			return 0
		}

		var cmp int
		switch kind {
		case sortspec.String:
			sa, okA := va.(string)
			sb, okB := vb.(string)
			if !okA || !okB {
				return 0
			}
			cmp = strings.Compare(sa, sb)
		default:
			na, okA := asNumber(va)
			nb, okB := asNumber(vb)
			if !okA || !okB {
				return 0
			}
			switch {
			case na < nb:
				cmp = -1
			case na > nb:
				cmp = 1
			}
		}

		if !asc {
			cmp = -cmp
		}
		return cmp
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
