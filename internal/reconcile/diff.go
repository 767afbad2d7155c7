package reconcile

import "github.com/bloxops/b1apply/internal/bloxone"

// Changed reports whether existing differs from the desired payload.
// Only fields present in the payload with a non-nil value are compared;
// everything else on the remote object is left alone. Lists are compared
// element-wise after a length check (order matters), nested maps recurse.
func Changed(existing, payload bloxone.Object) bool {
	for k, v := range payload {
		if v == nil {
			continue
		}
		cur, ok := existing[k]
		if !ok {
			return true
		}
		if valueChanged(cur, v) {
			return true
		}
	}
	return false
}

func valueChanged(existing, desired any) bool {
	switch want := desired.(type) {
	case map[string]any:
		cur, ok := existing.(map[string]any)
		if !ok {
			return true
		}
		return Changed(cur, want)

	case []any:
		cur, ok := existing.([]any)
		if !ok || len(cur) != len(want) {
			return true
		}
		for i := range want {
			if valueChanged(cur[i], want[i]) {
				return true
			}
		}
		return false

	default:
		return !scalarEqual(existing, desired)
	}
}

// scalarEqual compares scalar values, treating numeric types as equal when
// their values match. JSON decoding yields float64 while manifests may
// carry int, so 300 and 300.0 must compare equal.
func scalarEqual(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
