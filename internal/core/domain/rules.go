package domain

// rule is one named check of an ordered validation pipeline. check receives
// the candidate after every earlier rule has passed, so a rule may rely on
// fields validated before it. It returns an empty reason on success.
type rule[T any] struct {
	name  string
	field string
	check func(candidate T) string
}

// runRules applies rules in order and stops at the first failure.
func runRules[T any](candidate T, rules []rule[T]) error {
	for _, r := range rules {
		if reason := r.check(candidate); reason != "" {
			return newValidationError(r.field, reason)
		}
	}
	return nil
}
