package diff

import (
	"fmt"
	"strings"

	"github.com/openshelf/openshelf/pkg/bib"
)

// FieldDiff is one proposed field-level change between the stored record
// and the candidate. It exists only when the candidate value is non-empty
// and materially different from the current value.
type FieldDiff struct {
	Key       string   `json:"key"`
	Category  Category `json:"category"`
	Current   any      `json:"current,omitempty"`
	Candidate any      `json:"candidate"`
	NewField  bool     `json:"new_field"` // true iff the current value was empty
}

// Compute compares the flat view of a stored record against a candidate
// over the given allow list (nil means the default enrichable set) and
// returns the differences in allow-list order.
//
// The comparison never proposes removing data: an empty candidate value
// emits nothing regardless of the current value, and for list fields only
// candidate additions count (current superset of candidate means no diff).
func Compute(current map[string]any, candidate *bib.CandidateRecord, allowList []string) []FieldDiff {
	if candidate == nil {
		return nil
	}
	if allowList == nil {
		allowList = enrichableFields
	}

	candidateFlat := flattenCandidate(candidate)

	var diffs []FieldDiff
	for _, key := range allowList {
		candValue, ok := candidateFlat[key]
		if !ok || isEmpty(candValue) {
			// The provider did not supply this field.
			continue
		}

		currValue := current[key]
		if isEmpty(currValue) {
			diffs = append(diffs, FieldDiff{
				Key:       key,
				Category:  CategoryOf(key),
				Current:   currValue,
				Candidate: candValue,
				NewField:  true,
			})
			continue
		}

		if differs(currValue, candValue) {
			diffs = append(diffs, FieldDiff{
				Key:       key,
				Category:  CategoryOf(key),
				Current:   currValue,
				Candidate: candValue,
			})
		}
	}
	return diffs
}

// isEmpty implements the engine's emptiness rule: absent, empty string,
// empty list, or an unset numeric count.
func isEmpty(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(value) == ""
	case []string:
		return len(value) == 0
	case []any:
		return len(value) == 0
	case int:
		return value == 0
	default:
		return false
	}
}

// differs applies the type-aware difference rule to two non-empty values.
func differs(current, candidate any) bool {
	// List-valued fields: one-directional "does the candidate add
	// anything" test, deliberately not symmetric set equality, so user
	// curation is never proposed for removal.
	if currList, ok := toList(current); ok {
		candList, _ := toList(candidate)
		existing := make(map[string]bool, len(currList))
		for _, s := range currList {
			existing[normalizeElement(s)] = true
		}
		for _, s := range candList {
			if !existing[normalizeElement(s)] {
				return true
			}
		}
		return false
	}

	// String-valued fields: trimmed, case-insensitive.
	if currStr, ok := current.(string); ok {
		if candStr, ok := candidate.(string); ok {
			return !strings.EqualFold(strings.TrimSpace(currStr), strings.TrimSpace(candStr))
		}
	}

	// Everything else falls back to string form.
	return fmt.Sprint(current) != fmt.Sprint(candidate)
}

// toList normalizes the supported list shapes to []string.
func toList(v any) ([]string, bool) {
	switch value := v.(type) {
	case []string:
		return value, true
	case []any:
		list := make([]string, 0, len(value))
		for _, el := range value {
			list = append(list, fmt.Sprint(el))
		}
		return list, true
	default:
		return nil, false
	}
}

// normalizeElement is the object-to-string normalization applied to list
// elements before membership testing.
func normalizeElement(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
