package bib

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer lowercases and strips diacritics so "Émile" and "emile"
// normalize to the same key. Transformers are not safe for concurrent use,
// so a fresh chain is built per call.
func foldTransformer() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Fold(),
		norm.NFC,
	)
}

// FoldValue normalizes a string for comparison: trim, case-fold, strip
// diacritics, collapse internal whitespace.
func FoldValue(s string) string {
	folded, _, err := transform.String(foldTransformer(), strings.TrimSpace(s))
	if err != nil {
		folded = strings.ToLower(strings.TrimSpace(s))
	}
	return strings.Join(strings.Fields(folded), " ")
}

// leading articles dropped when building grouping keys.
var titleArticles = []string{"the ", "a ", "an "}

// NormalizeTitle normalizes a title for duplicate grouping: folded form
// with any leading English article removed.
func NormalizeTitle(title string) string {
	t := FoldValue(title)
	for _, article := range titleArticles {
		if strings.HasPrefix(t, article) {
			t = t[len(article):]
			break
		}
	}
	return t
}

// NormalizeName normalizes a personal name for duplicate grouping. A single
// "Surname, Given" inversion is flipped so "Tolkien, J. R. R." and
// "J. R. R. Tolkien" produce the same key.
func NormalizeName(name string) string {
	n := strings.TrimSpace(name)
	if before, after, found := strings.Cut(n, ","); found && !strings.Contains(after, ",") {
		n = strings.TrimSpace(after) + " " + strings.TrimSpace(before)
	}
	return FoldValue(n)
}

// GroupKey builds the duplicate-grouping key for a title+author pair. The
// key is a pure function of its inputs.
func GroupKey(title, author string) string {
	return NormalizeTitle(title) + "|" + NormalizeName(author)
}
