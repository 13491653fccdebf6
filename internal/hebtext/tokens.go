package hebtext

import (
	"regexp"
	"strings"
)

// Token is a word with its byte span in the source string.
type Token struct {
	Text  string
	Start int
	End   int
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokens splits s into word tokens with byte offsets.
func Tokens(s string) []Token {
	idxs := tokenPattern.FindAllStringIndex(s, -1)
	toks := make([]Token, 0, len(idxs))
	for _, ix := range idxs {
		toks = append(toks, Token{Text: s[ix[0]:ix[1]], Start: ix[0], End: ix[1]})
	}
	return toks
}

// stopWords are Hebrew function words that carry no search intent. The set
// deliberately excludes standalone letters that can begin company names.
var stopWords = map[string]bool{
	"של":     true,
	"את":     true,
	"על":     true,
	"עם":     true,
	"אל":     true,
	"אם":     true,
	"או":     true,
	"גם":     true,
	"כל":     true,
	"זה":     true,
	"זו":     true,
	"זאת":    true,
	"הוא":    true,
	"היא":    true,
	"הם":     true,
	"הן":     true,
	"אני":    true,
	"אנחנו":  true,
	"אתה":    true,
	"אתם":    true,
	"יש":     true,
	"אין":    true,
	"היה":    true,
	"היו":    true,
	"הייתה":  true,
	"להיות":  true,
	"אשר":    true,
	"כי":     true,
	"אבל":    true,
	"רק":     true,
	"עוד":    true,
	"כבר":    true,
	"מאוד":   true,
	"יותר":   true,
	"פחות":   true,
	"כמו":    true,
	"בין":    true,
	"אצל":    true,
	"אחרי":   true,
	"לפני":   true,
	"בתוך":   true,
	"אולי":   true,
	"אנא":    true,
	"בבקשה":  true,
	"תראה":   true,
	"תראי":   true,
	"תן":     true,
	"תני":    true,
	"לי":     true,
	"לנו":    true,
	"הצג":    true,
	"הציגי":  true,
	"חפש":    true,
	"חפשי":   true,
	"מצא":    true,
	"מצאי":   true,
	"רוצה":   true,
	"מחפש":   true,
	"מחפשת":  true,
	"צריך":   true,
	"צריכה":  true,
	"מעוניין": true,
}

// IsStopWord reports whether w is a Hebrew function word.
func IsStopWord(w string) bool {
	return stopWords[strings.ToLower(w)]
}

// RemoveStopWords drops function-word tokens from an already-normalized
// string, preserving the order and spacing of the rest.
func RemoveStopWords(s string) string {
	fields := strings.Fields(s)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if !stopWords[strings.ToLower(f)] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
