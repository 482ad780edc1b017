// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package claims

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

// subject is the noun phrase the paraphrase templates attach features to.
const subject = "the system"

// claimCategory selects the paraphrase template family for a claim.
type claimCategory int

const (
	categoryIndependent claimCategory = iota
	categoryDependentFurther
	categoryDependentWherein
	categoryDependentWhereinFurther
	categoryUnknown
)

// Preamble patterns. A claim body may carry its "N." number prefix; the
// patterns tolerate it so extraction works on verbatim claim text.
var (
	independentPreamble = regexp.MustCompile(
		`(?is)^\s*(?:\d+\.\s*)?an?\s+[^;:]*?,?\s*comprising:\s*`)
	dependentFurtherPreamble = regexp.MustCompile(
		`(?is)^\s*(?:\d+\.\s*)?the\s+[^;:]*?\s+of\s+claim\s+\d+,\s*further\s+comprising:\s*`)
	dependentWhereinPreamble = regexp.MustCompile(
		`(?is)^\s*(?:\d+\.\s*)?the\s+[^;:]*?\s+of\s+claim\s+\d+,\s*wherein\s+(?:the\s+)?(.+?)\s+(further\s+)?comprises:\s*`)
)

// whereinSplit finds embedded wherein clauses inside a feature body.
var whereinSplit = regexp.MustCompile(`(?i),\s*wherein\s+`)

// leadingAnd matches the "and" conjunction opening the final feature
// segment. Claim text keeps its internal line breaks, so the token may be
// followed by a newline rather than a space.
var leadingAnd = regexp.MustCompile(`(?i)^and\s+`)

// Warning records a claim that could not be fully parsed. The claim is still
// emitted (with ClaimUnknown and a single unparsed feature), never dropped.
type Warning struct {
	ClaimNumber int
	Reason      string
}

func (w Warning) String() string {
	return fmt.Sprintf("claim %d: %s", w.ClaimNumber, w.Reason)
}

// ExtractFeatures splits each claim into labeled features and paraphrases
// them into system-description form. Features are returned grouped by claim
// in claim order, then feature order; labels are C{claim}F{1-based index}.
//
// A claim whose preamble matches no recognized pattern degrades to a single
// unparsed feature with ClaimUnknown and produces a Warning.
func ExtractFeatures(claimList []types.Claim) ([]types.ClaimFeature, []Warning) {
	var (
		features []types.ClaimFeature
		warnings []Warning
	)

	for _, claim := range claimList {
		category, body, whereinAction := classify(claim.Text)

		if category == categoryUnknown {
			warnings = append(warnings, Warning{
				ClaimNumber: claim.Number,
				Reason:      "preamble matched no recognized pattern",
			})
			source := strings.TrimSpace(claim.Text)
			features = append(features, types.ClaimFeature{
				ID:            fmt.Sprintf("C%dF1", claim.Number),
				SourceText:    source,
				ConvertedText: source,
				ClaimType:     types.ClaimUnknown,
			})
			continue
		}

		claimType := types.ClaimDependent
		if category == categoryIndependent {
			claimType = types.ClaimIndependent
		}

		for i, segment := range splitFeatures(body) {
			features = append(features, types.ClaimFeature{
				ID:            fmt.Sprintf("C%dF%d", claim.Number, i+1),
				SourceText:    segment,
				ConvertedText: paraphrase(category, whereinAction, segment, i == 0),
				ClaimType:     claimType,
			})
		}
	}

	return features, warnings
}

// classify strips the claim preamble and reports which template family
// applies. For wherein-style dependent claims it also returns the action
// the wherein clause elaborates (e.g. "tagging" from "wherein the tagging
// comprises:").
func classify(text string) (claimCategory, string, string) {
	if m := dependentWhereinPreamble.FindStringSubmatch(text); m != nil {
		body := text[len(m[0]):]
		category := categoryDependentWherein
		if strings.TrimSpace(m[2]) != "" {
			category = categoryDependentWhereinFurther
		}
		return category, body, strings.TrimSpace(m[1])
	}
	if m := dependentFurtherPreamble.FindString(text); m != "" {
		return categoryDependentFurther, text[len(m):], ""
	}
	if m := independentPreamble.FindString(text); m != "" {
		return categoryIndependent, text[len(m):], ""
	}
	return categoryUnknown, "", ""
}

// splitFeatures divides a claim body into feature segments. A new feature
// starts after every ";"; the segment after a final "; and" is the last
// feature; a trailing "." terminates the set.
func splitFeatures(body string) []string {
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, ".")

	var segments []string
	for _, part := range strings.Split(body, ";") {
		part = strings.TrimSpace(part)
		part = leadingAnd.ReplaceAllString(part, "")
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// paraphrase renders one feature segment through the template selected by
// claim category and feature position, applying the standard text
// transforms: gerund reduction after "configured to", wherein clauses split
// into separate "The ..." sentences, and comprise->include inside those
// sentences.
func paraphrase(category claimCategory, whereinAction, segment string, first bool) string {
	main, whereinClauses := splitWherein(segment)
	action := reduceLeadingGerund(lowerFirst(strings.TrimSpace(main)))

	further := ""
	if !first || category == categoryDependentWhereinFurther {
		further = "further "
	}

	var sentence string
	switch category {
	case categoryIndependent:
		sentence = fmt.Sprintf("%s is %sconfigured to %s.", capitalize(subject), further, action)
	case categoryDependentFurther:
		sentence = fmt.Sprintf("In an embodiment, %s is %sconfigured to %s.", subject, further, action)
	case categoryDependentWherein, categoryDependentWhereinFurther:
		sentence = fmt.Sprintf("In an embodiment, to %s, %s is %sconfigured to %s.",
			lowerFirst(whereinAction), subject, further, action)
	}

	for _, clause := range whereinClauses {
		sentence += " " + whereinSentence(clause)
	}
	return sentence
}

// splitWherein separates a feature into its main clause and any embedded
// ", wherein ..." clauses.
func splitWherein(segment string) (string, []string) {
	locs := whereinSplit.FindAllStringIndex(segment, -1)
	if len(locs) == 0 {
		return segment, nil
	}

	var clauses []string
	main := segment[:locs[0][0]]
	for i, loc := range locs {
		end := len(segment)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		clauses = append(clauses, strings.TrimSpace(segment[loc[1]:end]))
	}
	return main, clauses
}

// whereinSentence turns a wherein clause into a standalone sentence
// beginning "The ...", replacing comprise(s) with include(s).
func whereinSentence(clause string) string {
	clause = strings.TrimSpace(clause)
	clause = strings.TrimSuffix(clause, ".")
	for _, lead := range []string{"the ", "The "} {
		clause = strings.TrimPrefix(clause, lead)
	}

	clause = strings.ReplaceAll(clause, "comprises", "includes")
	clause = strings.ReplaceAll(clause, "comprise", "include")

	return "The " + clause + "."
}

// reduceLeadingGerund converts a leading gerund to its base form so it reads
// naturally after "configured to" (tagging -> tag, executing -> execute).
func reduceLeadingGerund(text string) string {
	word, rest, _ := strings.Cut(text, " ")
	base := gerundToBase(word)
	if rest == "" {
		return base
	}
	return base + " " + rest
}

// gerundToBase applies a heuristic inverse of gerund formation: strip "ing",
// undo consonant doubling, and restore a dropped final "e" for stems ending
// consonant-vowel-consonant.
func gerundToBase(word string) string {
	lower := strings.ToLower(word)
	if len(lower) <= 4 || !strings.HasSuffix(lower, "ing") {
		return word
	}

	stem := word[:len(word)-3]
	n := len(stem)

	if n >= 2 && stem[n-1] == stem[n-2] && !strings.ContainsRune("lsz", rune(stem[n-1])) {
		return stem[:n-1]
	}
	if stem[n-1] == 'v' {
		return stem + "e"
	}
	if n >= 3 && isConsonant(stem[n-1]) && isVowel(stem[n-2]) && isConsonant(stem[n-3]) &&
		!strings.ContainsRune("wxy", rune(stem[n-1])) {
		return stem + "e"
	}
	return stem
}

func isVowel(c byte) bool {
	return strings.IndexByte("aeiouAEIOU", c) >= 0
}

func isConsonant(c byte) bool {
	return (c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') && !isVowel(c)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
