// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package claims parses patent claims documents and converts claims into
// labeled, paraphrased claim features.
package claims

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/drafting-engine/pkg/types"
)

// TitleNotFound is the sentinel stored when no title of invention could be
// located in the source document.
const TitleNotFound = "TITLE NOT FOUND"

// ErrNoClaimsSection indicates the document contains no recognizable claims
// marker ("WHAT IS CLAIMED", "CLAIMS", "WE CLAIM", "WHAT IS DEFINED").
var ErrNoClaimsSection = errors.New("no claims section found in document")

// claimsMarkers are the section headers that introduce the claims, matched
// case-insensitively against a whole line.
var claimsMarkers = []string{
	"WHAT IS CLAIMED",
	"WHAT IS DEFINED",
	"WE CLAIM",
	"CLAIMS",
}

// claimStartPattern matches the start of a numbered claim: "1. A method...".
var claimStartPattern = regexp.MustCompile(`^(\d+)\.\s+`)

// Document is the parsed form of an uploaded claims document: the title of
// invention and the numbered claims with their text preserved verbatim.
type Document struct {
	Title  string
	Claims []types.Claim
}

// ParseDocument extracts the title of invention and the numbered claims from
// the plain text of a claims document. Claim text is preserved exactly,
// including internal line breaks. The title is the last mostly-uppercase
// line of 10-200 characters before the claims marker; when none qualifies
// the TitleNotFound sentinel is returned in its place.
func ParseDocument(text string) (*Document, error) {
	lines := strings.Split(text, "\n")

	markerIdx := -1
	for i, line := range lines {
		if isClaimsMarker(line) {
			markerIdx = i
			break
		}
	}
	if markerIdx < 0 {
		return nil, ErrNoClaimsSection
	}

	return &Document{
		Title:  extractTitle(lines[:markerIdx]),
		Claims: extractClaims(lines[markerIdx+1:]),
	}, nil
}

func isClaimsMarker(line string) bool {
	upper := strings.ToUpper(strings.TrimSpace(line))
	for _, marker := range claimsMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// extractTitle picks the title of invention from the lines preceding the
// claims marker: the last line that is 10-200 characters and at least 80%
// uppercase among its letters.
func extractTitle(lines []string) string {
	title := ""
	for _, line := range lines {
		text := strings.TrimSpace(line)
		if len(text) <= 10 || len(text) >= 200 {
			continue
		}
		var letters, upper int
		for _, r := range text {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					upper++
				}
			}
		}
		if letters > 0 && float64(upper)/float64(letters) > 0.8 {
			title = text
		}
	}
	if title == "" {
		return TitleNotFound
	}
	return title
}

// extractClaims splits the lines after the claims marker into numbered
// claims. A claim runs from its "N. " prefix to the next such prefix; all
// interior lines, including blank ones, are kept verbatim.
func extractClaims(lines []string) []types.Claim {
	var (
		claims  []types.Claim
		current []string
		number  int
	)

	flush := func() {
		if number == 0 || len(current) == 0 {
			return
		}
		claims = append(claims, types.Claim{
			Number: number,
			Text:   strings.Join(current, "\n"),
		})
	}

	for _, line := range lines {
		if m := claimStartPattern.FindStringSubmatch(line); m != nil {
			flush()
			number = atoiSafe(m[1])
			current = []string{line}
			continue
		}
		if number == 0 {
			continue // text before the first numbered claim
		}
		if strings.TrimSpace(line) == "" && len(current) == 0 {
			continue
		}
		current = append(current, line)
	}
	flush()

	// Trim trailing blank lines each claim may have accumulated.
	for i := range claims {
		claims[i].Text = strings.TrimRight(claims[i].Text, " \t\n")
	}

	return claims
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
