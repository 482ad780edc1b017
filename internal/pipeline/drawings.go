// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"strings"
)

// Fixed summary-paraphrase closing paragraphs. These follow the paraphrased
// claim paragraph in every draft; their wording is standard boilerplate.
const (
	summaryClosingSystems = "Further aspects of the present disclosure are directed to systems and computer program products containing functionality consistent with the method described above."

	summaryClosingFeatures = "Additional technical features and benefits are realized through the techniques of the disclosure. Embodiments and aspects of the disclosure are described in detail herein and are considered a part of the claimed subject matter. For a better understanding, refer to the detailed description and the drawings."
)

// ComposeSummaryParaphrase appends the two fixed closing paragraphs to the
// paraphrased claim text, producing the full summary-paraphrase section
// content.
func ComposeSummaryParaphrase(paraphrased string) string {
	return strings.TrimSpace(paraphrased) + "\n\n" + summaryClosingSystems + "\n\n" + summaryClosingFeatures
}

// BuildDrawingsSection assembles the standard brief-description-of-drawings
// text for a title and a list of scenario figure descriptions. Figures 1
// and 2 are the fixed environment diagrams, figures 3 onward cover the
// scenarios, and the final two figures are the flowcharts. The returned
// text is unnumbered; the drawings stage numbers it with the
// patent-global strategy on save.
func BuildDrawingsSection(title string, scenarioDescriptions []string) string {
	lower := strings.ToLower(title)

	paragraphs := []string{
		"The following description will provide details of preferred embodiments with reference to the following figures, wherein:",
		fmt.Sprintf("FIG. 1 is a diagram that illustrates a computing environment for %s, in accordance with various embodiments of the disclosure;", lower),
		fmt.Sprintf("FIG. 2 is a diagram that illustrates an environment for %s, in accordance with various embodiments of the disclosure;", lower),
	}

	fig := 3
	for _, desc := range scenarioDescriptions {
		desc = strings.TrimSpace(desc)
		if desc == "" {
			continue
		}
		paragraphs = append(paragraphs,
			fmt.Sprintf("FIG. %d is a diagram that illustrates %s, in accordance with an embodiment of the disclosure;", fig, desc))
		fig++
	}

	paragraphs = append(paragraphs,
		fmt.Sprintf("FIG. %d is a diagram that illustrates a flowchart of a set of operations for %s, in accordance with an embodiment of the disclosure; and", fig, lower),
		fmt.Sprintf("FIG. %d is a diagram that illustrates a flowchart of a set of operations for %s, in accordance with an alternative embodiment of the disclosure.", fig+1, lower),
	)

	return strings.Join(paragraphs, "\n\n")
}
