// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the drafting engine:
// patent claims and claim features, document sections with their
// paragraph records, the fixed stage order, and stage configuration.
package types

// ClaimType classifies a patent claim by how it stands relative to
// other claims.
type ClaimType string

const (
	// ClaimIndependent is a claim that stands alone ("A method, comprising:").
	ClaimIndependent ClaimType = "independent"

	// ClaimDependent incorporates another claim by reference
	// ("The method of claim 1, further comprising:").
	ClaimDependent ClaimType = "dependent"

	// ClaimUnknown marks a claim whose preamble matched no recognized
	// pattern. Such claims are carried through unparsed rather than dropped.
	ClaimUnknown ClaimType = "unknown"
)

// Claim is one numbered patent claim. Text is preserved verbatim from the
// source document, including internal line breaks and spacing.
type Claim struct {
	// Number is the caller-assigned claim number, unique within a document.
	Number int `json:"number" yaml:"number"`

	// Text is the full claim text exactly as it appeared in the source.
	Text string `json:"text" yaml:"text"`
}

// ClaimFeature is one atomic clause of a claim, labeled C{claim}F{index}.
// Features are immutable once created; sequencing reorders them by
// reference only.
type ClaimFeature struct {
	// ID is the feature label, e.g. "C1F2" for claim 1, feature 2.
	ID string `json:"id" yaml:"id"`

	// SourceText is the clause as it appeared in the claim body.
	SourceText string `json:"source_text" yaml:"source_text"`

	// ConvertedText is the clause paraphrased into system-description form.
	ConvertedText string `json:"converted_text" yaml:"converted_text"`

	// ClaimType records whether the owning claim is independent, dependent,
	// or unrecognized.
	ClaimType ClaimType `json:"claim_type" yaml:"claim_type"`
}
