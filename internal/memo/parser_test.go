package memo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParse_LabeledSectionsAndReferences(t *testing.T) {
	text := "PART I: Issue text\nPART II: Facts text\nREFERENCES:\n- Source A\n- Source B"

	m := Parse(text)

	assert.Equal(t, "Issue text", m.Issue)
	assert.Equal(t, "Facts text", m.Facts)
	assert.Empty(t, m.Analysis)
	assert.Empty(t, m.Actions)
	assert.Equal(t, []string{"Source A", "Source B"}, m.References)
}

func TestParse_AllFourParts(t *testing.T) {
	text := `PART I - Statement of the Issue
The sleigh crossed restricted airspace.

PART II — Findings of Fact
Three reindeer were unlicensed.

part iii: Analysis
Regulation 14 C.F.R. applies.

PART IV Recommended Actions
File form 27-B before departure.

References
1. Airspace Act of 1958
2) Reindeer Welfare Handbook
`

	m := Parse(text)

	assert.Equal(t, "Statement of the Issue\nThe sleigh crossed restricted airspace.", m.Issue)
	assert.Equal(t, "Findings of Fact\nThree reindeer were unlicensed.", m.Facts)
	assert.Equal(t, "Analysis\nRegulation 14 C.F.R. applies.", m.Analysis)
	assert.Equal(t, "Recommended Actions\nFile form 27-B before departure.", m.Actions)
	assert.Equal(t, []string{"Airspace Act of 1958", "Reindeer Welfare Handbook"}, m.References)
}

func TestParse_FallbackToIssue(t *testing.T) {
	m := Parse("Hello elves")

	assert.Equal(t, "Hello elves", m.Issue)
	assert.Empty(t, m.Facts)
	assert.Empty(t, m.Analysis)
	assert.Empty(t, m.Actions)
	assert.Empty(t, m.References)
}

func TestParse_Idempotent(t *testing.T) {
	text := "PART I: A\nPART III: C\nREFERENCES:\n* one\n\n* two"

	first := Parse(text)
	second := Parse(text)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("parse not idempotent (-first +second):\n%s", diff)
	}
}

func TestParse_CRLFNormalization(t *testing.T) {
	m := Parse("PART I: Issue\r\nPART II: Facts\r\n")
	assert.Equal(t, "Issue", m.Issue)
	assert.Equal(t, "Facts", m.Facts)
}

func TestParse_PartOneDoesNotMatchPartTwo(t *testing.T) {
	// Only PART II present: Issue must stay empty, not swallow Facts.
	m := Parse("PART II: Facts only")
	assert.Empty(t, m.Issue)
	assert.Equal(t, "Facts only", m.Facts)
}

func TestParse_SectionStopsAtReferences(t *testing.T) {
	m := Parse("PART IV: wrap it up\nREFERENCES:\n- src")
	assert.Equal(t, "wrap it up", m.Actions)
	assert.Equal(t, []string{"src"}, m.References)
}

func TestParse_ReferenceBulletStripping(t *testing.T) {
	text := "PART I: x\nREFERENCES:\n- dashed\n* starred\n• dotted\n3. numbered\n1998 Annual Report\n\n   \n"

	m := Parse(text)

	assert.Equal(t, []string{"dashed", "starred", "dotted", "numbered", "1998 Annual Report"}, m.References)
}

func TestParse_EmptyInput(t *testing.T) {
	m := Parse("")
	assert.True(t, m.Empty())
	assert.Empty(t, m.Issue)
	assert.Empty(t, m.References)
}

func TestParse_StreamingPrefixesDegradeGracefully(t *testing.T) {
	// Early deltas of a streamed draft: no labels yet, then labels.
	early := Parse("Drafting the memo now. PART")
	assert.Equal(t, "Drafting the memo now. PART", early.Issue)

	later := Parse("Drafting the memo now. PART I: the issue")
	assert.Equal(t, "the issue", later.Issue)
}
