// Package memo parses free-form drafting output into a structured
// compliance memo. Parsing is stateless and idempotent: the full
// assistant text is re-parsed from scratch on every stream delta.
package memo

import (
	"regexp"
	"strings"
)

// Memo is the structured view of a drafted compliance filing.
type Memo struct {
	Issue      string
	Facts      string
	Analysis   string
	Actions    string
	References []string
	Raw        string
}

// Empty reports whether nothing has been drafted yet.
func (m Memo) Empty() bool {
	return m.Raw == ""
}

// Section labels in document order. Matching is case-insensitive and
// tolerates an optional colon/dash separator after the label. The \b
// after the numeral keeps "PART I" from matching inside "PART II".
var partPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)PART\s+I\b\s*[:\-–—]?`),
	regexp.MustCompile(`(?i)PART\s+II\b\s*[:\-–—]?`),
	regexp.MustCompile(`(?i)PART\s+III\b\s*[:\-–—]?`),
	regexp.MustCompile(`(?i)PART\s+IV\b\s*[:\-–—]?`),
}

var referencesPattern = regexp.MustCompile(`(?i)REFERENCES\b\s*[:\-–—]?`)

// A reference line may start with a bullet character or "1." / "2)"
// numbering; only that prefix is stripped, so years and figures at the
// start of a plain line survive.
var bulletPrefix = regexp.MustCompile(`^\s*(?:[-*•–—]|\d+[.)])\s*`)

type marker struct {
	part  int // 0..3 for PART I..IV, -1 for REFERENCES
	start int
	end   int
}

// Parse extracts the four labeled sections and the reference list from
// draft text. When no PART label is present the entire text becomes the
// Issue field verbatim; upstream drafting output is free-form and may
// arrive before the outline does.
func Parse(text string) Memo {
	normalized := normalize(text)
	m := Memo{Raw: normalized}
	if strings.TrimSpace(normalized) == "" {
		m.Raw = normalized
		return m
	}

	markers := findMarkers(normalized)

	anyPart := false
	for _, mk := range markers {
		if mk.part >= 0 {
			anyPart = true
			break
		}
	}
	if !anyPart {
		m.Issue = strings.TrimSpace(normalized)
		m.References = parseReferences(normalized, markers)
		return m
	}

	for i, mk := range markers {
		sectionEnd := len(normalized)
		if i+1 < len(markers) {
			sectionEnd = markers[i+1].start
		}
		body := strings.TrimSpace(normalized[mk.end:sectionEnd])
		switch mk.part {
		case 0:
			m.Issue = body
		case 1:
			m.Facts = body
		case 2:
			m.Analysis = body
		case 3:
			m.Actions = body
		}
	}

	m.References = parseReferences(normalized, markers)
	return m
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// findMarkers locates the first occurrence of each recognized label,
// ordered by position in the text.
func findMarkers(text string) []marker {
	var markers []marker
	for part, re := range partPatterns {
		if loc := re.FindStringIndex(text); loc != nil {
			markers = append(markers, marker{part: part, start: loc[0], end: loc[1]})
		}
	}
	if loc := referencesPattern.FindStringIndex(text); loc != nil {
		markers = append(markers, marker{part: -1, start: loc[0], end: loc[1]})
	}

	// Insertion sort by position; at most five markers.
	for i := 1; i < len(markers); i++ {
		for j := i; j > 0 && markers[j].start < markers[j-1].start; j-- {
			markers[j], markers[j-1] = markers[j-1], markers[j]
		}
	}
	return markers
}

func parseReferences(text string, markers []marker) []string {
	var refStart = -1
	for _, mk := range markers {
		if mk.part == -1 {
			refStart = mk.end
			break
		}
	}
	if refStart < 0 {
		return nil
	}

	var refs []string
	for _, line := range strings.Split(text[refStart:], "\n") {
		line = bulletPrefix.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		refs = append(refs, line)
	}
	return refs
}
