package service

import "strings"

// Calendar entries created by Realite carry a marker block at the end of the
// provider description so they can be recognized and updated on later syncs.
// The block is line-oriented:
//
//	--- realite ---
//	url: https://realite.app/e/abc
//	type: suggestion
//	--- /realite ---

const (
	metadataMarkerStart = "--- realite ---"
	metadataMarkerEnd   = "--- /realite ---"
)

// CalendarMetadata is the payload embedded into a provider description.
type CalendarMetadata struct {
	Description string
	URL         string
	Type        string
}

// BuildRealiteCalendarMetadata renders the description with the marker block
// appended. The plain description is stripped first so building from an
// already-stamped description never doubles the block.
func BuildRealiteCalendarMetadata(m CalendarMetadata) string {
	plain := StripRealiteCalendarMetadata(m.Description).Description

	var b strings.Builder
	if plain != "" {
		b.WriteString(plain)
		b.WriteString("\n\n")
	}
	b.WriteString(metadataMarkerStart)
	b.WriteString("\nurl: ")
	b.WriteString(m.URL)
	b.WriteString("\ntype: ")
	b.WriteString(m.Type)
	b.WriteString("\n")
	b.WriteString(metadataMarkerEnd)
	return b.String()
}

// StripRealiteCalendarMetadata splits a provider description into the plain
// text and the embedded metadata, if any. Applying it to an already-stripped
// description is a no-op.
func StripRealiteCalendarMetadata(description string) CalendarMetadata {
	start := strings.Index(description, metadataMarkerStart)
	if start == -1 {
		return CalendarMetadata{Description: description}
	}

	meta := CalendarMetadata{
		Description: strings.TrimRight(description[:start], " \t\n"),
	}

	block := description[start+len(metadataMarkerStart):]
	if end := strings.Index(block, metadataMarkerEnd); end != -1 {
		block = block[:end]
	}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "url: "):
			meta.URL = strings.TrimPrefix(line, "url: ")
		case strings.HasPrefix(line, "type: "):
			meta.Type = strings.TrimPrefix(line, "type: ")
		}
	}

	return meta
}
