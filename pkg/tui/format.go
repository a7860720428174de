package tui

import (
	"time"
)

const (
	// PreviewLength is the number of characters a card shows before "...".
	PreviewLength = 100
	// MaxCardTags is the number of tag chips a card shows before "+N".
	MaxCardTags = 3

	// DeletePrompt is asked before a card deletes its memo.
	DeletePrompt = "Are you sure you want to delete this memo?"
)

// MonthStyle selects the month form used by FormatDate.
type MonthStyle int

const (
	// MonthShort renders "Jan 2, 2006, 03:04 PM" (cards).
	MonthShort MonthStyle = iota
	// MonthLong renders "January 2, 2006 at 03:04 PM" (viewer).
	MonthLong
)

// FormatDate renders t in the fixed en-US form. A nil loc means local time.
func FormatDate(t time.Time, style MonthStyle, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	if style == MonthLong {
		return t.Format("January 2, 2006 at 03:04 PM")
	}
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// Preview cuts content to PreviewLength characters and marks the cut with
// "...". Shorter content is returned unchanged.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewLength {
		return content
	}
	return string(runes[:PreviewLength]) + "..."
}

// VisibleTags splits tags into the chips a card shows and the count of the
// ones it hides.
func VisibleTags(tags []string) (shown []string, more int) {
	if len(tags) <= MaxCardTags {
		return tags, 0
	}
	return tags[:MaxCardTags], len(tags) - MaxCardTags
}
