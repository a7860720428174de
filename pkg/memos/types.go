package memos

import (
	"time"
)

// Memo is a single note: a markdown body with a category and free-form tags.
type Memo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ShortID returns the first six characters of the ID, enough to address a
// memo from the command line.
func (m Memo) ShortID() string {
	if len(m.ID) < 6 {
		return m.ID
	}
	return m.ID[:6]
}

// NewMemo holds the fields for creating a memo.
type NewMemo struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

// MemoUpdate carries a partial update; nil fields keep their current value.
type MemoUpdate struct {
	Title    *string
	Content  *string
	Category *string
	Tags     *[]string
}

// ListQuery narrows ListMemos. Zero values mean "no filter".
type ListQuery struct {
	Category string
	Tag      string
	Limit    int
}

// TagCount is a tag with the number of memos carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ParseTimestamp parses the ISO form used on the wire (RFC 3339, with or
// without fractional seconds).
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatTimestamp renders t in the ISO wire form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
