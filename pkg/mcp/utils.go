package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unowned-ai/memos/pkg/memos"
)

// memoView is the wire form of a memo: timestamps as ISO strings.
type memoView struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Label     string   `json:"categoryLabel"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

func toView(m memos.Memo) memoView {
	return memoView{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Category:  m.Category,
		Label:     memos.LookupCategory(m.Category).Label,
		Tags:      m.Tags,
		CreatedAt: memos.FormatTimestamp(m.CreatedAt),
		UpdatedAt: memos.FormatTimestamp(m.UpdatedAt),
	}
}

func toViews(list []memos.Memo) []memoView {
	views := make([]memoView, len(list))
	for i, m := range list {
		views[i] = toView(m)
	}
	return views
}

// jsonResult serializes v as the text content of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize result to JSON: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// resolveMemo finds a memo by full ID or unique ID prefix. A nil memo with
// a nil error means it does not exist.
func resolveMemo(ctx context.Context, db *sql.DB, id string) (*memos.Memo, error) {
	memo, err := memos.GetMemo(ctx, db, id)
	if err == nil {
		return &memo, nil
	}
	if !errors.Is(err, memos.ErrMemoNotFound) {
		return nil, err
	}
	memo, err = memos.GetMemoByPrefix(ctx, db, id)
	if errors.Is(err, memos.ErrMemoNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &memo, nil
}

// stringArg returns the argument and whether the caller sent it.
func stringArg(request mcp.CallToolRequest, name string) (string, bool) {
	v, ok := request.GetArguments()[name].(string)
	return v, ok
}

// tagsArg accepts tags as a JSON array or a comma-separated string.
func tagsArg(request mcp.CallToolRequest) ([]string, bool) {
	raw, ok := request.GetArguments()["tags"]
	if !ok || raw == nil {
		return nil, false
	}
	switch v := raw.(type) {
	case string:
		return memos.ParseTagList(v), true
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return memos.NormalizeTags(tags), true
	case []string:
		return memos.NormalizeTags(v), true
	}
	return nil, false
}
