package memos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	insertTagStatement = `
	INSERT INTO memo_tags (memo_id, position, tag)
	VALUES (?, ?, ?)
	`

	deleteTagsStatement = `
	DELETE FROM memo_tags
	WHERE memo_id = ?
	`

	listTagsStatement = `
	SELECT tag, COUNT(*) AS memo_count
	FROM memo_tags
	GROUP BY tag
	ORDER BY memo_count DESC, tag ASC
	`
)

// NormalizeTag trims whitespace and a leading '#'. Case is kept: tags are
// free-form.
func NormalizeTag(tag string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// NormalizeTags normalizes every tag, drops empties and repeated tags, and
// keeps the first-seen order.
func NormalizeTags(tags []string) []string {
	normalized := lo.Map(tags, func(t string, _ int) string { return NormalizeTag(t) })
	return lo.Uniq(lo.Compact(normalized))
}

// ParseTagList splits a comma-separated tag list as typed on the command
// line or in the board's edit form.
func ParseTagList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(s, ","))
}

// SetMemoTags replaces the memo's tags, keeping their order.
func SetMemoTags(ctx context.Context, db *sql.DB, id string, tags []string) (Memo, error) {
	return UpdateMemo(ctx, db, id, MemoUpdate{Tags: &tags})
}

// ListTags returns every tag in use with the number of memos carrying it.
func ListTags(ctx context.Context, db *sql.DB) ([]TagCount, error) {
	rows, err := db.QueryContext(ctx, listTagsStatement)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := []TagCount{}
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}
	return tags, nil
}

func writeTags(ctx context.Context, q querier, id string, tags []string) error {
	for i, tag := range NormalizeTags(tags) {
		if _, err := q.ExecContext(ctx, insertTagStatement, id, i, tag); err != nil {
			return fmt.Errorf("failed to apply tag '%s': %w", tag, err)
		}
	}
	return nil
}

// loadTags fetches tags for the given memo ids in one query, keyed by id.
func loadTags(ctx context.Context, q querier, ids []string) (map[string][]string, error) {
	result := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	for _, id := range ids {
		result[id] = []string{}
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	query := fmt.Sprintf(`
		SELECT memo_id, tag
		FROM memo_tags
		WHERE memo_id IN (%s)
		ORDER BY memo_id, position
	`, placeholders)

	args := lo.Map(ids, func(id string, _ int) any { return id })
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memo tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan memo tag row: %w", err)
		}
		result[id] = append(result[id], tag)
	}
	return result, rows.Err()
}
