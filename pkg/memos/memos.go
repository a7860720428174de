package memos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMemoNotFound    = errors.New("memo not found")
	ErrAmbiguousPrefix = errors.New("id prefix matches more than one memo")
	ErrEmptyTitle      = errors.New("memo title is required")
)

const (
	createMemoStatement = `
	INSERT INTO memos (id, title, content, category, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	getMemoStatement = `
	SELECT id, title, content, category, created_at, updated_at
	FROM memos
	WHERE id = ?
	`

	findByPrefixStatement = `
	SELECT id FROM memos
	WHERE id LIKE ? || '%'
	LIMIT 2
	`

	updateMemoStatement = `
	UPDATE memos
	SET title = ?, content = ?, category = ?, updated_at = ?
	WHERE id = ?
	`

	deleteMemoStatement = `
	DELETE FROM memos
	WHERE id = ?
	`
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// now is replaced in tests that need distinct timestamps.
var now = time.Now

func CreateMemo(ctx context.Context, db *sql.DB, in NewMemo) (Memo, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Memo{}, ErrEmptyTitle
	}
	category := in.Category
	if category == "" {
		category = DefaultCategory
	}

	id := uuid.NewString()
	ts := now().UnixMilli()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Memo{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createMemoStatement, id, title, in.Content, category, ts, ts); err != nil {
		return Memo{}, fmt.Errorf("failed to insert memo: %w", err)
	}
	if err := writeTags(ctx, tx, id, in.Tags); err != nil {
		return Memo{}, err
	}
	if err := tx.Commit(); err != nil {
		return Memo{}, err
	}

	return GetMemo(ctx, db, id)
}

// GetMemo retrieves a memo and its tags.
func GetMemo(ctx context.Context, db *sql.DB, id string) (Memo, error) {
	memo, err := scanMemo(db.QueryRowContext(ctx, getMemoStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Memo{}, ErrMemoNotFound
		}
		return Memo{}, err
	}

	tags, err := loadTags(ctx, db, []string{memo.ID})
	if err != nil {
		return Memo{}, err
	}
	memo.Tags = tags[memo.ID]
	return memo, nil
}

// GetMemoByPrefix resolves a (possibly shortened) ID.
func GetMemoByPrefix(ctx context.Context, db *sql.DB, prefix string) (Memo, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Memo{}, ErrMemoNotFound
	}

	rows, err := db.QueryContext(ctx, findByPrefixStatement, prefix)
	if err != nil {
		return Memo{}, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return Memo{}, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return Memo{}, err
	}

	switch len(ids) {
	case 0:
		return Memo{}, ErrMemoNotFound
	case 1:
		return GetMemo(ctx, db, ids[0])
	default:
		return Memo{}, fmt.Errorf("%w: %q", ErrAmbiguousPrefix, prefix)
	}
}

// ListMemos returns memos ordered by most recently updated first.
func ListMemos(ctx context.Context, db *sql.DB, q ListQuery) ([]Memo, error) {
	var (
		where []string
		args  []any
	)
	if q.Category != "" {
		where = append(where, "m.category = ?")
		args = append(args, q.Category)
	}
	if q.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM memo_tags t WHERE t.memo_id = m.id AND t.tag = ?)")
		args = append(args, NormalizeTag(q.Tag))
	}

	query := "SELECT m.id, m.title, m.content, m.category, m.created_at, m.updated_at FROM memos m"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.updated_at DESC, m.id ASC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memos: %w", err)
	}
	defer rows.Close()

	memos := []Memo{}
	var ids []string
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memo row: %w", err)
		}
		memos = append(memos, memo)
		ids = append(ids, memo.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memo rows: %w", err)
	}

	tags, err := loadTags(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range memos {
		memos[i].Tags = tags[memos[i].ID]
	}
	return memos, nil
}

// UpdateMemo applies a partial update and bumps UpdatedAt.
func UpdateMemo(ctx context.Context, db *sql.DB, id string, upd MemoUpdate) (Memo, error) {
	existing, err := GetMemo(ctx, db, id)
	if err != nil {
		return Memo{}, err
	}

	title, content, category := existing.Title, existing.Content, existing.Category
	if upd.Title != nil {
		title = strings.TrimSpace(*upd.Title)
		if title == "" {
			return Memo{}, ErrEmptyTitle
		}
	}
	if upd.Content != nil {
		content = *upd.Content
	}
	if upd.Category != nil {
		category = *upd.Category
		if category == "" {
			category = DefaultCategory
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Memo{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, updateMemoStatement, title, content, category, now().UnixMilli(), id)
	if err != nil {
		return Memo{}, fmt.Errorf("failed to update memo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Memo{}, err
	}
	if affected == 0 {
		return Memo{}, ErrMemoNotFound
	}

	if upd.Tags != nil {
		if _, err := tx.ExecContext(ctx, deleteTagsStatement, id); err != nil {
			return Memo{}, fmt.Errorf("failed to clear tags: %w", err)
		}
		if err := writeTags(ctx, tx, id, *upd.Tags); err != nil {
			return Memo{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Memo{}, err
	}
	return GetMemo(ctx, db, id)
}

// DeleteMemo removes a memo; its tags go with it through ON DELETE CASCADE.
func DeleteMemo(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, deleteMemoStatement, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMemoNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemo(row rowScanner) (Memo, error) {
	var (
		memo             Memo
		created, updated int64
	)
	if err := row.Scan(&memo.ID, &memo.Title, &memo.Content, &memo.Category, &created, &updated); err != nil {
		return Memo{}, err
	}
	memo.CreatedAt = time.UnixMilli(created)
	memo.UpdatedAt = time.UnixMilli(updated)
	memo.Tags = []string{}
	return memo, nil
}
