package memos

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match ranks: lower is better.
const (
	rankTitle = iota
	rankTag
	rankContent
	rankNone
)

// MatchedMemo is a memo with the strength of its match against a term.
type MatchedMemo struct {
	Memo
	rank     int
	distance int
}

// Filter returns the memos matching term, best matches first. Titles and
// tags match fuzzily (characters in order, case and accents folded); the
// body matches on a case-insensitive substring. Ties keep input order.
// An empty term returns memos unchanged.
func Filter(memos []Memo, term string) []Memo {
	term = strings.TrimSpace(term)
	if term == "" {
		return memos
	}

	matched := make([]MatchedMemo, 0, len(memos))
	for _, m := range memos {
		rank, distance := matchMemo(m, term)
		if rank == rankNone {
			continue
		}
		matched = append(matched, MatchedMemo{Memo: m, rank: rank, distance: distance})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].rank != matched[j].rank {
			return matched[i].rank < matched[j].rank
		}
		return matched[i].distance < matched[j].distance
	})

	out := make([]Memo, len(matched))
	for i, mm := range matched {
		out[i] = mm.Memo
	}
	return out
}

// SearchMemos lists memos narrowed by q and filters them by term.
func SearchMemos(ctx context.Context, db *sql.DB, term string, q ListQuery) ([]Memo, error) {
	limit := q.Limit
	q.Limit = 0
	all, err := ListMemos(ctx, db, q)
	if err != nil {
		return nil, err
	}
	found := Filter(all, term)
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func matchMemo(m Memo, term string) (rank, distance int) {
	if d := fuzzy.RankMatchNormalizedFold(term, m.Title); d >= 0 {
		return rankTitle, d
	}
	best := -1
	for _, tag := range m.Tags {
		if d := fuzzy.RankMatchNormalizedFold(term, tag); d >= 0 && (best < 0 || d < best) {
			best = d
		}
	}
	if best >= 0 {
		return rankTag, best
	}
	if strings.Contains(strings.ToLower(m.Content), strings.ToLower(term)) {
		return rankContent, 0
	}
	return rankNone, 0
}
