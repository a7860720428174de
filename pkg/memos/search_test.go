package memos

import (
	"context"
	"testing"
)

func TestFilter(t *testing.T) {
	memos := []Memo{
		{ID: "1", Title: "Groceries", Content: "milk, eggs, travel snacks", Tags: []string{"home"}},
		{ID: "2", Title: "Trip plan", Content: "beach", Tags: []string{"summer"}},
		{ID: "3", Title: "Budget", Content: "numbers", Tags: []string{"travel"}},
		{ID: "4", Title: "Reading list", Content: "books", Tags: []string{}},
	}

	got := Filter(memos, "travel")
	ids := make([]string, len(got))
	for i, m := range got {
		ids[i] = m.ID
	}
	// Tag match ranks above the body match; "Trip plan" does not contain
	// the letters of "travel" in order.
	want := []string{"3", "1"}
	if len(ids) != len(want) {
		t.Fatalf("Filter(travel) = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("Filter(travel) = %v, want %v", ids, want)
		}
	}

	if got := Filter(memos, "trpln"); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Expected fuzzy title match on Trip plan, got %v", got)
	}
	if got := Filter(memos, "  "); len(got) != len(memos) {
		t.Errorf("Expected blank term to return everything, got %d", len(got))
	}
	if got := Filter(memos, "xylophone"); len(got) != 0 {
		t.Errorf("Expected no matches, got %v", got)
	}
}

func TestSearchMemos(t *testing.T) {
	testDB := setupTestDB(t)
	ctx := context.Background()

	createTestMemo(t, ctx, testDB, NewMemo{Title: "Go notes", Category: CategoryStudy})
	createTestMemo(t, ctx, testDB, NewMemo{Title: "Go shopping", Category: CategoryPersonal})

	found, err := SearchMemos(ctx, testDB, "go", ListQuery{Category: CategoryStudy})
	if err != nil {
		t.Fatalf("SearchMemos failed: %v", err)
	}
	if len(found) != 1 || found[0].Title != "Go notes" {
		t.Errorf("Expected only the study memo, got %v", found)
	}

	found, err = SearchMemos(ctx, testDB, "go", ListQuery{Limit: 1})
	if err != nil {
		t.Fatalf("SearchMemos failed: %v", err)
	}
	if len(found) != 1 {
		t.Errorf("Expected limit to apply after filtering, got %d", len(found))
	}
}
