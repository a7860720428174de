package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/unowned-ai/memos/pkg/markdown"
	"github.com/unowned-ai/memos/pkg/memos"
)

// stubRenderer returns markdown source unchanged and records every call.
type stubRenderer struct {
	err     error
	sources []string
	options []markdown.Options
}

func (s *stubRenderer) Render(src string, opts markdown.Options) (string, error) {
	s.sources = append(s.sources, src)
	s.options = append(s.options, opts)
	if s.err != nil {
		return "", s.err
	}
	return src, nil
}

func tripPlan() memos.Memo {
	updated := time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)
	return memos.Memo{
		ID:        "4f1c2a9e-0000-4000-8000-000000000001",
		Title:     "Trip plan",
		Content:   strings.Repeat("A", 250),
		Category:  memos.CategoryIdea,
		Tags:      []string{"travel", "2024", "budget", "family"},
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
	}
}

// cardCalls counts callback invocations of one card.
type cardCalls struct {
	views   int
	edits   []memos.Memo
	deletes []string
	asked   []*Confirmation
}

func newTestCard(memo memos.Memo, calls *cardCalls, withAsker bool) *Card {
	opts := []CardOption{}
	if withAsker {
		opts = append(opts, WithAsker(func(c *Confirmation) { calls.asked = append(calls.asked, c) }))
	}
	return NewCard(memo,
		func() { calls.views++ },
		func(m memos.Memo) { calls.edits = append(calls.edits, m) },
		func(id string) { calls.deletes = append(calls.deletes, id) },
		opts...,
	)
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "hello", "hello"},
		{"empty", "", ""},
		{"exactly limit", strings.Repeat("b", 100), strings.Repeat("b", 100)},
		{"one over", strings.Repeat("c", 101), strings.Repeat("c", 100) + "..."},
		{"long", strings.Repeat("A", 250), strings.Repeat("A", 100) + "..."},
		{"multibyte", strings.Repeat("é", 120), strings.Repeat("é", 100) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.content); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVisibleTags(t *testing.T) {
	shown, more := VisibleTags([]string{"travel", "2024", "budget", "family"})
	if strings.Join(shown, ",") != "travel,2024,budget" || more != 1 {
		t.Errorf("VisibleTags(4) = %v, %d", shown, more)
	}

	shown, more = VisibleTags([]string{"a", "b", "c"})
	if len(shown) != 3 || more != 0 {
		t.Errorf("VisibleTags(3) = %v, %d", shown, more)
	}

	shown, more = VisibleTags(nil)
	if len(shown) != 0 || more != 0 {
		t.Errorf("VisibleTags(nil) = %v, %d", shown, more)
	}
}

func TestCard_RenderTripPlan(t *testing.T) {
	r := &stubRenderer{}
	card := newTestCard(tripPlan(), &cardCalls{}, true)

	view, zones, err := card.Render(Frame{Width: 60, Renderer: r, Location: time.UTC}, false)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for _, want := range []string{"Trip plan", "Idea", "Mar 5, 2024, 02:07 PM", "#travel", "#2024", "#budget", "+1", editLabel, deleteLabel} {
		if !strings.Contains(view, want) {
			t.Errorf("card is missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "#family") {
		t.Errorf("fourth tag should be hidden behind +1:\n%s", view)
	}

	if len(r.sources) != 1 {
		t.Fatalf("expected one renderer call, got %d", len(r.sources))
	}
	if want := strings.Repeat("A", 100) + "..."; r.sources[0] != want {
		t.Errorf("renderer got %q, want the 100 character preview", r.sources[0])
	}
	opts := r.options[0]
	if !opts.InheritColor || !opts.InheritFont || !opts.InheritLineHeight {
		t.Errorf("preview should inherit colour, font and line height, got %+v", opts)
	}

	if len(zones) != 3 {
		t.Fatalf("expected 3 zones, got %d", len(zones))
	}
	if zones[0].ID != card.Zone() || zones[0].Rect.W != 60 {
		t.Errorf("surface zone = %+v", zones[0])
	}
}

func TestCard_NoTagsRendersNoChips(t *testing.T) {
	memo := tripPlan()
	memo.Tags = []string{}
	memo.Content = "plain text"
	view, _, err := newTestCard(memo, &cardCalls{}, true).Render(Frame{Width: 60, Renderer: &stubRenderer{}}, false)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(view, "#") || strings.Contains(view, "+") {
		t.Errorf("card without tags shows chips:\n%s", view)
	}
}

func TestCard_UnknownCategoryShowsRawCode(t *testing.T) {
	memo := tripPlan()
	memo.Category = "recipes"
	view, _, err := newTestCard(memo, &cardCalls{}, true).Render(Frame{Width: 60}, false)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(view, "recipes") {
		t.Errorf("unknown category label missing:\n%s", view)
	}
}

func TestCard_RendererNotReady(t *testing.T) {
	memo := tripPlan()
	memo.Content = "hidden until ready"
	view, _, err := newTestCard(memo, &cardCalls{}, true).Render(Frame{Width: 60}, false)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(view, "hidden until ready") {
		t.Errorf("content rendered before the renderer loaded:\n%s", view)
	}
	if !strings.Contains(view, "Trip plan") {
		t.Errorf("title should render while the renderer loads:\n%s", view)
	}
}

func TestCard_RendererErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := newTestCard(tripPlan(), &cardCalls{}, true).Render(Frame{Width: 60, Renderer: &stubRenderer{err: boom}}, false)
	if !errors.Is(err, boom) {
		t.Errorf("expected renderer error, got %v", err)
	}
}

func TestCard_SurfaceCallsView(t *testing.T) {
	calls := &cardCalls{}
	card := newTestCard(tripPlan(), calls, true)
	s := NewScene()
	card.Bind(s)

	s.Dispatch(card.Zone())

	if calls.views != 1 {
		t.Errorf("onView called %d times, want 1", calls.views)
	}
	if len(calls.edits) != 0 || len(calls.asked) != 0 {
		t.Errorf("surface activation triggered edit or delete: %+v", calls)
	}
}

func TestCard_EditStopsPropagation(t *testing.T) {
	calls := &cardCalls{}
	memo := tripPlan()
	card := newTestCard(memo, calls, true)
	s := NewScene()
	card.Bind(s)

	s.Dispatch(card.EditZone())

	if len(calls.edits) != 1 || calls.edits[0].ID != memo.ID {
		t.Fatalf("onEdit calls = %+v", calls.edits)
	}
	if calls.views != 0 {
		t.Errorf("edit also triggered onView")
	}
}

func TestCard_DeleteOnlyAfterAccept(t *testing.T) {
	calls := &cardCalls{}
	memo := tripPlan()
	card := newTestCard(memo, calls, true)
	s := NewScene()
	card.Bind(s)

	s.Dispatch(card.DeleteZone())
	if calls.views != 0 {
		t.Errorf("delete also triggered onView")
	}
	if len(calls.asked) != 1 {
		t.Fatalf("expected one confirmation, got %d", len(calls.asked))
	}
	if calls.asked[0].Prompt != DeletePrompt {
		t.Errorf("prompt = %q", calls.asked[0].Prompt)
	}
	if len(calls.deletes) != 0 {
		t.Fatalf("onDelete called before confirmation")
	}

	calls.asked[0].Decline()
	calls.asked[0].Accept() // settled already
	if len(calls.deletes) != 0 {
		t.Errorf("declined confirmation deleted the memo")
	}

	s.Dispatch(card.DeleteZone())
	calls.asked[1].Accept()
	calls.asked[1].Accept()
	if len(calls.deletes) != 1 || calls.deletes[0] != memo.ID {
		t.Errorf("onDelete calls = %v, want exactly [%s]", calls.deletes, memo.ID)
	}
}

func TestCard_DeleteWithoutAskerDoesNothing(t *testing.T) {
	calls := &cardCalls{}
	card := newTestCard(tripPlan(), calls, false)
	s := NewScene()
	card.Bind(s)

	s.Dispatch(card.DeleteZone())

	if len(calls.deletes) != 0 || calls.views != 0 {
		t.Errorf("unexpected calls: %+v", calls)
	}
}

func TestCard_ClicksResolveToZones(t *testing.T) {
	calls := &cardCalls{}
	card := newTestCard(tripPlan(), calls, true)
	_, zones, err := card.Render(Frame{Width: 60, Renderer: &stubRenderer{}}, false)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	s := NewScene()
	card.Bind(s)
	for _, z := range zones {
		s.Mark(z.ID, z.Rect.Offset(0, 5))
	}

	edit, _ := s.Rect(card.EditZone())
	s.Click(edit.X, edit.Y)
	if len(calls.edits) != 1 || calls.views != 0 {
		t.Errorf("click on edit: %+v", calls)
	}

	del, _ := s.Rect(card.DeleteZone())
	s.Click(del.X+del.W-1, del.Y)
	if len(calls.asked) != 1 || calls.views != 0 {
		t.Errorf("click on delete: %+v", calls)
	}

	s.Click(3, 8)
	if calls.views != 1 {
		t.Errorf("click on the body should view, views = %d", calls.views)
	}

	if s.Click(3, 2) {
		t.Errorf("click above the card hit a zone")
	}
}

func TestCard_NeverMutatesMemo(t *testing.T) {
	memo := tripPlan()
	before := strings.Join(memo.Tags, ",")
	card := newTestCard(memo, &cardCalls{}, true)
	if _, _, err := card.Render(Frame{Width: 40, Renderer: &stubRenderer{}}, true); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(card.Memo().Tags, ","); got != before {
		t.Errorf("tags changed: %s", got)
	}
}
