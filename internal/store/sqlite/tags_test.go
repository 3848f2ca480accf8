package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

func TestFindOrCreateTag_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, created, err := s.FindOrCreateTag(ctx, "urgent", "")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}
	if !created {
		t.Error("first call should create the tag")
	}
	if first.Color != domain.DefaultTagColor {
		t.Errorf("Color: got %q, want %q", first.Color, domain.DefaultTagColor)
	}

	second, created, err := s.FindOrCreateTag(ctx, "urgent", "#000000")
	if err != nil {
		t.Fatalf("FindOrCreateTag again: %v", err)
	}
	if created {
		t.Error("second call should return the existing tag")
	}
	if second.ID != first.ID {
		t.Errorf("ID: got %d, want %d", second.ID, first.ID)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tags WHERE name = 'urgent'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one row, got %d", count)
	}
}

func TestListTags_UsageCountAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	zeta, _, err := s.FindOrCreateTag(ctx, "zeta", "")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}
	if _, _, err := s.FindOrCreateTag(ctx, "alpha", ""); err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}
	if _, err := s.CreatePrompt(ctx, store.PromptInput{Title: "a", TagIDs: []int64{zeta.ID}}); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	if tags[0].Name != "alpha" || tags[1].Name != "zeta" {
		t.Errorf("order: got %q, %q", tags[0].Name, tags[1].Name)
	}
	if tags[0].UsageCount != 0 || tags[1].UsageCount != 1 {
		t.Errorf("usage counts: got %d, %d", tags[0].UsageCount, tags[1].UsageCount)
	}
}

func TestUpdateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, _, _ := s.FindOrCreateTag(ctx, "draft", "#111111")
	if _, _, err := s.FindOrCreateTag(ctx, "final", ""); err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}

	got, err := s.UpdateTag(ctx, a.ID, store.TagUpdate{Name: ptr("review")})
	if err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}
	if got.Name != "review" || got.Color != "#111111" {
		t.Errorf("unexpected tag after update: %+v", got)
	}

	_, err = s.UpdateTag(ctx, a.ID, store.TagUpdate{Name: ptr("final")})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("rename onto existing name: got %v, want ErrAlreadyExists", err)
	}

	if _, err := s.UpdateTag(ctx, 999, store.TagUpdate{Color: ptr("#222222")}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing tag: got %v, want ErrNotFound", err)
	}
}

func TestDeleteTag_CascadesLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, _, _ := s.FindOrCreateTag(ctx, "temp", "")
	p, err := s.CreatePrompt(ctx, store.PromptInput{Title: "p", TagIDs: []int64{tag.ID}})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	detail, err := s.GetPromptDetail(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPromptDetail: %v", err)
	}
	if len(detail.Tags) != 0 {
		t.Errorf("expected no tags, got %v", detail.Tags)
	}

	if err := s.DeleteTag(ctx, tag.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
