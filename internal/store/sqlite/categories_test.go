package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

func TestCreateCategory_Defaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, store.CategoryInput{Name: "Research"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	if c.Color != domain.DefaultCategoryColor {
		t.Errorf("Color: got %q, want %q", c.Color, domain.DefaultCategoryColor)
	}
	if c.Icon != domain.DefaultCategoryIcon {
		t.Errorf("Icon: got %q, want %q", c.Icon, domain.DefaultCategoryIcon)
	}
	// Seeded categories use sort orders 1..7.
	if c.SortOrder != SeedCategoryMaxID+1 {
		t.Errorf("SortOrder: got %d, want %d", c.SortOrder, SeedCategoryMaxID+1)
	}
	if c.ID <= SeedCategoryMaxID {
		t.Errorf("ID: got %d, want > %d", c.ID, SeedCategoryMaxID)
	}
}

// Create "Research" (no color), attach a prompt, list, delete: the prompt
// survives uncategorized.
func TestCategoryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, store.CategoryInput{Name: "Research"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	p, err := s.CreatePrompt(ctx, store.PromptInput{Title: "Literature scan", CategoryID: &c.ID})
	if err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	list, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	var found bool
	for _, item := range list {
		if item.ID == c.ID {
			found = true
			if item.PromptCount != 1 {
				t.Errorf("PromptCount: got %d, want 1", item.PromptCount)
			}
		}
	}
	if !found {
		t.Fatal("new category missing from list")
	}

	if err := s.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	got, err := s.GetPrompt(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPrompt: %v", err)
	}
	if got.CategoryID != nil {
		t.Errorf("CategoryID: got %d, want nil", *got.CategoryID)
	}

	if _, err := s.GetCategory(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetCategory after delete: got %v, want ErrNotFound", err)
	}
}

func TestUpdateCategory_CoalescesOmittedFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, store.CategoryInput{Name: "Drafts", Color: "#123456", Icon: "pen", SortOrder: ptr(20)})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	got, err := s.UpdateCategory(ctx, c.ID, store.CategoryUpdate{Name: ptr("Final drafts")})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}

	if got.Name != "Final drafts" {
		t.Errorf("Name: got %q", got.Name)
	}
	if got.Color != "#123456" || got.Icon != "pen" || got.SortOrder != 20 {
		t.Errorf("omitted fields changed: %+v", got)
	}
	if !got.CreatedAt.Equal(c.CreatedAt) {
		t.Errorf("CreatedAt changed: got %v, want %v", got.CreatedAt, c.CreatedAt)
	}
}

func TestCategory_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetCategory(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetCategory: got %v, want ErrNotFound", err)
	}
	if _, err := s.UpdateCategory(ctx, 999, store.CategoryUpdate{Name: ptr("x")}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateCategory: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteCategory(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteCategory: got %v, want ErrNotFound", err)
	}
}
