package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

func TestCreateAttachment_Owners(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustPrompt(t, s, store.PromptInput{Title: "owner"})

	a, err := s.CreateAttachment(ctx, store.AttachmentInput{
		Owner:       domain.AttachmentOwner{PromptID: &p.ID},
		Filename:    "shot.png",
		Filepath:    "0001.png",
		Type:        "image/png",
		Description: ptr("screenshot"),
	})
	if err != nil {
		t.Fatalf("CreateAttachment: %v", err)
	}
	if a.PromptID == nil || *a.PromptID != p.ID || a.KnowledgeID != nil {
		t.Errorf("owner: %+v", a)
	}
	if a.Description == nil || *a.Description != "screenshot" {
		t.Errorf("Description: got %v", a.Description)
	}

	// No owner, both owners, or a missing owner are rejected.
	_, err = s.CreateAttachment(ctx, store.AttachmentInput{Filename: "x", Filepath: "x", Type: "image/png"})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("no owner: got %v", err)
	}
	kid := int64(1)
	_, err = s.CreateAttachment(ctx, store.AttachmentInput{
		Owner: domain.AttachmentOwner{PromptID: &p.ID, KnowledgeID: &kid}, Filename: "x", Filepath: "y", Type: "image/png",
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("two owners: got %v", err)
	}
	_, err = s.CreateAttachment(ctx, store.AttachmentInput{
		Owner: domain.AttachmentOwner{PromptID: ptr(int64(999))}, Filename: "x", Filepath: "z", Type: "image/png",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing owner: got %v", err)
	}
}

func TestListAndDeleteAttachments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	k, err := s.CreateKnowledge(ctx, store.KnowledgeInput{Title: "k"})
	if err != nil {
		t.Fatalf("CreateKnowledge: %v", err)
	}
	owner := domain.AttachmentOwner{KnowledgeID: &k.ID}

	first, err := s.CreateAttachment(ctx, store.AttachmentInput{Owner: owner, Filename: "1.pdf", Filepath: "1.pdf", Type: "application/pdf"})
	if err != nil {
		t.Fatalf("CreateAttachment: %v", err)
	}
	if _, err := s.CreateAttachment(ctx, store.AttachmentInput{Owner: owner, Filename: "2.pdf", Filepath: "2.pdf", Type: "application/pdf"}); err != nil {
		t.Fatalf("CreateAttachment: %v", err)
	}

	list, err := s.ListAttachments(ctx, owner)
	if err != nil {
		t.Fatalf("ListAttachments: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID {
		t.Errorf("list: %+v", list)
	}

	if err := s.DeleteAttachment(ctx, first.ID); err != nil {
		t.Fatalf("DeleteAttachment: %v", err)
	}
	if _, err := s.GetAttachment(ctx, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("after delete: got %v", err)
	}
	if err := s.DeleteAttachment(ctx, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}

	empty, err := s.ListAttachments(ctx, domain.AttachmentOwner{PromptID: ptr(int64(12345))})
	if err != nil {
		t.Fatalf("ListAttachments: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty list, got %#v", empty)
	}
}
