package sqlite

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/promptshelf/promptshelf-server/internal/store"
)

func TestCreateAndListResponses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	claude, _ := s.GetAIPlatformByName(ctx, "Claude")
	tag := mustTag(t, s, "research")
	p := mustPrompt(t, s, store.PromptInput{Title: "Source prompt", Content: "Explain X"})

	r, err := s.CreateResponse(ctx, store.ResponseInput{
		Title:        "Answer about X",
		Content:      "X is...",
		AIPlatformID: &claude.ID,
		PromptID:     &p.ID,
		Topic:        ptr("physics"),
		TagIDs:       []int64{tag.ID},
	})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	items, err := s.ListResponses(ctx, store.ResponseFilter{})
	if err != nil {
		t.Fatalf("ListResponses: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 response, got %d", len(items))
	}
	item := items[0]
	if item.ID != r.ID {
		t.Errorf("ID: got %d, want %d", item.ID, r.ID)
	}
	if item.AIPlatformName == nil || *item.AIPlatformName != "Claude" {
		t.Errorf("AIPlatformName: got %v", item.AIPlatformName)
	}
	if item.PromptTitle == nil || *item.PromptTitle != "Source prompt" {
		t.Errorf("PromptTitle: got %v", item.PromptTitle)
	}
	if !reflect.DeepEqual(item.Tags, []string{"research"}) || !reflect.DeepEqual(item.TagIDs, []int64{tag.ID}) {
		t.Errorf("tags: got %v / %v", item.Tags, item.TagIDs)
	}

	detail, err := s.GetResponseDetail(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetResponseDetail: %v", err)
	}
	if detail.PromptContent == nil || *detail.PromptContent != "Explain X" {
		t.Errorf("PromptContent: got %v", detail.PromptContent)
	}
	if len(detail.Tags) != 1 || detail.Tags[0].Name != "research" {
		t.Errorf("Tags: got %+v", detail.Tags)
	}
}

func TestListResponses_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	gemini, _ := s.GetAIPlatformByName(ctx, "Gemini")
	fav, err := s.CreateResponse(ctx, store.ResponseInput{Title: "Fav", Topic: ptr("go"), IsFavorite: true, AIPlatformID: &gemini.ID})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}
	plain, err := s.CreateResponse(ctx, store.ResponseInput{Title: "Plain", Topic: ptr("rust"), Notes: ptr("check later")})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	tests := []struct {
		name   string
		filter store.ResponseFilter
		want   []int64
	}{
		{"favorites", store.ResponseFilter{FavoritesOnly: true}, []int64{fav.ID}},
		{"topic exact", store.ResponseFilter{Topic: ptr("rust")}, []int64{plain.ID}},
		{"topic is not substring", store.ResponseFilter{Topic: ptr("ru")}, []int64{}},
		{"platform", store.ResponseFilter{AIPlatformID: &gemini.ID}, []int64{fav.ID}},
		{"search matches topic", store.ResponseFilter{Search: "rus"}, []int64{plain.ID}},
		{"combined", store.ResponseFilter{FavoritesOnly: true, Topic: ptr("rust")}, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := s.ListResponses(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListResponses: %v", err)
			}
			got := []int64{}
			for _, item := range items {
				got = append(got, item.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListTopics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, topic := range []*string{ptr("zebra"), ptr("alpha"), ptr("zebra"), ptr(""), nil} {
		if _, err := s.CreateResponse(ctx, store.ResponseInput{Title: "r", Topic: topic}); err != nil {
			t.Fatalf("CreateResponse: %v", err)
		}
	}

	topics, err := s.ListTopics(ctx)
	if err != nil {
		t.Fatalf("ListTopics: %v", err)
	}
	if !reflect.DeepEqual(topics, []string{"alpha", "zebra"}) {
		t.Errorf("got %v", topics)
	}
}

func TestUpdateResponse_AlwaysWritesNullableFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r, err := s.CreateResponse(ctx, store.ResponseInput{
		Title: "Keep", Content: "Body", Topic: ptr("t"), Notes: ptr("n"), IsFavorite: true,
	})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	got, err := s.UpdateResponse(ctx, r.ID, store.ResponseUpdate{Content: ptr("New body")})
	if err != nil {
		t.Fatalf("UpdateResponse: %v", err)
	}
	if got.Title != "Keep" || got.Content != "New body" || !got.IsFavorite {
		t.Errorf("coalesced fields: %+v", got)
	}
	if got.Topic != nil || got.Notes != nil {
		t.Errorf("topic and notes should be cleared: %v %v", got.Topic, got.Notes)
	}

	if _, err := s.UpdateResponse(ctx, 999, store.ResponseUpdate{}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing response: got %v, want ErrNotFound", err)
	}
}

func TestToggleResponseFavorite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r, err := s.CreateResponse(ctx, store.ResponseInput{Title: "r"})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	got, err := s.ToggleResponseFavorite(ctx, r.ID)
	if err != nil {
		t.Fatalf("ToggleResponseFavorite: %v", err)
	}
	if !got.IsFavorite {
		t.Error("expected favorite after first toggle")
	}

	got, err = s.ToggleResponseFavorite(ctx, r.ID)
	if err != nil {
		t.Fatalf("ToggleResponseFavorite: %v", err)
	}
	if got.IsFavorite {
		t.Error("expected not favorite after second toggle")
	}

	if _, err := s.ToggleResponseFavorite(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing response: got %v, want ErrNotFound", err)
	}
}

func TestDeletePrompt_KeepsResponses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := mustPrompt(t, s, store.PromptInput{Title: "source"})
	r, err := s.CreateResponse(ctx, store.ResponseInput{Title: "r", PromptID: &p.ID})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	if _, err := s.DeletePrompt(ctx, p.ID); err != nil {
		t.Fatalf("DeletePrompt: %v", err)
	}
	got, err := s.GetResponse(ctx, r.ID)
	if err != nil {
		t.Fatalf("GetResponse: %v", err)
	}
	if got.PromptID != nil {
		t.Errorf("PromptID: got %d, want nil", *got.PromptID)
	}

	if err := s.DeleteResponse(ctx, r.ID); err != nil {
		t.Fatalf("DeleteResponse: %v", err)
	}
	if err := s.DeleteResponse(ctx, r.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}
