package domain

import (
	"testing"
	"time"
)

func TestSession_IsExpired(t *testing.T) {
	now := time.Now()
	s := &Session{ID: "ses_1", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Minute)}

	if s.IsExpired(now) {
		t.Error("session expiring in a minute reported expired")
	}
	if !s.IsExpired(now.Add(time.Minute)) {
		t.Error("session at its expiry instant should be expired")
	}
}

func TestAttachmentOwner_Valid(t *testing.T) {
	id := int64(1)
	tests := []struct {
		name  string
		owner AttachmentOwner
		want  bool
	}{
		{"prompt only", AttachmentOwner{PromptID: &id}, true},
		{"knowledge only", AttachmentOwner{KnowledgeID: &id}, true},
		{"neither", AttachmentOwner{}, false},
		{"both", AttachmentOwner{PromptID: &id, KnowledgeID: &id}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.owner.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
