package domain

import "time"

// Attachment is a file owned by exactly one prompt or knowledge entry.
// Filename is the uploader's name; Filepath is the unique stored name under
// the uploads directory.
type Attachment struct {
	ID          int64     `json:"id"`
	PromptID    *int64    `json:"prompt_id"`
	KnowledgeID *int64    `json:"knowledge_id"`
	Filename    string    `json:"filename"`
	Filepath    string    `json:"filepath"`
	Type        string    `json:"type"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// AttachmentOwner names the entity an attachment belongs to.
type AttachmentOwner struct {
	PromptID    *int64
	KnowledgeID *int64
}

// Valid reports whether exactly one owner is set.
func (o AttachmentOwner) Valid() bool {
	return (o.PromptID == nil) != (o.KnowledgeID == nil)
}
