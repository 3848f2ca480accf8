package domain

import "time"

// KnowledgeEntry is a freestanding markdown note.
type KnowledgeEntry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KnowledgeListItem is an entry with flattened tags.
type KnowledgeListItem struct {
	KnowledgeEntry
	Tags            []string `json:"tags"`
	TagIDs          []int64  `json:"tag_ids"`
	AttachmentCount int      `json:"attachment_count"`
}

// KnowledgeDetail is the full view of a single entry.
type KnowledgeDetail struct {
	KnowledgeEntry
	Tags        []Tag        `json:"tags"`
	Attachments []Attachment `json:"attachments"`
}
