package domain

import "time"

// Tag is a label shared by prompts, AI responses and knowledge entries.
// Names are unique; creating an existing name returns the existing tag.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// TagListItem is a tag with the number of prompts carrying it.
type TagListItem struct {
	Tag
	UsageCount int `json:"usage_count"`
}
