// Package domain defines the entities of a prompt collection and the read
// models the query layer assembles around them.
package domain

import "time"

// Default presentation values applied when a create request leaves them empty.
const (
	DefaultCategoryColor = "#6366f1"
	DefaultCategoryIcon  = "folder"
	DefaultTagColor      = "#8b5cf6"
	DefaultPlatformColor = "#6366f1"
	DefaultPlatformIcon  = "bot"
)

// Category groups prompts. Deleting a category leaves its prompts uncategorized.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// CategoryListItem is a category with the number of prompts filed under it.
type CategoryListItem struct {
	Category
	PromptCount int `json:"prompt_count"`
}
