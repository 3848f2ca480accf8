package domain

import "time"

// AIPlatform is an external AI tool a prompt targets or a response came from.
// It is metadata only.
type AIPlatform struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// AIPlatformListItem is a platform with the number of prompts associated with it.
// Responses referencing the platform are not counted.
type AIPlatformListItem struct {
	AIPlatform
	UsageCount int `json:"usage_count"`
}
