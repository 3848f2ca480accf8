package domain

import "time"

// AIResponse is an output saved from an external AI tool, optionally linked
// to the prompt that produced it.
type AIResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AIPlatformID *int64    `json:"ai_platform_id"`
	PromptID     *int64    `json:"prompt_id"`
	Topic        *string   `json:"topic"`
	Notes        *string   `json:"notes"`
	IsFavorite   bool      `json:"is_favorite"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AIResponseListItem is a response with platform, prompt title and flattened tags.
type AIResponseListItem struct {
	AIResponse
	AIPlatformName  *string  `json:"ai_platform_name"`
	AIPlatformColor *string  `json:"ai_platform_color"`
	PromptTitle     *string  `json:"prompt_title"`
	Tags            []string `json:"tags"`
	TagIDs          []int64  `json:"tag_ids"`
}

// AIResponseDetail is the full view of a single response.
type AIResponseDetail struct {
	AIResponse
	AIPlatformName  *string `json:"ai_platform_name"`
	AIPlatformColor *string `json:"ai_platform_color"`
	PromptTitle     *string `json:"prompt_title"`
	PromptContent   *string `json:"prompt_content"`
	Tags            []Tag   `json:"tags"`
}
