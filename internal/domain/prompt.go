package domain

import "time"

// Prompt is a reusable text template. ParentID makes it a variant of another
// prompt; the relation is not checked for cycles.
type Prompt struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	CategoryID      *int64    `json:"category_id"`
	ParentID        *int64    `json:"parent_id"`
	IsBuildingBlock bool      `json:"is_building_block"`
	UseCount        int       `json:"use_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PromptListItem is a prompt with its category and flattened associations.
// Tags[i] pairs with TagIDs[i]; AIPlatforms[i], AIPlatformIDs[i] and
// AIPlatformColors[i] describe the same platform.
type PromptListItem struct {
	Prompt
	CategoryName     *string  `json:"category_name"`
	CategoryColor    *string  `json:"category_color"`
	Tags             []string `json:"tags"`
	TagIDs           []int64  `json:"tag_ids"`
	AIPlatforms      []string `json:"ai_platforms"`
	AIPlatformIDs    []int64  `json:"ai_platform_ids"`
	AIPlatformColors []string `json:"ai_platform_colors"`
	ChildrenCount    int      `json:"children_count"`
}

// PromptSearchResult is a quick-search hit.
type PromptSearchResult struct {
	Prompt
	CategoryName  *string `json:"category_name"`
	CategoryColor *string `json:"category_color"`
}

// PromptChild is a direct child listed under its parent.
type PromptChild struct {
	Prompt
	CategoryName *string `json:"category_name"`
}

// PromptRef identifies a parent prompt.
type PromptRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// PromptDetail is the full view of a single prompt.
type PromptDetail struct {
	Prompt
	CategoryName  *string      `json:"category_name"`
	CategoryColor *string      `json:"category_color"`
	Tags          []Tag        `json:"tags"`
	Children      []Prompt     `json:"children"`
	Parent        *PromptRef   `json:"parent"`
	Attachments   []Attachment `json:"attachments"`
	AIPlatforms   []AIPlatform `json:"aiPlatforms"`
}
