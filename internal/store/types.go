package store

import "github.com/promptshelf/promptshelf-server/internal/domain"

// ParentMode selects how a prompt list is filtered by parent.
type ParentMode int

// Parent filter modes.
const (
	ParentAny    ParentMode = iota // no filter
	ParentNone                     // only top-level prompts
	ParentEquals                   // only children of ParentFilter.ID
)

// ParentFilter restricts prompts by their parent reference.
type ParentFilter struct {
	Mode ParentMode
	ID   int64
}

// PromptFilter holds optional prompt list filters. Set filters combine with AND.
type PromptFilter struct {
	CategoryID      *int64
	TagID           *int64
	AIPlatformID    *int64
	IsBuildingBlock *bool
	Parent          ParentFilter
	Search          string // substring of title or content
}

// ResponseFilter holds optional AI response list filters.
type ResponseFilter struct {
	AIPlatformID  *int64
	TagID         *int64
	Topic         *string // exact match
	FavoritesOnly bool
	Search        string // substring of title, content or topic
}

// KnowledgeFilter holds optional knowledge list filters.
type KnowledgeFilter struct {
	TagID  *int64
	Search string // substring of title or content
}

// CategoryInput creates a category. Empty Color/Icon and nil SortOrder take defaults.
type CategoryInput struct {
	Name      string
	Color     string
	Icon      string
	SortOrder *int
}

// CategoryUpdate changes the provided fields only.
type CategoryUpdate struct {
	Name      *string
	Color     *string
	Icon      *string
	SortOrder *int
}

// TagUpdate changes the provided fields only.
type TagUpdate struct {
	Name  *string
	Color *string
}

// AIPlatformInput creates a platform. Empty Color/Icon and nil SortOrder take defaults.
type AIPlatformInput struct {
	Name      string
	Color     string
	Icon      string
	SortOrder *int
}

// AIPlatformUpdate changes the provided fields only.
type AIPlatformUpdate struct {
	Name      *string
	Color     *string
	Icon      *string
	SortOrder *int
}

// PromptInput creates a prompt with its initial associations.
type PromptInput struct {
	Title           string
	Content         string
	CategoryID      *int64
	ParentID        *int64
	IsBuildingBlock bool
	TagIDs          []int64
	AIPlatformIDs   []int64
}

// PromptUpdate updates a prompt. Title, Content and IsBuildingBlock keep their
// stored value when nil. CategoryID and ParentID are always written, so nil
// clears them. TagIDs and AIPlatformIDs replace the association set when non-nil.
type PromptUpdate struct {
	Title           *string
	Content         *string
	CategoryID      *int64
	ParentID        *int64
	IsBuildingBlock *bool
	TagIDs          *[]int64
	AIPlatformIDs   *[]int64
}

// ResponseInput creates an AI response.
type ResponseInput struct {
	Title        string
	Content      string
	AIPlatformID *int64
	PromptID     *int64
	Topic        *string
	Notes        *string
	IsFavorite   bool
	TagIDs       []int64
}

// ResponseUpdate updates an AI response. Title, Content and IsFavorite keep
// their stored value when nil; AIPlatformID, PromptID, Topic and Notes are
// always written. TagIDs replaces the tag set when non-nil.
type ResponseUpdate struct {
	Title        *string
	Content      *string
	AIPlatformID *int64
	PromptID     *int64
	Topic        *string
	Notes        *string
	IsFavorite   *bool
	TagIDs       *[]int64
}

// KnowledgeInput creates a knowledge entry.
type KnowledgeInput struct {
	Title   string
	Content string
	TagIDs  []int64
}

// KnowledgeUpdate updates a knowledge entry. Title and Content keep their
// stored value when nil; TagIDs replaces the tag set when non-nil.
type KnowledgeUpdate struct {
	Title   *string
	Content *string
	TagIDs  *[]int64
}

// AttachmentInput records an uploaded file.
type AttachmentInput struct {
	Owner       domain.AttachmentOwner
	Filename    string
	Filepath    string
	Type        string
	Description *string
}
