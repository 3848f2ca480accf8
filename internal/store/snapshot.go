package store

// SnapshotData holds raw table rows as exported and imported. Column values
// are kept as stored: booleans are 0/1 and timestamps are the stored text.
type SnapshotData struct {
	Categories    []CategoryRow     `json:"categories" required:"false"`
	Prompts       []PromptRow       `json:"prompts" required:"false"`
	Tags          []TagRow          `json:"tags" required:"false"`
	PromptTags    []PromptTagRow    `json:"prompt_tags" required:"false"`
	Knowledge     []KnowledgeRow    `json:"knowledge" required:"false"`
	KnowledgeTags []KnowledgeTagRow `json:"knowledge_tags" required:"false"`
}

// CategoryRow is a raw categories row.
type CategoryRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color" required:"false"`
	Icon      string `json:"icon" required:"false"`
	SortOrder int    `json:"sort_order" required:"false"`
	CreatedAt string `json:"created_at" required:"false"`
}

// PromptRow is a raw prompts row.
type PromptRow struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Content         string `json:"content" required:"false"`
	CategoryID      *int64 `json:"category_id" required:"false" nullable:"true"`
	ParentID        *int64 `json:"parent_id" required:"false" nullable:"true"`
	IsBuildingBlock int    `json:"is_building_block" required:"false"`
	UseCount        int    `json:"use_count" required:"false"`
	CreatedAt       string `json:"created_at" required:"false"`
	UpdatedAt       string `json:"updated_at" required:"false"`
}

// TagRow is a raw tags row.
type TagRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color" required:"false"`
	CreatedAt string `json:"created_at" required:"false"`
}

// PromptTagRow is a raw prompt_tags row.
type PromptTagRow struct {
	PromptID int64 `json:"prompt_id"`
	TagID    int64 `json:"tag_id"`
}

// KnowledgeRow is a raw knowledge_base row.
type KnowledgeRow struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content" required:"false"`
	CreatedAt string `json:"created_at" required:"false"`
	UpdatedAt string `json:"updated_at" required:"false"`
}

// KnowledgeTagRow is a raw knowledge_tags row.
type KnowledgeTagRow struct {
	KnowledgeID int64 `json:"knowledge_id"`
	TagID       int64 `json:"tag_id"`
}

// ImportMode selects how an import treats existing rows.
type ImportMode int

// Import modes.
const (
	ImportReplace ImportMode = iota // wipe user data first, keep seed categories
	ImportMerge                     // upsert over existing data
)

// ImportStats counts rows written per table and lists the stored files of
// attachment rows removed by a replace import.
type ImportStats struct {
	Rows         map[string]int
	RemovedFiles []string
}
