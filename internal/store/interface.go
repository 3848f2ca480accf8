// Package store defines the persistence interface for the PromptShelf server.
package store

import (
	"context"
	"time"

	"github.com/promptshelf/promptshelf-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Categories
	ListCategories(ctx context.Context) ([]domain.CategoryListItem, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, up CategoryUpdate) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	// Tags
	ListTags(ctx context.Context) ([]domain.TagListItem, error)
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	FindOrCreateTag(ctx context.Context, name, color string) (*domain.Tag, bool, error)
	UpdateTag(ctx context.Context, id int64, up TagUpdate) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error

	// AI platforms
	ListAIPlatforms(ctx context.Context) ([]domain.AIPlatformListItem, error)
	GetAIPlatform(ctx context.Context, id int64) (*domain.AIPlatform, error)
	GetAIPlatformByName(ctx context.Context, name string) (*domain.AIPlatform, error)
	FindOrCreateAIPlatform(ctx context.Context, in AIPlatformInput) (*domain.AIPlatform, bool, error)
	UpdateAIPlatform(ctx context.Context, id int64, up AIPlatformUpdate) (*domain.AIPlatform, error)
	DeleteAIPlatform(ctx context.Context, id int64) error

	// Prompts
	ListPrompts(ctx context.Context, f PromptFilter) ([]domain.PromptListItem, error)
	SearchPrompts(ctx context.Context, term string) ([]domain.PromptSearchResult, error)
	GetPrompt(ctx context.Context, id int64) (*domain.Prompt, error)
	GetPromptDetail(ctx context.Context, id int64) (*domain.PromptDetail, error)
	ListPromptChildren(ctx context.Context, parentID int64) ([]domain.PromptChild, error)
	CreatePrompt(ctx context.Context, in PromptInput) (*domain.Prompt, error)
	UpdatePrompt(ctx context.Context, id int64, up PromptUpdate) (*domain.Prompt, error)
	RecordPromptCopy(ctx context.Context, id int64) (*domain.Prompt, error)
	RecordPromptCopies(ctx context.Context, ids []int64) error
	DeletePrompt(ctx context.Context, id int64) ([]string, error)

	// AI responses
	ListResponses(ctx context.Context, f ResponseFilter) ([]domain.AIResponseListItem, error)
	ListTopics(ctx context.Context) ([]string, error)
	GetResponse(ctx context.Context, id int64) (*domain.AIResponse, error)
	GetResponseDetail(ctx context.Context, id int64) (*domain.AIResponseDetail, error)
	CreateResponse(ctx context.Context, in ResponseInput) (*domain.AIResponse, error)
	UpdateResponse(ctx context.Context, id int64, up ResponseUpdate) (*domain.AIResponse, error)
	ToggleResponseFavorite(ctx context.Context, id int64) (*domain.AIResponse, error)
	DeleteResponse(ctx context.Context, id int64) error

	// Knowledge base
	ListKnowledge(ctx context.Context, f KnowledgeFilter) ([]domain.KnowledgeListItem, error)
	GetKnowledge(ctx context.Context, id int64) (*domain.KnowledgeEntry, error)
	GetKnowledgeDetail(ctx context.Context, id int64) (*domain.KnowledgeDetail, error)
	CreateKnowledge(ctx context.Context, in KnowledgeInput) (*domain.KnowledgeEntry, error)
	UpdateKnowledge(ctx context.Context, id int64, up KnowledgeUpdate) (*domain.KnowledgeEntry, error)
	DeleteKnowledge(ctx context.Context, id int64) ([]string, error)

	// Attachments
	ListAttachments(ctx context.Context, owner domain.AttachmentOwner) ([]domain.Attachment, error)
	GetAttachment(ctx context.Context, id int64) (*domain.Attachment, error)
	CreateAttachment(ctx context.Context, in AttachmentInput) (*domain.Attachment, error)
	DeleteAttachment(ctx context.Context, id int64) error

	// Login sessions
	CreateSession(ctx context.Context, sess *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)

	// Snapshots
	ExportSnapshot(ctx context.Context) (*SnapshotData, error)
	ImportSnapshot(ctx context.Context, data *SnapshotData, mode ImportMode) (*ImportStats, error)
}
