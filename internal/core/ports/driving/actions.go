package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

// DocumentView is the coordinator's local view of one document.
type DocumentView struct {
	DocumentID        string                `json:"document_id"`
	IsStarred         bool                  `json:"is_starred"`
	Contributions     []domain.Contribution `json:"contributions"`
	ContributionCount int                   `json:"contribution_count"`
}

// ResultActionService exposes side effects against the current stable result.
// This is used by TUI, CLI, and MCP adapters.
type ResultActionService interface {
	// LoadDocument fetches star status and contributions for a document.
	LoadDocument(ctx context.Context, documentID string) (DocumentView, error)

	// Document returns the cached local view of a document.
	Document(documentID string) DocumentView

	// ToggleStar flips the star optimistically and returns the new value.
	ToggleStar(ctx context.Context, documentID string) (bool, error)

	// SubmitContribution adds a contribution to the document.
	SubmitContribution(ctx context.Context, documentID, text string) (domain.Contribution, error)

	// EditContribution updates a contribution's text.
	EditContribution(ctx context.Context, contributionID, text string) (domain.Contribution, error)

	// ToggleLike flips the like on a loaded contribution optimistically.
	ToggleLike(ctx context.Context, contributionID string) (domain.Contribution, error)

	// SetLike likes or unlikes a contribution.
	SetLike(ctx context.Context, contributionID string, liked bool) (domain.Contribution, error)

	// DeleteProductTag removes a product tag after confirmation.
	DeleteProductTag(ctx context.Context, product string) error

	// TagDeleted reports whether the product's tag was deleted.
	TagDeleted(product string) bool

	// DeleteContribution removes a contribution after confirmation.
	DeleteContribution(ctx context.Context, contributionID string) error

	// Download writes the original document to w.
	Download(ctx context.Context, documentID string, w io.Writer) (int64, error)

	// CopyDefinition copies the full definition of the current result.
	CopyDefinition(ctx context.Context) error
}
