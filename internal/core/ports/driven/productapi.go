package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/prodscout/internal/core/domain"
)

// ProductAPI is the REST surface used for stable-state side effects.
// Every call is keyed by a document id, contribution id, or product name.
type ProductAPI interface {
	// StarStatus reports whether the document is starred by the current user.
	StarStatus(ctx context.Context, documentID string) (bool, error)

	// Star stars the document.
	Star(ctx context.Context, documentID string) error

	// Unstar removes the star from the document.
	Unstar(ctx context.Context, documentID string) error

	// ListContributions returns the document's contributions, newest first.
	ListContributions(ctx context.Context, documentID string) ([]domain.Contribution, error)

	// CreateContribution adds a contribution and returns it as stored.
	CreateContribution(ctx context.Context, documentID, content string) (domain.Contribution, error)

	// UpdateContribution edits a contribution and returns it as stored.
	UpdateContribution(ctx context.Context, contributionID, content string) (domain.Contribution, error)

	// DeleteContribution removes a contribution.
	DeleteContribution(ctx context.Context, contributionID string) error

	// Like likes a contribution and returns the authoritative like count.
	Like(ctx context.Context, contributionID string) (int, error)

	// Unlike removes a like and returns the authoritative like count.
	Unlike(ctx context.Context, contributionID string) (int, error)

	// DeleteTag removes the product tag from the catalogue.
	DeleteTag(ctx context.Context, product string) error

	// DownloadDocument streams the original document. The caller closes it.
	DownloadDocument(ctx context.Context, documentID string) (io.ReadCloser, error)
}
