package services

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/prodscout/internal/core/domain"
	"github.com/custodia-labs/prodscout/internal/core/ports/driven"
	"github.com/custodia-labs/prodscout/internal/core/ports/driving"
	"github.com/custodia-labs/prodscout/internal/logger"
)

// Ensure ActionCoordinator implements the interface.
var _ driving.ResultActionService = (*ActionCoordinator)(nil)

// docState is the local view of one document. Guarded by ActionCoordinator.mu.
type docState struct {
	starred       bool
	contributions []domain.Contribution
	count         int
}

// ActionCoordinator runs side effects against a settled result.
//
// Star and like toggles are optimistic and revert on failure. Contributions
// and deletions only touch local state after the server accepts them.
type ActionCoordinator struct {
	api       driven.ProductAPI
	confirmer driven.Confirmer
	clipboard driven.Clipboard
	session   driving.SearchSession

	mu          sync.Mutex
	docs        map[string]*docState
	owners      map[string]string
	deletedTags map[string]bool
}

// NewActionCoordinator creates a coordinator.
// The session is optional (can be nil); when set, document operations are
// only allowed against its current stable single result.
func NewActionCoordinator(api driven.ProductAPI, session driving.SearchSession) *ActionCoordinator {
	return &ActionCoordinator{
		api:         api,
		session:     session,
		docs:        make(map[string]*docState),
		owners:      make(map[string]string),
		deletedTags: make(map[string]bool),
	}
}

// SetConfirmer sets the prompt used before destructive actions.
// Without one every destructive action is declined.
func (c *ActionCoordinator) SetConfirmer(confirmer driven.Confirmer) {
	c.confirmer = confirmer
}

// SetClipboard sets the clipboard used by CopyDefinition.
func (c *ActionCoordinator) SetClipboard(clipboard driven.Clipboard) {
	c.clipboard = clipboard
}

// LoadDocument fetches star status and contributions concurrently.
func (c *ActionCoordinator) LoadDocument(ctx context.Context, documentID string) (driving.DocumentView, error) {
	if err := c.requireDocument(documentID); err != nil {
		return driving.DocumentView{}, err
	}

	var (
		starred       bool
		contributions []domain.Contribution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		starred, err = c.api.StarStatus(gctx, documentID)
		if err != nil {
			return fmt.Errorf("star status: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		contributions, err = c.api.ListContributions(gctx, documentID)
		if err != nil {
			return fmt.Errorf("list contributions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return driving.DocumentView{}, fmt.Errorf("load document %s: %w", documentID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	doc := c.docLocked(documentID)
	doc.starred = starred
	doc.contributions = contributions
	doc.count = len(contributions)
	for _, contrib := range contributions {
		c.owners[contrib.ID] = documentID
	}
	return c.viewLocked(documentID), nil
}

// Document returns the local view of a document.
func (c *ActionCoordinator) Document(documentID string) driving.DocumentView {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docLocked(documentID)
	return c.viewLocked(documentID)
}

// ToggleStar flips the star before the request and reverts it on failure.
func (c *ActionCoordinator) ToggleStar(ctx context.Context, documentID string) (bool, error) {
	if err := c.requireDocument(documentID); err != nil {
		return false, err
	}

	c.mu.Lock()
	doc := c.docLocked(documentID)
	want := !doc.starred
	doc.starred = want
	c.mu.Unlock()

	var err error
	if want {
		err = c.api.Star(ctx, documentID)
	} else {
		err = c.api.Unstar(ctx, documentID)
	}
	if err != nil {
		c.mu.Lock()
		if doc.starred == want {
			doc.starred = !want
		}
		c.mu.Unlock()
		logger.Warn("Star toggle for %s failed, reverted: %v", documentID, err)
		return !want, fmt.Errorf("toggle star on %s: %w", documentID, err)
	}

	logger.Debug("Document %s starred=%t", documentID, want)
	return want, nil
}

// SubmitContribution adds a contribution. Blank text is rejected without a request.
func (c *ActionCoordinator) SubmitContribution(
	ctx context.Context, documentID, text string,
) (domain.Contribution, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Contribution{}, fmt.Errorf("%w: contribution is empty", domain.ErrInvalidInput)
	}
	if err := c.requireDocument(documentID); err != nil {
		return domain.Contribution{}, err
	}

	created, err := c.api.CreateContribution(ctx, documentID, text)
	if err != nil {
		logger.Warn("Contribution to %s failed: %v", documentID, err)
		return domain.Contribution{}, fmt.Errorf("submit contribution: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	doc := c.docLocked(documentID)
	doc.contributions = append([]domain.Contribution{created}, doc.contributions...)
	doc.count++
	c.owners[created.ID] = documentID
	return created, nil
}

// EditContribution replaces a contribution's text after the server accepts it.
func (c *ActionCoordinator) EditContribution(
	ctx context.Context, contributionID, text string,
) (domain.Contribution, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Contribution{}, fmt.Errorf("%w: contribution is empty", domain.ErrInvalidInput)
	}
	if contributionID == "" {
		return domain.Contribution{}, fmt.Errorf("%w: contribution id is empty", domain.ErrInvalidInput)
	}

	updated, err := c.api.UpdateContribution(ctx, contributionID, text)
	if err != nil {
		return domain.Contribution{}, fmt.Errorf("edit contribution %s: %w", contributionID, err)
	}
	updated.IsEdited = true

	c.mu.Lock()
	defer c.mu.Unlock()
	if doc, ok := c.ownerLocked(contributionID); ok {
		if i := indexOf(doc.contributions, contributionID); i >= 0 {
			doc.contributions[i] = updated
		}
	}
	return updated, nil
}

// ToggleLike flips the like and adjusts the count before the request. The
// server's count wins on success; the previous values return on failure.
// The contribution must have been loaded with LoadDocument, otherwise its
// current like is unknown and ErrNotFound is returned.
func (c *ActionCoordinator) ToggleLike(ctx context.Context, contributionID string) (domain.Contribution, error) {
	return c.applyLike(ctx, contributionID, func(liked bool) bool { return !liked })
}

// SetLike likes or unlikes a contribution. A loaded contribution is updated
// optimistically like ToggleLike; on an unbound coordinator an unknown one
// goes straight to the server.
func (c *ActionCoordinator) SetLike(ctx context.Context, contributionID string, liked bool) (domain.Contribution, error) {
	if contributionID == "" {
		return domain.Contribution{}, fmt.Errorf("%w: contribution id is empty", domain.ErrInvalidInput)
	}

	c.mu.Lock()
	_, i := c.contributionLocked(contributionID)
	c.mu.Unlock()
	if i < 0 && c.session == nil {
		return c.likeRemote(ctx, contributionID, liked)
	}
	return c.applyLike(ctx, contributionID, func(bool) bool { return liked })
}

func (c *ActionCoordinator) applyLike(
	ctx context.Context, contributionID string, next func(liked bool) bool,
) (domain.Contribution, error) {
	c.mu.Lock()
	doc, i := c.contributionLocked(contributionID)
	if i < 0 {
		c.mu.Unlock()
		return domain.Contribution{}, fmt.Errorf("contribution %s: %w", contributionID, domain.ErrNotFound)
	}
	before := doc.contributions[i]
	optimistic := before
	optimistic.UserLiked = next(before.UserLiked)
	if optimistic.UserLiked == before.UserLiked {
		c.mu.Unlock()
		return before, nil
	}
	if optimistic.UserLiked {
		optimistic.LikeCount++
	} else if optimistic.LikeCount > 0 {
		optimistic.LikeCount--
	}
	doc.contributions[i] = optimistic
	c.mu.Unlock()

	var (
		count int
		err   error
	)
	if optimistic.UserLiked {
		count, err = c.api.Like(ctx, contributionID)
	} else {
		count, err = c.api.Unlike(ctx, contributionID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	j := indexOf(doc.contributions, contributionID)
	if err != nil {
		if j >= 0 && doc.contributions[j].UserLiked == optimistic.UserLiked {
			doc.contributions[j].UserLiked = before.UserLiked
			doc.contributions[j].LikeCount = before.LikeCount
		}
		logger.Warn("Like toggle for %s failed, reverted: %v", contributionID, err)
		return before, fmt.Errorf("toggle like on %s: %w", contributionID, err)
	}

	optimistic.LikeCount = count
	if j >= 0 && doc.contributions[j].UserLiked == optimistic.UserLiked {
		doc.contributions[j].LikeCount = count
	}
	return optimistic, nil
}

// likeRemote sets the like on a contribution that was never loaded.
func (c *ActionCoordinator) likeRemote(
	ctx context.Context, contributionID string, liked bool,
) (domain.Contribution, error) {
	var (
		count int
		err   error
	)
	if liked {
		count, err = c.api.Like(ctx, contributionID)
	} else {
		count, err = c.api.Unlike(ctx, contributionID)
	}
	if err != nil {
		return domain.Contribution{}, fmt.Errorf("set like on %s: %w", contributionID, err)
	}
	return domain.Contribution{ID: contributionID, UserLiked: liked, LikeCount: count}, nil
}

// DeleteProductTag removes a product tag after the user confirms.
func (c *ActionCoordinator) DeleteProductTag(ctx context.Context, product string) error {
	product = strings.TrimSpace(product)
	if product == "" {
		return fmt.Errorf("%w: product is empty", domain.ErrInvalidInput)
	}
	if err := c.confirm(ctx, fmt.Sprintf("Delete the tag for %q?", product)); err != nil {
		return err
	}

	if err := c.api.DeleteTag(ctx, product); err != nil {
		return fmt.Errorf("delete tag %q: %w", product, err)
	}

	c.mu.Lock()
	c.deletedTags[product] = true
	c.mu.Unlock()
	logger.Info("Deleted tag for %q", product)
	return nil
}

// TagDeleted reports whether the product's tag was deleted in this session.
func (c *ActionCoordinator) TagDeleted(product string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deletedTags[product]
}

// DeleteContribution removes a contribution after the user confirms.
func (c *ActionCoordinator) DeleteContribution(ctx context.Context, contributionID string) error {
	if contributionID == "" {
		return fmt.Errorf("%w: contribution id is empty", domain.ErrInvalidInput)
	}
	if err := c.confirm(ctx, "Delete this contribution?"); err != nil {
		return err
	}

	if err := c.api.DeleteContribution(ctx, contributionID); err != nil {
		return fmt.Errorf("delete contribution %s: %w", contributionID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if doc, ok := c.ownerLocked(contributionID); ok {
		if i := indexOf(doc.contributions, contributionID); i >= 0 {
			doc.contributions = slices.Delete(doc.contributions, i, i+1)
			if doc.count > 0 {
				doc.count--
			}
		}
	}
	delete(c.owners, contributionID)
	return nil
}

// Download writes the original document to w and returns the bytes written.
func (c *ActionCoordinator) Download(ctx context.Context, documentID string, w io.Writer) (int64, error) {
	if err := c.requireDocument(documentID); err != nil {
		return 0, err
	}

	body, err := c.api.DownloadDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", documentID, err)
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", documentID, err)
	}
	return n, nil
}

// CopyDefinition copies the full definition of the current single result,
// regardless of how much the typewriter has revealed.
func (c *ActionCoordinator) CopyDefinition(_ context.Context) error {
	if c.clipboard == nil {
		return fmt.Errorf("%w: no clipboard available", domain.ErrInvalidInput)
	}
	if c.session == nil {
		return domain.ErrNotStable
	}
	text, ok := c.fullDefinition()
	if !ok {
		return domain.ErrNotStable
	}
	if err := c.clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy definition: %w", err)
	}
	return nil
}

// fullDefinition prefers the reveal scheduler's text when the session
// exposes it.
func (c *ActionCoordinator) fullDefinition() (string, bool) {
	if full, ok := c.session.(interface{ FullDefinition() (string, bool) }); ok {
		return full.FullDefinition()
	}
	state := c.session.Snapshot().State
	if state.Kind != domain.StateSingleResult || state.Product == nil {
		return "", false
	}
	return state.Product.AIDefinition, true
}

// requireDocument checks that documentID belongs to the session's current
// stable single result.
func (c *ActionCoordinator) requireDocument(documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document id is empty", domain.ErrInvalidInput)
	}
	if c.session == nil {
		return nil
	}

	state := c.session.Snapshot().State
	if state.Kind != domain.StateSingleResult || state.Product == nil {
		return domain.ErrNotStable
	}
	p := state.Product
	if p.SourceDocument.DocumentID != documentID && !slices.Contains(p.AllDocumentIDs, documentID) {
		return fmt.Errorf("%w: document %s is not part of the current result", domain.ErrNotStable, documentID)
	}

	c.mu.Lock()
	if _, seen := c.docs[documentID]; !seen && p.SourceDocument.DocumentID == documentID {
		c.docs[documentID] = &docState{
			starred: p.SourceDocument.IsStarred,
			count:   p.SourceDocument.ContributionCount,
		}
	}
	c.mu.Unlock()
	return nil
}

func (c *ActionCoordinator) confirm(ctx context.Context, prompt string) error {
	if c.confirmer == nil {
		return domain.ErrConfirmationDeclined
	}
	ok, err := c.confirmer.Confirm(ctx, prompt)
	if err != nil {
		logger.Warn("Confirmation prompt failed: %v", err)
		return fmt.Errorf("%w: %w", domain.ErrConfirmationDeclined, err)
	}
	if !ok {
		return domain.ErrConfirmationDeclined
	}
	return nil
}

func (c *ActionCoordinator) docLocked(documentID string) *docState {
	doc, ok := c.docs[documentID]
	if !ok {
		doc = &docState{}
		c.docs[documentID] = doc
	}
	return doc
}

// contributionLocked finds a loaded contribution. The index is -1 when it is unknown.
func (c *ActionCoordinator) contributionLocked(contributionID string) (*docState, int) {
	doc, ok := c.ownerLocked(contributionID)
	if !ok {
		return nil, -1
	}
	return doc, indexOf(doc.contributions, contributionID)
}

func (c *ActionCoordinator) ownerLocked(contributionID string) (*docState, bool) {
	documentID, ok := c.owners[contributionID]
	if !ok {
		return nil, false
	}
	doc, ok := c.docs[documentID]
	return doc, ok
}

func (c *ActionCoordinator) viewLocked(documentID string) driving.DocumentView {
	doc := c.docs[documentID]
	return driving.DocumentView{
		DocumentID:        documentID,
		IsStarred:         doc.starred,
		Contributions:     slices.Clone(doc.contributions),
		ContributionCount: doc.count,
	}
}

func indexOf(contributions []domain.Contribution, id string) int {
	return slices.IndexFunc(contributions, func(c domain.Contribution) bool { return c.ID == id })
}
