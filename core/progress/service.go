package progress

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/content"
)

var (
	// ErrChapterLocked is an expected rejection, not a failure: the caller
	// reports it to the user and carries on.
	ErrChapterLocked = errors.New("this chapter is locked; complete the previous chapter first")
)

type (
	Repository interface {
		// CreateCompletion inserts the completion record unless one already
		// exists for (user, chapter); reports whether a new record was made.
		// CompletedAt of an existing record is never touched.
		CreateCompletion(ctx context.Context, c Completion, exec ...core.DBExecutor) (bool, error)
		QueryUserCompletions(ctx context.Context, userID string, exec ...core.DBExecutor) ([]Completion, error)
		// CompletedOrderExists reports whether the user has completed some
		// chapter whose order equals the given value.
		CompletedOrderExists(ctx context.Context, userID string, order int, exec ...core.DBExecutor) (bool, error)
	}

	Service struct {
		repo        Repository
		contentRepo content.Repository
	}
)

func NewService(repo Repository, contentRepo content.Repository) *Service {
	return &Service{repo: repo, contentRepo: contentRepo}
}

// IsUnlocked applies the unlock rule: the chapter with order 1 is always
// unlocked; a chapter with order N > 1 is unlocked iff the user completed
// some chapter with order N-1.
//
// Unlocking goes by numeric adjacency of order values only. Orderings with
// gaps or duplicates therefore under- or over-unlock; that fragility is
// inherited behavior, deliberately left as is rather than papered over.
func (svc *Service) IsUnlocked(ctx context.Context, userID string, chapter content.Chapter) (bool, error) {
	if chapter.Order == 1 {
		return true, nil
	}
	ok, err := svc.repo.CompletedOrderExists(ctx, userID, chapter.Order-1)
	if err != nil {
		return false, errors.Wrap(err, "checking completed orders")
	}
	return ok, nil
}

// EnsureUnlocked returns ErrChapterLocked when the unlock precondition is unmet.
func (svc *Service) EnsureUnlocked(ctx context.Context, userID string, chapter content.Chapter) error {
	unlocked, err := svc.IsUnlocked(ctx, userID, chapter)
	if err != nil {
		return err
	}
	if !unlocked {
		return ErrChapterLocked
	}
	return nil
}

// MarkCompleted records the chapter completion for the user; idempotent.
// Reports whether this call created the record.
func (svc *Service) MarkCompleted(ctx context.Context, userID, chapterID string, exec ...core.DBExecutor) (bool, error) {
	return svc.repo.CreateCompletion(ctx, Completion{
		UserID:      userID,
		ChapterID:   chapterID,
		CompletedAt: time.Now().UTC(),
	}, exec...)
}

func (svc *Service) UserCompletions(ctx context.Context, userID string) ([]Completion, error) {
	return svc.repo.QueryUserCompletions(ctx, userID)
}

// ChapterStatuses returns every chapter in order, flagged with the user's
// unlock and completion state, for the chapter list page.
func (svc *Service) ChapterStatuses(ctx context.Context, userID string) ([]ChapterStatus, error) {
	chapters, err := svc.contentRepo.QueryChapters(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying chapters")
	}
	completions, err := svc.repo.QueryUserCompletions(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying completions")
	}

	completed := make(map[string]bool, len(completions))
	for _, c := range completions {
		completed[c.ChapterID] = true
	}
	completedOrders := make(map[int]bool, len(completions))
	for _, ch := range chapters {
		if completed[ch.ID] {
			completedOrders[ch.Order] = true
		}
	}

	statuses := make([]ChapterStatus, 0, len(chapters))
	for _, ch := range chapters {
		statuses = append(statuses, ChapterStatus{
			Chapter:     ch,
			IsUnlocked:  ch.Order == 1 || completedOrders[ch.Order-1],
			IsCompleted: completed[ch.ID],
		})
	}
	return statuses, nil
}
