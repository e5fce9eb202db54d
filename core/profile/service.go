package profile

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
)

var (
	// errors
	ErrNotFound   = errors.New("profile not found")
	ErrNegativeXP = errors.New("xp amount must not be negative")
)

type (
	Repository interface {
		// CreateProfile inserts the profile unless one already exists for the
		// user, in which case the existing row is returned untouched. Backed
		// by the unique(user_id) constraint so concurrent provisioning for
		// the same user can never yield duplicates.
		CreateProfile(ctx context.Context, p Profile, exec ...core.DBExecutor) (Profile, error)
		GetProfileByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) (Profile, error)
		// AddProfileXP applies the increment and the level recomputation in a
		// single statement at the store, never from application memory.
		AddProfileXP(ctx context.Context, userID string, amount int, exec ...core.DBExecutor) (Profile, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetOrCreate returns the user's profile, provisioning a fresh one (xp=0,
// level=1) when absent. Registration calls this explicitly right after user
// creation; it also serves as the lazy fallback for pre-existing users.
func (svc *Service) GetOrCreate(ctx context.Context, userID string, exec ...core.DBExecutor) (Profile, error) {
	prof, err := svc.repo.GetProfileByUserID(ctx, userID, exec...)
	if err == nil {
		return prof, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Profile{}, errors.Wrap(err, "getting profile")
	}
	return svc.repo.CreateProfile(ctx, Profile{UserID: userID, XP: 0, Level: LevelForXP(0)}, exec...)
}

// AddXP increases the profile's XP by amount (>= 0) and recomputes the level.
// XP is monotonically non-decreasing; no operation ever takes it back down.
func (svc *Service) AddXP(ctx context.Context, userID string, amount int, exec ...core.DBExecutor) (Profile, error) {
	if amount < 0 {
		return Profile{}, core.NewValidationError(ErrNegativeXP, core.FieldError{Field: "xp", Error: ErrNegativeXP.Error()})
	}
	return svc.repo.AddProfileXP(ctx, userID, amount, exec...)
}

func (svc *Service) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	return svc.repo.GetProfileByUserID(ctx, userID)
}
