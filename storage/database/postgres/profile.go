package pgrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/profile"
)

type profileRepository struct {
	base
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(exec core.DBExecutor) *profileRepository {
	return &profileRepository{base{exec: exec}}
}

func (repo profileRepository) CreateProfile(ctx context.Context, p profile.Profile, exec ...core.DBExecutor) (profile.Profile, error) {
	db := repo.getExec(exec)

	p.ID = uuid.New().String()
	now := nowUTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	// unique(user_id) makes concurrent provisioning collapse into one row
	_, err := db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, xp, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING`,
		p.ID, p.UserID, p.XP, p.Level, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "inserting profile")
	}
	return repo.getProfileByUserID(ctx, db, p.UserID)
}

func (repo profileRepository) GetProfileByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) (profile.Profile, error) {
	return repo.getProfileByUserID(ctx, repo.getExec(exec), userID)
}

func (repo profileRepository) AddProfileXP(ctx context.Context, userID string, amount int, exec ...core.DBExecutor) (profile.Profile, error) {
	db := repo.getExec(exec)

	// increment and level recomputation happen at the store in one statement
	_, err := db.ExecContext(ctx, `
		UPDATE profiles
		SET xp = xp + $1, level = (xp + $2) / 100 + 1, updated_at = $3
		WHERE user_id = $4`,
		amount, amount, nowUTC(), userID,
	)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "adding profile xp")
	}
	return repo.getProfileByUserID(ctx, db, userID)
}

func (repo profileRepository) getProfileByUserID(ctx context.Context, db core.DBExecutor, userID string) (profile.Profile, error) {
	var p profile.Profile
	err := db.GetContext(ctx, &p, "SELECT * FROM profiles WHERE user_id = $1", userID)
	if err != nil {
		return profile.Profile{}, trapNoRowsErr(err, profile.ErrNotFound, "getting profile by user id")
	}

	p.Badges = make([]content.Badge, 0)
	err = db.SelectContext(ctx, &p.Badges, `
		SELECT b.* FROM badges b
		INNER JOIN profile_badges pb ON pb.badge_id = b.id
		WHERE pb.profile_id = $1
		ORDER BY b.name`, p.ID)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "loading profile badges")
	}
	return p, nil
}
