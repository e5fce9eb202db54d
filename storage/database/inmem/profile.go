package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/content"
	"github.com/trezcool/jifunze/core/profile"
)

type profileRepository struct {
	db *DB
}

var _ profile.Repository = (*profileRepository)(nil) // interface compliance check

func NewProfileRepository(db *DB) *profileRepository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) CreateProfile(ctx context.Context, p profile.Profile, exec ...core.DBExecutor) (profile.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// first write wins, matching the unique(user_id) constraint
	if existing, ok := repo.db.profiles[p.UserID]; ok {
		return repo.withBadges(*existing), nil
	}
	p.ID = uuid.New().String()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	repo.db.profiles[p.UserID] = &p
	return repo.withBadges(p), nil
}

func (repo *profileRepository) GetProfileByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) (profile.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.profiles[userID]; ok {
		return repo.withBadges(*p), nil
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (repo *profileRepository) AddProfileXP(ctx context.Context, userID string, amount int, exec ...core.DBExecutor) (profile.Profile, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	p.XP += amount
	p.Level = profile.LevelForXP(p.XP)
	p.UpdatedAt = time.Now().UTC()
	return repo.withBadges(*p), nil
}

// withBadges loads the profile's badge set; caller holds the lock.
func (repo *profileRepository) withBadges(p profile.Profile) profile.Profile {
	p.Badges = make([]content.Badge, 0)
	for badgeID := range repo.db.profBadges[p.ID] {
		if b, ok := repo.db.badges[badgeID]; ok {
			p.Badges = append(p.Badges, *b)
		}
	}
	sort.Slice(p.Badges, func(i, j int) bool { return p.Badges[i].Name < p.Badges[j].Name })
	return p
}
