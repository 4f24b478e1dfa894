package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/falak-club/apiserver/types"
)

// AchievementRepository defines persistence operations for achievements.
type AchievementRepository interface {
	Get(ctx context.Context, id int) (types.Achievement, error)
	List(ctx context.Context) ([]types.Achievement, error)
	ListByUser(ctx context.Context, userID string) ([]types.Achievement, error)
	Create(ctx context.Context, achievement types.Achievement) (types.Achievement, error)
	Update(ctx context.Context, achievement types.Achievement) (types.Achievement, error)
	Delete(ctx context.Context, id int) error
}

// UserGetter is the slice of UserRepository the achievement manager needs.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (types.User, error)
}

// AchievementService encapsulates achievement management. Admin-only; the
// gate lives in the handler layer.
type AchievementService struct {
	repo  AchievementRepository
	users UserGetter
}

func NewAchievementService(repo AchievementRepository, users UserGetter) *AchievementService {
	return &AchievementService{repo: repo, users: users}
}

func (s *AchievementService) List(ctx context.Context) ([]types.Achievement, error) {
	return s.repo.List(ctx)
}

func (s *AchievementService) ListByUser(ctx context.Context, userID string) ([]types.Achievement, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create assigns an achievement. The target must hold an approved
// membership at assignment time; the check is not re-run later, so a
// member who is rejected afterwards keeps the achievement.
func (s *AchievementService) Create(ctx context.Context, achievement types.Achievement) (types.Achievement, error) {
	achievement.Title = strings.TrimSpace(achievement.Title)
	if achievement.Title == "" {
		return types.Achievement{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	user, err := s.users.GetByID(ctx, achievement.UserID)
	if err != nil {
		return types.Achievement{}, err
	}
	if user.Status != types.StatusApproved {
		return types.Achievement{}, ErrNotApproved
	}

	return s.repo.Create(ctx, achievement)
}

func (s *AchievementService) Update(ctx context.Context, achievement types.Achievement) (types.Achievement, error) {
	achievement.Title = strings.TrimSpace(achievement.Title)
	if achievement.Title == "" {
		return types.Achievement{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.repo.Update(ctx, achievement)
}

func (s *AchievementService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
