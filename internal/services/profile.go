package services

import (
	"context"
	"errors"

	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
)

// ProfileRepository defines persistence operations for member profiles.
type ProfileRepository interface {
	GetByUser(ctx context.Context, userID string) (types.Profile, error)
	Upsert(ctx context.Context, profile types.Profile) (types.Profile, error)
}

// PublicProfile is the assembled public view of one member: the directory
// row, the optional profile extras, and their recognitions and approved
// projects.
type PublicProfile struct {
	User         types.User          `json:"user"`
	Profile      *types.Profile      `json:"profile,omitempty"`
	Achievements []types.Achievement `json:"achievements"`
	Projects     []types.Project     `json:"projects"`
}

// ProfileService encapsulates the member profile use-cases.
type ProfileService struct {
	repo         ProfileRepository
	users        UserGetter
	achievements AchievementRepository
	projects     ProjectRepository
}

func NewProfileService(repo ProfileRepository, users UserGetter, achievements AchievementRepository, projects ProjectRepository) *ProfileService {
	return &ProfileService{
		repo:         repo,
		users:        users,
		achievements: achievements,
		projects:     projects,
	}
}

func (s *ProfileService) GetByUser(ctx context.Context, userID string) (types.Profile, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Upsert saves the caller's own profile. Ownership is enforced here: the
// row is always keyed by the caller's id, whatever the payload says.
func (s *ProfileService) Upsert(ctx context.Context, callerID string, profile types.Profile) (types.Profile, error) {
	profile.UserID = callerID
	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	return s.repo.Upsert(ctx, profile)
}

// Public assembles the public profile page for one member. A missing
// profile row is not an error; the extras are simply absent. Only
// approved projects are included.
func (s *ProfileService) Public(ctx context.Context, userID string) (PublicProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return PublicProfile{}, err
	}

	view := PublicProfile{
		User:         user,
		Achievements: []types.Achievement{},
		Projects:     []types.Project{},
	}

	profile, err := s.repo.GetByUser(ctx, userID)
	if err == nil {
		view.Profile = &profile
	} else if !errors.Is(err, store.ErrNotFound) {
		return PublicProfile{}, err
	}

	achievements, err := s.achievements.ListByUser(ctx, userID)
	if err != nil {
		return PublicProfile{}, err
	}
	if achievements != nil {
		view.Achievements = achievements
	}

	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return PublicProfile{}, err
	}
	for _, project := range projects {
		if project.Status == types.StatusApproved {
			view.Projects = append(view.Projects, project)
		}
	}
	return view, nil
}
