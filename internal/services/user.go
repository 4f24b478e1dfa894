package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/falak-club/apiserver/types"
)

// UserRepository defines persistence operations for directory users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	CompleteProfile(ctx context.Context, user types.User) error
	SetStatus(ctx context.Context, id string, status types.ApprovalStatus) error
}

// JoinForm carries the required fields of the complete-profile form.
type JoinForm struct {
	Name           string
	Grade          int
	GithubUsername string
	Bio            string
}

// UserService encapsulates membership use-cases.
type UserService struct {
	repo     UserRepository
	notifier *Notifier
}

func NewUserService(repo UserRepository, notifier *Notifier) *UserService {
	return &UserService{repo: repo, notifier: notifier}
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

// SetStatus applies an admin approve/reject decision. Both directions are
// allowed from any current state; rejected is not terminal.
func (s *UserService) SetStatus(ctx context.Context, id string, status types.ApprovalStatus) error {
	if status != types.StatusApproved && status != types.StatusRejected {
		return fmt.Errorf("%w: status must be approved or rejected", ErrInvalidInput)
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.notifier.MembershipChanged(ctx, id, string(status))
	return nil
}

// CompleteProfile applies the join form for the owning user. All fields
// are required; a complete form moves the membership straight to approved
// with no admin review step.
func (s *UserService) CompleteProfile(ctx context.Context, userID string, form JoinForm) (types.User, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.GithubUsername = strings.TrimSpace(form.GithubUsername)
	form.Bio = strings.TrimSpace(form.Bio)

	if form.Name == "" || form.GithubUsername == "" || form.Bio == "" {
		return types.User{}, fmt.Errorf("%w: all profile fields are required", ErrInvalidInput)
	}
	if form.Grade < 9 || form.Grade > 12 {
		return types.User{}, fmt.Errorf("%w: grade must be between 9 and 12", ErrInvalidInput)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return types.User{}, err
	}

	user.Name = form.Name
	user.Grade = form.Grade
	user.GithubUsername = form.GithubUsername
	user.Bio = form.Bio
	user.Status = types.StatusApproved

	if err := s.repo.CompleteProfile(ctx, user); err != nil {
		return types.User{}, err
	}
	s.notifier.MembershipChanged(ctx, user.ID, string(user.Status))
	return user, nil
}
