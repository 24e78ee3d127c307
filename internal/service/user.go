package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	taken, err := s.repo.EmailTaken(ctx, user.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		s.logger.Warn().Str("email", user.Email).Msg("user email already exists")
		return nil, domain.Conflict("user with email %s already exists", user.Email)
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("user_id", user.ID).Msg("saved new user")
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return ensureUser(ctx, s.repo, id)
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := ensureUser(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		taken, err := s.repo.EmailTaken(ctx, *patch.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("user with email %s already exists", *patch.Email)
		}
		user.Email = *patch.Email
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("user_id", id).Msg("updated user")
	return user, nil
}

// DeleteUser refuses to remove a user who still owns items or has bookings,
// comments, or requests. An unknown id is a NotFound, matching the other
// delete paths.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := ensureUser(ctx, s.repo, id); err != nil {
		return err
	}

	hasDeps, err := s.repo.UserHasDependents(ctx, id)
	if err != nil {
		return err
	}
	if hasDeps {
		s.logger.Warn().Int64("user_id", id).Msg("refusing to delete user with dependent records")
		return domain.Conflict("user with id %d still has items, bookings, comments or requests", id)
	}

	s.logger.Debug().Int64("user_id", id).Msg("deleting user")
	return s.repo.DeleteUser(ctx, id)
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(users)).Msg("fetched users")
	return users, nil
}
