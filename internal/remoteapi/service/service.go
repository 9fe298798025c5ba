// Package service implements the users resource on top of a repository.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/aDevMister/my-assesment/internal/remoteapi/repository"
	"github.com/aDevMister/my-assesment/pkg/logger"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid user")
)

type Service struct {
	repo repository.Repository
	log  *logger.Component
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo, log: logger.Named("stubapi")}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() *Service {
	return New(repository.NewMemoryRepo())
}

func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int) (models.User, error) {
	u, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// Create stores c under a fresh id. A client supplied id is ignored.
func (s *Service) Create(ctx context.Context, c models.Candidate) (models.User, error) {
	u := models.User{Name: strings.TrimSpace(c.Name), Email: strings.TrimSpace(c.Email)}
	if u.Name == "" {
		return models.User{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if err := s.repo.Create(ctx, &u); err != nil {
		return models.User{}, err
	}
	s.log.Infof("created user %d", u.ID)
	return u, nil
}

// Replace overwrites the user with id.
func (s *Service) Replace(ctx context.Context, id int, u models.User) (models.User, error) {
	u.ID = id
	if strings.TrimSpace(u.Name) == "" {
		return models.User{}, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if err := s.repo.Replace(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

// Delete removes the user with id. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Debugf("delete of unknown user %d", id)
		return nil
	}
	return err
}

// Seed creates n demo users when the repository is empty.
func (s *Service) Seed(ctx context.Context, n int) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 || n <= 0 {
		return nil
	}
	for i := 1; i <= n; i++ {
		u := models.User{Name: fmt.Sprintf("Demo User %02d", i), Email: fmt.Sprintf("demo%02d@example.com", i)}
		if err := s.repo.Create(ctx, &u); err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
	}
	s.log.Infof("seeded %d users", n)
	return nil
}
