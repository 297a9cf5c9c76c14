package user

import (
	"context"
	"errors"

	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/logger"
)

type Service struct {
	repo   Repository
	hasher Hasher
	log    *logger.Logger
}

func NewService(repo Repository, hasher Hasher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, hasher: hasher, log: log.With("service", "user")}
}

// CreateUser validates the request, hashes the password and persists the user
// with a fresh empty cart. Nothing is written when validation fails.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	if err := in.Validate(); err != nil {
		s.log.Warn("FAIL: create user rejected", "username", in.Username, "reason", err.Error())
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error("FAIL: password hashing", "username", in.Username, "error", err)
		return nil, err
	}
	u := &User{Username: in.Username, Password: hash, Cart: cart.New()}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			s.log.Warn("FAIL: username already taken", "username", in.Username)
		} else {
			s.log.Error("FAIL: create user", "username", in.Username, "error", err)
		}
		return nil, err
	}
	s.log.Info("SUCCESS: user created", "username", u.Username, "id", u.ID)
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logLookup(err, "id", id)
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		s.logLookup(err, "username", username)
		return nil, err
	}
	s.log.Debug("SUCCESS: user found", "username", username)
	return u, nil
}

func (s *Service) logLookup(err error, key string, val any) {
	if errors.Is(err, ErrNotFound) {
		s.log.Warn("FAIL: user not found", key, val)
		return
	}
	s.log.Error("FAIL: user lookup", key, val, "error", err)
}
