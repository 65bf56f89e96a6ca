package auth

import (
	"context"
	"errors"

	"chainsync/internal/features/role"
	"chainsync/internal/features/user"
	"chainsync/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*user.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthServiceImpl struct {
	UserRepo user.UserRepository
	RoleRepo role.RoleRepository
}

func NewAuthService(userRepo user.UserRepository, roleRepo role.RoleRepository) AuthService {
	return &AuthServiceImpl{
		UserRepo: userRepo,
		RoleRepo: roleRepo,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, password, email string) (*user.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}

	// New accounts get the viewer role when it exists; imports need an explicit grant
	if viewer, err := s.RoleRepo.FindByName(ctx, "viewer"); err == nil {
		u.Roles = append(u.Roles, viewer.ID)
	}

	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.UserRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	roleHexes := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roleHexes = append(roleHexes, r.Hex())
	}
	storeHexes := make([]string, 0, len(u.Stores))
	for _, st := range u.Stores {
		storeHexes = append(storeHexes, st.Hex())
	}

	return utils.GenerateToken(u.ID, u.Username, roleHexes, storeHexes)
}
