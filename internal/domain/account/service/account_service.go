package service

import (
	"encoding/json"
	"errors"

	"bizz_marketplace/internal/domain/account/model"
	"bizz_marketplace/internal/domain/account/repository"
	"bizz_marketplace/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAccountExists   = errors.New("an account with this email already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrAuthFailed      = errors.New("invalid email or password")
	ErrInvalidRole     = errors.New("role must be business or influencer")
)

// AccountService covers registration, login and profile maintenance for
// both marketplace sides.
type AccountService interface {
	Register(in RegisterInput) (*model.User, error)
	Login(email, password string) (string, *model.User, error)
	GetProfile(id string) (*model.User, error)
	UpdateProfile(id string, in UpdateProfileInput) (*model.User, error)
}

// RegisterInput is the validated signup payload. Role-specific fields are
// ignored for the other role.
type RegisterInput struct {
	Email           string
	Password        string
	Role            string
	DisplayName     string
	BusinessName    string
	BusinessAddress string
	Handle          string
	Platforms       []string
	Bio             string
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	DisplayName     string
	AvatarURL       string
	BusinessName    string
	BusinessAddress string
	Handle          string
	Platforms       []string
	Bio             string
}

type accountService struct {
	repo repository.UserRepository
}

// NewAccountService creates the account service.
func NewAccountService(repo repository.UserRepository) AccountService {
	return &accountService{repo: repo}
}

func (s *accountService) Register(in RegisterInput) (*model.User, error) {
	if in.Role != model.RoleBusiness && in.Role != model.RoleInfluencer {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.GetByEmail(in.Email); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:       in.Email,
		Password:    string(hash),
		Role:        in.Role,
		DisplayName: in.DisplayName,
	}

	switch in.Role {
	case model.RoleBusiness:
		user.BusinessName = in.BusinessName
		user.BusinessAddress = in.BusinessAddress
	case model.RoleInfluencer:
		user.Handle = in.Handle
		user.Bio = in.Bio
		if len(in.Platforms) > 0 {
			platforms, err := json.Marshal(in.Platforms)
			if err != nil {
				return nil, err
			}
			user.Platforms = platforms
		}
	}

	if err := s.repo.Create(user); err != nil {
		// The unique index on email closes the check-then-act window.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	return user, nil
}

func (s *accountService) Login(email, password string) (string, *model.User, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrAuthFailed
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrAuthFailed
	}

	token, _, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *accountService) GetProfile(id string) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *accountService) UpdateProfile(id string, in UpdateProfileInput) (*model.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if in.DisplayName != "" {
		user.DisplayName = in.DisplayName
	}
	if in.AvatarURL != "" {
		user.AvatarURL = in.AvatarURL
	}

	switch user.Role {
	case model.RoleBusiness:
		if in.BusinessName != "" {
			user.BusinessName = in.BusinessName
		}
		if in.BusinessAddress != "" {
			user.BusinessAddress = in.BusinessAddress
		}
	case model.RoleInfluencer:
		if in.Handle != "" {
			user.Handle = in.Handle
		}
		if in.Bio != "" {
			user.Bio = in.Bio
		}
		if len(in.Platforms) > 0 {
			platforms, err := json.Marshal(in.Platforms)
			if err != nil {
				return nil, err
			}
			user.Platforms = platforms
		}
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
