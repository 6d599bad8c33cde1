package service

import (
	"errors"
	"strings"
	"time"

	"skillup_backend/internal/model"
	"skillup_backend/internal/repository"
	"skillup_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

type CreateProfileRequest struct {
	Name             string                   `json:"name"`
	Email            string                   `json:"email"`
	Phone            string                   `json:"phone"`
	Location         string                   `json:"location"`
	Role             string                   `json:"role"`
	Skills           []model.Skill            `json:"skills"`
	Certificates     []model.Certificate      `json:"certificates"`
	LearningActivity []model.LearningActivity `json:"learningActivity"`
	Stats            *model.UserStats         `json:"stats"`
}

// UpdateProfileRequest 档案可更新字段的封闭集合
type UpdateProfileRequest struct {
	Name             *string                   `json:"name"`
	Email            *string                   `json:"email"`
	Phone            *string                   `json:"phone"`
	Location         *string                   `json:"location"`
	Role             *string                   `json:"role"`
	Skills           *[]model.Skill            `json:"skills"`
	Certificates     *[]model.Certificate      `json:"certificates"`
	LearningActivity *[]model.LearningActivity `json:"learningActivity"`
	Stats            *model.UserStats          `json:"stats"`
}

func (s *UserService) GetProfile(userID string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, asProfileNotFound(err)
	}
	return user, nil
}

// CreateProfile 档案ID使用调用方的身份ID，一个身份只有一份档案
func (s *UserService) CreateProfile(userID string, req CreateProfileRequest) (*model.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, util.NewValidationError("name", "name is required")
	}
	if len(name) > 50 {
		return nil, util.NewValidationError("name", "name cannot exceed 50 characters")
	}

	role := req.Role
	if role == "" {
		role = "Student"
	}

	user := &model.User{
		UUIDBase:         model.UUIDBase{ID: userID},
		Name:             name,
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:            req.Phone,
		Location:         req.Location,
		Role:             role,
		Skills:           req.Skills,
		Certificates:     req.Certificates,
		LearningActivity: req.LearningActivity,
		JoinDate:         time.Now(),
	}
	if req.Stats != nil {
		user.Stats = *req.Stats
	}

	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.NewConflictError("profile")
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) UpdateProfile(userID string, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, asProfileNotFound(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, util.NewValidationError("name", "name is required")
		}
		if len(name) > 50 {
			return nil, util.NewValidationError("name", "name cannot exceed 50 characters")
		}
		user.Name = name
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Location != nil {
		user.Location = *req.Location
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Skills != nil {
		user.Skills = *req.Skills
	}
	if req.Certificates != nil {
		user.Certificates = *req.Certificates
	}
	if req.LearningActivity != nil {
		user.LearningActivity = *req.LearningActivity
	}
	if req.Stats != nil {
		user.Stats = *req.Stats
	}

	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}

	return user, nil
}

func asProfileNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NewNotFoundError("profile")
	}
	return err
}
