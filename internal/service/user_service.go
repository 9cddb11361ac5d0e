package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"aptitude-trainer/internal/config"
	"aptitude-trainer/internal/domain"
	"aptitude-trainer/internal/dto"
	"aptitude-trainer/internal/repository"
	"aptitude-trainer/internal/util"
)

// UserService defines profile and dashboard operations.
type UserService interface {
	GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetDashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type userServiceImpl struct {
	userRepo      repository.UserRepository
	progressStore *repository.ProgressStore
	appConfig     *config.Config
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repository.UserRepository, progressStore *repository.ProgressStore, appConfig *config.Config) UserService {
	return &userServiceImpl{
		userRepo:      userRepo,
		progressStore: progressStore,
		appConfig:     appConfig,
	}
}

func (s *userServiceImpl) GetUserProfile(ctx context.Context, userID string) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from repository: %w", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError(userID)
	}

	return &dto.UserProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName.String,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}, nil
}

// UpdateProfile edits the account's email and display name.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from repository: %w", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError(userID)
	}

	if req.Email != "" && req.Email != user.Email {
		if !strings.Contains(req.Email, "@") {
			return nil, domain.NewInvalidInputError("email address is invalid")
		}
		existing, err := s.userRepo.GetUserByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email availability: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, domain.NewDuplicateUserError("email is already registered")
		}
		user.Email = req.Email
	}
	user.DisplayName = util.StringToNullString(req.DisplayName)

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &dto.UserProfileResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName.String,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}, nil
}

// GetDashboard aggregates the user's progress: overall statistics, every
// category entry, and the recent activity history (newest first).
func (s *userServiceImpl) GetDashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user from repository: %w", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError(userID)
	}

	progress, err := s.progressStore.GetUserProgress(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user progress: %w", err)
	}

	overall := progress.Overall()
	categorySize := s.appConfig.Progress.CategorySize

	categories := make([]dto.CategoryProgressItem, 0, len(progress.Categories))
	for _, cat := range progress.Categories {
		item := dto.CategoryProgressItem{
			CategorySlug:       cat.CategorySlug,
			QuestionsAttempted: cat.QuestionsAttempted,
			QuestionsCorrect:   cat.QuestionsCorrect,
			Accuracy:           cat.AccuracyPercentage(),
			Completion:         cat.CompletionPercentage(categorySize),
		}
		if !cat.LastAttempted.IsZero() {
			item.LastAttempted = cat.LastAttempted.Format(time.RFC3339)
		}
		categories = append(categories, item)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].CategorySlug < categories[j].CategorySlug
	})

	activities := make([]dto.ActivityItem, 0, len(progress.Activities))
	for i := len(progress.Activities) - 1; i >= 0; i-- {
		act := progress.Activities[i]
		activities = append(activities, dto.ActivityItem{
			Type:         act.Type,
			CategorySlug: act.CategorySlug,
			Score:        act.Score,
			Timestamp:    act.Timestamp.Format(time.RFC3339),
		})
	}

	return &dto.DashboardResponse{
		Username: user.Username,
		Overall: dto.OverallProgressItem{
			TotalQuestionsAttempted: overall.TotalQuestionsAttempted,
			TotalQuestionsCorrect:   overall.TotalQuestionsCorrect,
			OverallAccuracy:         overall.OverallAccuracy,
			CategoriesStarted:       overall.CategoriesStarted,
			TotalCategories:         overall.TotalCategories,
		},
		Categories: categories,
		Activities: activities,
	}, nil
}
