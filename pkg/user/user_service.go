package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"Planeat-Backend/domain"
	"Planeat-Backend/entities"
	"Planeat-Backend/internal/utils/mailing"
	"Planeat-Backend/internal/utils/storage"
	"Planeat-Backend/pkg/gamification"
	"Planeat-Backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (*domain.MeResponse, error)
		UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) error
		GetProfile(ctx context.Context, userID string) (*domain.ProfileResponse, error)
		UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (*domain.ProfileResponse, error)
	}

	userService struct {
		userRepository         UserRepository
		gamificationRepository gamification.GamificationRepository
		gamificationService    gamification.GamificationService
		jwtService             jwt.JWTService
		s3                     *storage.AwsS3
	}
)

func NewUserService(
	userRepository UserRepository,
	gamificationRepository gamification.GamificationRepository,
	gamificationService gamification.GamificationService,
	jwtService jwt.JWTService,
	s3 *storage.AwsS3,
) UserService {
	return &userService{
		userRepository:         userRepository,
		gamificationRepository: gamificationRepository,
		gamificationService:    gamificationService,
		jwtService:             jwtService,
		s3:                     s3,
	}
}

// Register creates the user with an empty dietary profile and seeds the
// gamification state through the ledger with a welcome bonus, so the
// ledger-sum invariant holds from the very first row.
func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetByEmail(ctx, req.Email); err == nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &entities.User{
		ID:       uuid.New(),
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
	}

	if err := s.userRepository.Create(ctx, newUser); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}

	profile := &entities.Profile{
		ID:          uuid.New(),
		UserID:      newUser.ID,
		Allergies:   entities.StringList{},
		Dislikes:    entities.StringList{},
		PantryItems: entities.StringList{},
	}
	if err := s.userRepository.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	if _, err := s.gamificationRepository.AddPoints(ctx, newUser.ID, domain.PointsWelcomeBonus, domain.ReasonWelcomeBonus); err != nil {
		return nil, err
	}

	go func() {
		body := fmt.Sprintf("<p>Hola %s, bienvenido a Planeat. Genera tu primer menú semanal y empieza a sumar puntos.</p>", newUser.Name)
		if err := mailing.SendMail(newUser.Email, "Bienvenido a Planeat", body); err != nil {
			log.Printf("welcome mail to %s failed: %v", newUser.Email, err)
		}
	}()

	return &domain.RegisterResponse{
		ID:    newUser.ID.String(),
		Email: newUser.Email,
		Name:  newUser.Name,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	found, err := s.userRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token := s.jwtService.GenerateTokenUser(found.ID.String(), domain.RoleUser)
	return &domain.LoginResponse{
		Token: token,
		Email: found.Email,
		Name:  found.Name,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.MeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	found, err := s.userRepository.GetByID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	res := &domain.MeResponse{
		ID:           found.ID.String(),
		Email:        found.Email,
		Name:         found.Name,
		AvatarURL:    found.AvatarURL,
		IsPremium:    found.IsPremium,
		PremiumUntil: found.PremiumUntil,
	}

	if profile, err := s.userRepository.GetProfileByUserID(ctx, userUUID); err == nil {
		res.Profile = profileResponse(profile)
	}
	if stats, err := s.gamificationService.GetStats(ctx, userID); err == nil {
		res.Gamification = stats
	}
	return res, nil
}

func (s *userService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	found, err := s.userRepository.GetByID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if req.Name != "" {
		found.Name = req.Name
	}
	if req.Avatar != nil {
		key := fmt.Sprintf("avatars/%s-%d", found.ID, time.Now().Unix())
		url, err := s.s3.UploadFile(ctx, key, req.Avatar)
		if err != nil {
			return err
		}
		found.AvatarURL = url
	}

	return s.userRepository.Update(ctx, found)
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.ProfileResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	profile, err := s.userRepository.GetProfileByUserID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profileResponse(profile), nil
}

func (s *userService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (*domain.ProfileResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	profile, err := s.userRepository.GetProfileByUserID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	if req.BudgetWeekly > 0 {
		profile.BudgetWeekly = req.BudgetWeekly
	}
	if req.Diners > 0 {
		profile.Diners = req.Diners
	}
	if req.MealsPerDay > 0 {
		profile.MealsPerDay = req.MealsPerDay
	}
	if req.DaysPerWeek > 0 {
		profile.DaysPerWeek = req.DaysPerWeek
	}
	if req.DietType != "" {
		profile.DietType = req.DietType
	}
	if req.Allergies != nil {
		profile.Allergies = req.Allergies
	}
	if req.Dislikes != nil {
		profile.Dislikes = req.Dislikes
	}
	if req.PantryItems != nil {
		profile.PantryItems = req.PantryItems
	}

	if err := s.userRepository.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profileResponse(profile), nil
}

func profileResponse(profile *entities.Profile) *domain.ProfileResponse {
	return &domain.ProfileResponse{
		BudgetWeekly: profile.BudgetWeekly,
		Diners:       profile.Diners,
		MealsPerDay:  profile.MealsPerDay,
		DaysPerWeek:  profile.DaysPerWeek,
		DietType:     profile.DietType,
		Allergies:    profile.Allergies,
		Dislikes:     profile.Dislikes,
		PantryItems:  profile.PantryItems,
	}
}
