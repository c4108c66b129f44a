package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventim/internal/models"
	"eventim/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FirstName        string   `json:"first_name" validate:"notblank,max=100"`
	LastName         string   `json:"last_name" validate:"notblank,max=100"`
	Email            string   `json:"email" validate:"required,email,max=255"`
	Password         string   `json:"password" validate:"required,min=8,max=72"`
	Phone            string   `json:"phone" validate:"max=50"`
	Street           string   `json:"street" validate:"max=255"`
	PostalCode       string   `json:"postal_code" validate:"max=20"`
	City             string   `json:"city" validate:"max=100"`
	HasDisability    bool     `json:"has_disability"`
	DisabilityDegree *int     `json:"disability_degree"`
	DisabilityMarks  []string `json:"disability_marks" validate:"dive,notblank,max=10"`
}

// AuthConfig holds the token and hashing settings of AuthService.
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService handles registration, credential checks and API tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	images     *ImageService
	events     notifier
	log        *zap.Logger
	jwtSecret  []byte
	tokenDurat time.Duration
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, images *ImageService, pub Publisher, log *zap.Logger, cfg AuthConfig) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	if images == nil {
		images = NewImageService(nil, nil, 0, log)
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		images:     images,
		events:     newNotifier(pub, log),
		log:        log,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenDurat: cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register validates req, hashes the password and stores the user with its disability
// marks and optional disability card in one transaction.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, card *Upload) (*models.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         strings.TrimSpace(req.Phone),
		Street:        strings.TrimSpace(req.Street),
		PostalCode:    strings.TrimSpace(req.PostalCode),
		City:          strings.TrimSpace(req.City),
		HasDisability: req.HasDisability,
	}
	if req.HasDisability {
		if d := req.DisabilityDegree; d != nil {
			if *d < 20 || *d > 100 || *d%10 != 0 {
				return nil, invalid("disability_degree", "Der Grad der Behinderung muss zwischen 20 und 100 in Zehnerschritten liegen.")
			}
			user.DisabilityDegree = d
		}
		marks, err := s.resolveMarks(ctx, req.DisabilityMarks)
		if err != nil {
			return nil, err
		}
		user.Marks = marks
	} else {
		card = nil
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)

	image, release, err := s.images.Prepare(ctx, "disability_card", card)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user, image); err != nil {
		release()
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.events.publish(EventUserRegistered, map[string]interface{}{
		"user_id":        user.ID,
		"email":          user.Email,
		"has_disability": user.HasDisability,
	})
	return user, nil
}

// resolveMarks trims and deduplicates the submitted codes and checks them against the
// known disability marks.
func (s *AuthService) resolveMarks(ctx context.Context, codes []string) ([]models.DisabilityMark, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	known, err := s.userRepo.ListDisabilityMarks(ctx)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]models.DisabilityMark, len(known))
	for _, m := range known {
		byCode[m.Code] = m
	}

	seen := make(map[string]bool, len(codes))
	marks := make([]models.DisabilityMark, 0, len(codes))
	for i, code := range codes {
		code = strings.TrimSpace(code)
		m, ok := byCode[code]
		if !ok {
			return nil, invalid(fmt.Sprintf("disability_marks[%d]", i), fmt.Sprintf("Unbekanntes Merkzeichen %q.", code))
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		marks = append(marks, m)
	}
	return marks, nil
}

// Authenticate checks email and password. Unknown email and wrong password both yield
// ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LoginUser authenticates a user and returns a JWT token if successful.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.IssueToken(user)
}

// IssueToken signs a bearer token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrUnauthorized
}

// UserIDFromToken validates tokenString and returns the user id it was issued for.
func (s *AuthService) UserIDFromToken(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return "", ErrUnauthorized
	}
	return id, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	return s.userRepo.Delete(ctx, id)
}

func (s *AuthService) ListDisabilityMarks(ctx context.Context) ([]models.DisabilityMark, error) {
	return s.userRepo.ListDisabilityMarks(ctx)
}
