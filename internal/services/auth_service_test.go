package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"eventim/internal/models"
	"eventim/internal/repositories"
	"eventim/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newAuthService(repo *MockUserRepository, pub services.Publisher) *services.AuthService {
	return services.NewAuthService(repo, nil, pub, nil, services.AuthConfig{
		JWTSecret:  testJWTSecret,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, repositories.ErrNotFound)
}

func validRegistration() services.RegisterRequest {
	return services.RegisterRequest{
		FirstName: "Erika",
		LastName:  "Mustermann",
		Email:     " Erika@Example.com ",
		Password:  "password123",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	marks := []models.DisabilityMark{{Code: "G"}, {Code: "B"}, {Code: "aG"}}

	t.Run("stores hashed password, marks and card", func(t *testing.T) {
		repo := new(MockUserRepository)
		pub := &recordingPublisher{}
		svc := newAuthService(repo, pub)

		var stored *models.User
		var card *models.Image
		repo.On("GetByEmail", mock.Anything, "erika@example.com").Return(nil, notFound("user")).Once()
		repo.On("ListDisabilityMarks", mock.Anything).Return(marks, nil).Once()
		repo.On("Create", mock.Anything, mock.AnythingOfType("*models.User"), mock.Anything).
			Run(func(args mock.Arguments) {
				stored = args.Get(1).(*models.User)
				card, _ = args.Get(2).(*models.Image)
			}).Return(nil).Once()

		degree := 70
		req := validRegistration()
		req.HasDisability = true
		req.DisabilityDegree = &degree
		req.DisabilityMarks = []string{" G", "B", "G"}

		user, err := svc.Register(ctx, req, &services.Upload{Filename: "card.png", Data: pngHeader})
		require.NoError(t, err)
		repo.AssertExpectations(t)

		assert.Same(t, stored, user)
		assert.Equal(t, "erika@example.com", user.Email)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
		assert.Equal(t, []string{"G", "B"}, user.MarkCodes())
		require.NotNil(t, card)
		assert.Equal(t, "image/png", card.MimeType)
		assert.Equal(t, pngHeader, card.Data)
		assert.Equal(t, []string{services.EventUserRegistered}, pub.keys)
	})

	t.Run("email already registered", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo, nil)
		repo.On("GetByEmail", mock.Anything, "erika@example.com").Return(&models.User{ID: "1"}, nil).Once()

		_, err := svc.Register(ctx, validRegistration(), nil)
		assert.ErrorIs(t, err, services.ErrEmailTaken)
		assert.Equal(t, "Diese E-Mail-Adresse ist bereits registriert.", err.Error())
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unique index violation maps to email taken", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo, nil)
		repo.On("GetByEmail", mock.Anything, "erika@example.com").Return(nil, notFound("user")).Once()
		repo.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(fmt.Errorf("failed to create user: %w", repositories.ErrConflict)).Once()

		_, err := svc.Register(ctx, validRegistration(), nil)
		assert.ErrorIs(t, err, services.ErrEmailTaken)
	})

	t.Run("validation failures write nothing", func(t *testing.T) {
		degree := 25
		cases := []struct {
			name  string
			edit  func(r *services.RegisterRequest)
			field string
		}{
			{"blank first name", func(r *services.RegisterRequest) { r.FirstName = "  " }, "first_name"},
			{"bad email", func(r *services.RegisterRequest) { r.Email = "not-an-email" }, "email"},
			{"short password", func(r *services.RegisterRequest) { r.Password = "short" }, "password"},
			{"degree off step", func(r *services.RegisterRequest) {
				r.HasDisability = true
				r.DisabilityDegree = &degree
			}, "disability_degree"},
			{"unknown mark", func(r *services.RegisterRequest) {
				r.HasDisability = true
				r.DisabilityMarks = []string{"G", "XYZ"}
			}, "disability_marks[1]"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				repo := new(MockUserRepository)
				repo.On("ListDisabilityMarks", mock.Anything).Return(marks, nil).Maybe()
				svc := newAuthService(repo, nil)

				req := validRegistration()
				tc.edit(&req)
				_, err := svc.Register(ctx, req, nil)

				var verr *services.ValidationError
				require.True(t, errors.As(err, &verr), "got %v", err)
				assert.Equal(t, tc.field, verr.Field)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("card that is not an image", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAuthService(repo, nil)
		repo.On("GetByEmail", mock.Anything, "erika@example.com").Return(nil, notFound("user")).Once()

		req := validRegistration()
		req.HasDisability = true
		_, err := svc.Register(ctx, req, &services.Upload{Filename: "card.txt", Data: []byte("plain text")})

		var verr *services.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "disability_card", verr.Field)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := newAuthService(repo, nil)

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{ID: "user-123", Email: "test@example.com", PasswordHash: string(hashedPassword)}

	repo.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()
	token, err := svc.LoginUser(ctx, "Test@Example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, user.Email, claims["email"])

	// Wrong password and unknown email must be indistinguishable.
	repo.On("GetByEmail", mock.Anything, "test@example.com").Return(user, nil).Once()
	_, wrongPassword := svc.LoginUser(ctx, "test@example.com", "wrongpassword")
	repo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, notFound("user")).Once()
	_, unknownEmail := svc.LoginUser(ctx, "nobody@example.com", "password123")

	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, services.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	repo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc := newAuthService(new(MockUserRepository), nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(time.Hour).Unix(),
	})
	validTokenString, _ := token.SignedString([]byte(testJWTSecret))

	id, err := svc.UserIDFromToken(validTokenString)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", id)

	_, err = svc.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	expiredToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "user-123",
		"exp":     jwt.TimeFunc().Add(-time.Hour).Unix(),
	})
	expiredTokenString, _ := expiredToken.SignedString([]byte(testJWTSecret))
	_, err = svc.ValidateToken(expiredTokenString)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-123"})
	foreignString, _ := foreign.SignedString([]byte("another_secret"))
	_, err = svc.UserIDFromToken(foreignString)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}
