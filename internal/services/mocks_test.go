package services_test

import (
	"context"

	"eventim/internal/models"
	"eventim/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User, card *models.Image) error {
	args := m.Called(ctx, user, card)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ListDisabilityMarks(ctx context.Context) ([]models.DisabilityMark, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.DisabilityMark), args.Error(1)
}

// MockEventRepository is a mock implementation of repositories.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, c repositories.EventCreation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockEventRepository) GetAll(ctx context.Context, tourID string) ([]models.Event, error) {
	args := m.Called(ctx, tourID)
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) ListCategories(ctx context.Context, eventID string) ([]models.EventCategory, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.EventCategory), args.Error(1)
}

func (m *MockEventRepository) GetCategory(ctx context.Context, id string) (*models.EventCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventCategory), args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTourRepository is a mock implementation of repositories.TourRepository
type MockTourRepository struct {
	mock.Mock
}

func (m *MockTourRepository) Create(ctx context.Context, c repositories.TourCreation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockTourRepository) GetAll(ctx context.Context) ([]models.Tour, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tour), args.Error(1)
}

func (m *MockTourRepository) GetByID(ctx context.Context, id string) (*models.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tour), args.Error(1)
}

func (m *MockTourRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// recordingPublisher keeps every published routing key.
type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) Publish(routingKey string, _ interface{}) error {
	p.keys = append(p.keys, routingKey)
	return nil
}
