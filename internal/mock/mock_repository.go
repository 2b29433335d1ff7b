// Package mock provides testify mocks of the repository and storage
// interfaces for service tests.
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jar-analysis/pkg/model"
)

// MockReportRepository is a mock implementation of repository.ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

// Save mocks the Save method.
func (m *MockReportRepository) Save(ctx context.Context, report *model.ArchiveReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// GetByPath mocks the GetByPath method.
func (m *MockReportRepository) GetByPath(ctx context.Context, path string) (*model.ArchiveReport, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ArchiveReport), args.Error(1)
}

// GetByFileHash mocks the GetByFileHash method.
func (m *MockReportRepository) GetByFileHash(ctx context.Context, hash string) ([]*model.ArchiveReport, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ArchiveReport), args.Error(1)
}

// List mocks the List method.
func (m *MockReportRepository) List(ctx context.Context, limit int) ([]*model.ArchiveReport, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ArchiveReport), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockReportRepository) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
