package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/expense-tracker/internal/storage/budget"
	"github.com/carson-networks/expense-tracker/internal/storage/category"
	"github.com/carson-networks/expense-tracker/internal/storage/transaction"
)

type mockTransactionTable struct {
	mock.Mock
}

func (m *mockTransactionTable) FindByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *mockTransactionTable) Insert(ctx context.Context, row *transaction.Transaction) error {
	return m.Called(ctx, row).Error(0)
}

func (m *mockTransactionTable) Update(ctx context.Context, row *transaction.Transaction) error {
	return m.Called(ctx, row).Error(0)
}

func (m *mockTransactionTable) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTransactionTable) List(ctx context.Context, filter *transaction.TransactionFilter) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

type mockBudgetTable struct {
	mock.Mock
}

func (m *mockBudgetTable) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*budget.Budget, error) {
	args := m.Called(ctx, id, forUpdate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *mockBudgetTable) Insert(ctx context.Context, row *budget.Budget) error {
	return m.Called(ctx, row).Error(0)
}

func (m *mockBudgetTable) Update(ctx context.Context, row *budget.Budget) error {
	return m.Called(ctx, row).Error(0)
}

func (m *mockBudgetTable) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBudgetTable) ListForUser(ctx context.Context, userID uuid.UUID) ([]*budget.Budget, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*budget.Budget), args.Error(1)
}

func (m *mockBudgetTable) ListActiveForUser(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*budget.Budget, error) {
	args := m.Called(ctx, userID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*budget.Budget), args.Error(1)
}

type mockCategoryTable struct {
	mock.Mock
}

func (m *mockCategoryTable) FindByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockCategoryTable) FindByOwnerAndName(ctx context.Context, userID uuid.UUID, name string) (*category.Category, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockCategoryTable) Insert(ctx context.Context, row *category.Category) error {
	return m.Called(ctx, row).Error(0)
}

func (m *mockCategoryTable) ListForUser(ctx context.Context, userID uuid.UUID) ([]*category.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}
