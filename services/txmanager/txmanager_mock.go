package txmanager

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTransactionManager implements services.TransactionManager for testing.
// By default it simply runs the function without a real transaction.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
