package mongodb

import (
	"context"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

type transactor interface {
	WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error)) (interface{}, error)
}

type transactionManager struct {
	db transactor
}

// NewTransactionManager adapts *database.MongoDB to interfaces.TransactionManager.
func NewTransactionManager(db transactor) interfaces.TransactionManager {
	return &transactionManager{db: db}
}

func (m *transactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := m.db.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
