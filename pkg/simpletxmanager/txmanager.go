// Package simpletxmanager менеджер сериализуемых транзакций поверх *sql.DB.
// Используется, когда метрики выключены и БД не обернута в dbmetrics.DB.
package simpletxmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// ErrTxBegin возвращается при ошибке начала транзакции
var ErrTxBegin = errors.New("simpletxmanager: failed to begin transaction")

// ErrTxCommit возвращается при ошибке коммита транзакции
var ErrTxCommit = errors.New("simpletxmanager: failed to commit transaction")

// TransactionManager выполняет функции в сериализуемых транзакциях
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn в транзакции с уровнем изоляции SERIALIZABLE.
// Транзакция кладется в context и подхватывается репозиториями через
// dbmetrics.GetExecutor. При serialization failure транзакция повторяется,
// как и в txmanager; fn обязана быть идемпотентной до коммита
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return txmanager.DoWithRetries(ctx, func(ctx context.Context) error {
		return m.runOnce(ctx, fn)
	})
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTxBegin, err)
	}

	txCtx := dbmetrics.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	// Код ошибки сохраняется: serialization failure часто проявляется
	// только на COMMIT, и он тоже должен уходить в повтор
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrTxCommit, err)
	}

	return nil
}
