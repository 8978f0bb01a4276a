// Package txmanager менеджер сериализуемых транзакций поверх dbmetrics.DB.
// Сериализуемый уровень изоляции нужен для операций бронирования:
// проверка вместимости слота и вставка должны быть атомарными.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

// maxRetries число повторов при serialization failure / deadlock
const maxRetries = 3

// Коды ошибок PostgreSQL, при которых транзакцию безопасно повторить
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// ErrTxBegin возвращается при ошибке начала транзакции
var ErrTxBegin = errors.New("txmanager: failed to begin transaction")

// ErrTxCommit возвращается при ошибке коммита транзакции
var ErrTxCommit = errors.New("txmanager: failed to commit transaction")

// TxBeginner источник транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции в сериализуемых транзакциях
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn в транзакции с уровнем изоляции SERIALIZABLE.
// Транзакция кладется в context - репозитории подхватывают ее через
// dbmetrics.GetExecutor. При serialization failure транзакция повторяется
// до maxRetries раз; fn обязана быть идемпотентной до коммита.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return DoWithRetries(ctx, func(ctx context.Context) error {
		return m.runOnce(ctx, fn)
	})
}

// DoWithRetries выполняет runOnce, повторяя его при serialization failure
// или deadlock до maxRetries раз. Общий цикл повторов для обоих менеджеров
// транзакций (txmanager и simpletxmanager).
func DoWithRetries(ctx context.Context, runOnce func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := runOnce(ctx)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("txmanager: transaction failed after %d attempts: %w", maxRetries, lastErr)
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

// isRetryable проверяет, что ошибка - serialization failure или deadlock
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == pqSerializationFailure || string(pqErr.Code) == pqDeadlockDetected
}
