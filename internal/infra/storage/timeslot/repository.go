package timeslot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с временными слотами
//
// Счетчик занятости слота меняется только через Reserve/Release - одиночные
// условные UPDATE, безопасные при конкурентных вызовах из разных процессов.
// SQL CASE в этих запросах обязан соответствовать domain.ComputeSlotStatus.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория временных слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var slotColumns = []string{
	"id",
	"schedule_id",
	"start_time",
	"end_time",
	"max_clients",
	"booked_clients",
	"status",
	"is_blocked",
	"price",
	"notes",
	"block_reason",
	"event_name",
	"created_at",
	"updated_at",
}

// SlotsFilter фильтр для выборки слотов
type SlotsFilter struct {
	ScheduleID    *int64
	ServiceID     *int64     // Через join с schedules
	CompanyID     *int64     // Через join с schedules
	StartTime     *time.Time // Нижняя граница начала слота
	EndTime       *time.Time // Верхняя граница начала слота
	OnlyAvailable bool       // Только незаблокированные слоты со свободными местами
}

// Create вставляет слот, если идентичного (schedule_id, start_time, end_time)
// еще нет. Проверка существования и вставка - один оператор
// (ON CONFLICT DO NOTHING), поэтому конкурентная генерация по одному
// расписанию не создает дубликатов.
// Возвращает false, если слот уже существовал.
func (r *Repository) Create(ctx context.Context, slot *domain.TimeSlot) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_slots").
		Columns(
			"schedule_id",
			"start_time",
			"end_time",
			"max_clients",
			"booked_clients",
			"status",
			"is_blocked",
			"price",
			"notes",
			"event_name",
		).
		Values(
			slot.ScheduleID,
			slot.StartTime,
			slot.EndTime,
			slot.MaxClients,
			slot.BookedClients,
			slot.Status,
			slot.IsBlocked,
			slot.Price,
			slot.Notes,
			slot.EventName,
		).
		Suffix("ON CONFLICT (schedule_id, start_time, end_time) DO NOTHING").
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		// Конфликт по уникальному интервалу - слот уже существует
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return true, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	slot, err := scanSlot(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// List получает слоты по фильтру, отсортированные по времени начала
func (r *Repository) List(ctx context.Context, filter SlotsFilter) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := make([]string, len(slotColumns))
	for i, c := range slotColumns {
		columns[i] = "ts." + c
	}

	selectBuilder := psqlbuilder.Select(columns...).
		From("time_slots ts").
		OrderBy("ts.start_time ASC")

	if filter.ServiceID != nil || filter.CompanyID != nil {
		selectBuilder = selectBuilder.Join("schedules s ON s.id = ts.schedule_id")
		if filter.ServiceID != nil {
			selectBuilder = selectBuilder.Where(squirrel.Eq{"s.service_id": *filter.ServiceID})
		}
		if filter.CompanyID != nil {
			selectBuilder = selectBuilder.Where(squirrel.Eq{"s.company_id": *filter.CompanyID})
		}
	}

	if filter.ScheduleID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ts.schedule_id": *filter.ScheduleID})
	}
	if filter.StartTime != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"ts.start_time": *filter.StartTime})
	}
	if filter.EndTime != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"ts.start_time": *filter.EndTime})
	}
	if filter.OnlyAvailable {
		selectBuilder = selectBuilder.
			Where(squirrel.Eq{"ts.is_blocked": false}).
			Where(squirrel.Expr("ts.booked_clients < ts.max_clients"))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.TimeSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// Reserve атомарно занимает одно место в слоте
//
// Один условный UPDATE: инкремент проходит только если слот не заблокирован
// и места еще есть. Два конкурентных вызова на последнее место дают ровно
// один успех - второй UPDATE не находит строку по условию и возвращает
// ErrSlotUnavailable.
func (r *Repository) Reserve(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("booked_clients", squirrel.Expr("booked_clients + 1")).
		Set("status", squirrel.Expr(
			"CASE WHEN booked_clients + 1 >= max_clients THEN 'booked' ELSE 'partially_booked' END")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"is_blocked": false}).
		Where(squirrel.Expr("booked_clients < max_clients")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return r.classifyNoRows(ctx, id, ErrSlotUnavailable)
	}

	return nil
}

// Release атомарно освобождает одно место в слоте
// Декремент проходит только при booked_clients > 0: счетчик никогда
// не уходит в минус. Release на нулевом счетчике - ErrNoActiveReservations
func (r *Repository) Release(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("booked_clients", squirrel.Expr("booked_clients - 1")).
		Set("status", squirrel.Expr(
			"CASE WHEN is_blocked THEN 'blocked' WHEN booked_clients - 1 = 0 THEN 'available' ELSE 'partially_booked' END")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("booked_clients > 0")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Release - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return r.classifyNoRows(ctx, id, ErrNoActiveReservations)
	}

	return nil
}

// SetBlocked блокирует или разблокирует слот, пересчитывая статус
func (r *Repository) SetBlocked(ctx context.Context, id int64, blocked bool, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_blocked", blocked).
		Set("block_reason", reason).
		Set("status", squirrel.Expr(
			"CASE WHEN ? THEN 'blocked' WHEN booked_clients >= max_clients THEN 'booked' "+
				"WHEN booked_clients > 0 THEN 'partially_booked' ELSE 'available' END", blocked)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetBlocked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetBlocked - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetBlocked - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// UpdateDetails обновляет редактируемые поля слота
// Вместимость нельзя опустить ниже текущей занятости
func (r *Repository) UpdateDetails(ctx context.Context, id int64, maxClients *int, price *float64, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("time_slots").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if maxClients != nil {
		updateBuilder = updateBuilder.
			Set("max_clients", *maxClients).
			Set("status", squirrel.Expr(
				"CASE WHEN is_blocked THEN 'blocked' WHEN booked_clients >= ? THEN 'booked' "+
					"WHEN booked_clients > 0 THEN 'partially_booked' ELSE 'available' END", *maxClients)).
			Where(squirrel.Expr("booked_clients <= ?", *maxClients))
	}
	if price != nil {
		updateBuilder = updateBuilder.Set("price", *price)
	}
	if notes != nil {
		updateBuilder = updateBuilder.Set("notes", *notes)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateDetails - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDetails - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateDetails - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return r.classifyNoRows(ctx, id, ErrCapacityBelowOccupancy)
	}

	return nil
}

// DeleteByScheduleRange удаляет слоты расписания, начинающиеся в диапазоне [from, to]
// Используется при регенерации с override_existing
func (r *Repository) DeleteByScheduleRange(ctx context.Context, scheduleID int64, from, to time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("time_slots").
		Where(squirrel.Eq{"schedule_id": scheduleID}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.LtOrEq{"start_time": to}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByScheduleRange - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByScheduleRange - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByScheduleRange - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// classifyNoRows различает "слот не найден" и "условие не выполнено",
// когда условный UPDATE не затронул ни одной строки
func (r *Repository) classifyNoRows(ctx context.Context, id int64, conditionErr error) error {
	query, args, err := psqlbuilder.Select("1").
		From("time_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: classifyNoRows - build select query: %v", ErrBuildQuery, err)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	var one int
	scanErr := executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if scanErr == sql.ErrNoRows {
		return ErrSlotNotFound
	}
	if scanErr != nil {
		return fmt.Errorf("%w: classifyNoRows - check existence: %v", ErrExecQuery, scanErr)
	}

	return conditionErr
}

// scanSlot сканирует строку результата в доменную модель
func scanSlot(scan func(dest ...interface{}) error) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&slot.ID,
		&slot.ScheduleID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxClients,
		&slot.BookedClients,
		&slot.Status,
		&slot.IsBlocked,
		&slot.Price,
		&slot.Notes,
		&slot.BlockReason,
		&slot.EventName,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}
