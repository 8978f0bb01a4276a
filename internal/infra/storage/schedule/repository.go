package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с расписаниями
// Недельный шаблон, исключения и повторяющиеся события хранятся в JSONB
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var scheduleColumns = []string{
	"id",
	"company_id",
	"service_id",
	"name",
	"type",
	"weekly_template",
	"exceptions",
	"recurring_events",
	"slot_duration_minutes",
	"slot_interval_minutes",
	"max_concurrent_bookings",
	"is_active",
	"created_at",
	"updated_at",
}

// Create создает новое расписание
func (r *Repository) Create(ctx context.Context, schedule *domain.Schedule) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weeklyTemplate, exceptions, recurringEvents, err := marshalTemplates(schedule)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("schedules").
		Columns(
			"company_id",
			"service_id",
			"name",
			"type",
			"weekly_template",
			"exceptions",
			"recurring_events",
			"slot_duration_minutes",
			"slot_interval_minutes",
			"max_concurrent_bookings",
			"is_active",
		).
		Values(
			schedule.CompanyID,
			schedule.ServiceID,
			schedule.Name,
			schedule.Type,
			weeklyTemplate,
			exceptions,
			recurringEvents,
			schedule.SlotDurationMinutes,
			schedule.SlotIntervalMinutes,
			schedule.MaxConcurrentBookings,
			schedule.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&schedule.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return schedule, nil
}

// GetByID получает расписание по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From("schedules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	schedule, err := scanSchedule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan schedule: %v", ErrScanRow, err)
	}

	return schedule, nil
}

// ListByCompany получает расписания компании
// Если serviceID задан, возвращает только расписания этой услуги
func (r *Repository) ListByCompany(ctx context.Context, companyID int64, serviceID *int64) ([]*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(scheduleColumns...).
		From("schedules").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("id ASC")

	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCompany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCompany - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		schedule, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByCompany - scan row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByCompany - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// Update обновляет расписание целиком
// Изменение шаблона не трогает уже сгенерированные слоты
func (r *Repository) Update(ctx context.Context, schedule *domain.Schedule) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	weeklyTemplate, exceptions, recurringEvents, err := marshalTemplates(schedule)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Update("schedules").
		Set("service_id", schedule.ServiceID).
		Set("name", schedule.Name).
		Set("type", schedule.Type).
		Set("weekly_template", weeklyTemplate).
		Set("exceptions", exceptions).
		Set("recurring_events", recurringEvents).
		Set("slot_duration_minutes", schedule.SlotDurationMinutes).
		Set("slot_interval_minutes", schedule.SlotIntervalMinutes).
		Set("max_concurrent_bookings", schedule.MaxConcurrentBookings).
		Set("is_active", schedule.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": schedule.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	schedule.UpdatedAt = updatedAt.Time
	return schedule, nil
}

// Delete удаляет расписание
// Слоты расписания удаляются каскадно (FK time_slots.schedule_id ON DELETE CASCADE)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

// marshalTemplates сериализует JSONB-поля расписания
func marshalTemplates(schedule *domain.Schedule) ([]byte, []byte, []byte, error) {
	weeklyTemplate, err := json.Marshal(schedule.WeeklyTemplate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: weekly template: %v", ErrMarshalTemplate, err)
	}

	exceptions, err := json.Marshal(schedule.Exceptions)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: exceptions: %v", ErrMarshalTemplate, err)
	}

	recurringEvents, err := json.Marshal(schedule.RecurringEvents)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: recurring events: %v", ErrMarshalTemplate, err)
	}

	return weeklyTemplate, exceptions, recurringEvents, nil
}

// scanSchedule сканирует строку результата в доменную модель
func scanSchedule(scan func(dest ...interface{}) error) (*domain.Schedule, error) {
	var schedule domain.Schedule
	var weeklyTemplate, exceptions, recurringEvents []byte
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&schedule.ID,
		&schedule.CompanyID,
		&schedule.ServiceID,
		&schedule.Name,
		&schedule.Type,
		&weeklyTemplate,
		&exceptions,
		&recurringEvents,
		&schedule.SlotDurationMinutes,
		&schedule.SlotIntervalMinutes,
		&schedule.MaxConcurrentBookings,
		&schedule.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(weeklyTemplate, &schedule.WeeklyTemplate); err != nil {
		return nil, fmt.Errorf("%w: weekly template: %v", ErrUnmarshalTemplate, err)
	}
	if err := json.Unmarshal(exceptions, &schedule.Exceptions); err != nil {
		return nil, fmt.Errorf("%w: exceptions: %v", ErrUnmarshalTemplate, err)
	}
	if err := json.Unmarshal(recurringEvents, &schedule.RecurringEvents); err != nil {
		return nil, fmt.Errorf("%w: recurring events: %v", ErrUnmarshalTemplate, err)
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return &schedule, nil
}
