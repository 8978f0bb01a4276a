package booking

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

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"id",
	"company_id",
	"service_id",
	"user_id",
	"staff_id",
	"time_slot_id",
	"client_name",
	"client_phone",
	"client_email",
	"start_time",
	"end_time",
	"duration_minutes",
	"price",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"company_id",
			"service_id",
			"user_id",
			"staff_id",
			"time_slot_id",
			"client_name",
			"client_phone",
			"client_email",
			"start_time",
			"end_time",
			"duration_minutes",
			"price",
			"status",
			"notes",
		).
		Values(
			booking.CompanyID,
			booking.ServiceID,
			booking.UserID,
			booking.StaffID,
			booking.TimeSlotID,
			booking.ClientName,
			booking.ClientPhone,
			booking.ClientEmail,
			booking.StartTime,
			booking.EndTime,
			booking.DurationMinutes,
			booking.Price,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	booking, err := scanBooking(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListWithFilter получает бронирования с гибкой фильтрацией
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("start_time ASC")

	if filter.CompanyID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"company_id": *filter.CompanyID})
	}
	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}
	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.TimeSlotID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"time_slot_id": *filter.TimeSlotID})
	}
	if filter.StartTime != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_time": *filter.StartTime})
	}
	if filter.EndTime != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"start_time": *filter.EndTime})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if filter.OnlyActive {
		activeStatuses := make([]string, len(domain.ActiveStatuses))
		for i, s := range domain.ActiveStatuses {
			activeStatuses[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": activeStatuses})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// FindOverlapping получает активные бронирования услуги, пересекающиеся с
// интервалом [start, end). Полуоткрытая семантика: existing.start < end
// AND existing.end > start, соприкосновение границ пересечением не считается.
// Если staffID задан, проверка сужается до конкретного сотрудника.
// Внутри транзакции найденные строки блокируются (FOR UPDATE)
func (r *Repository) FindOverlapping(ctx context.Context, serviceID int64, staffID *int64, start, end time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Eq{"status": activeStatuses}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		OrderBy("start_time ASC")

	if staffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *staffID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отмечает бронирование отмененным с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// scanBooking сканирует одну строку результата в доменную модель
func scanBooking(scan func(dest ...interface{}) error) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&booking.ID,
		&booking.CompanyID,
		&booking.ServiceID,
		&booking.UserID,
		&booking.StaffID,
		&booking.TimeSlotID,
		&booking.ClientName,
		&booking.ClientPhone,
		&booking.ClientEmail,
		&booking.StartTime,
		&booking.EndTime,
		&booking.DurationMinutes,
		&booking.Price,
		&booking.Status,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
