package generate_slots

import "fmt"

// validateRequest проверяет входные данные запроса генерации
func validateRequest(req *Request, maxRangeDays int) error {
	if req.ScheduleID <= 0 {
		return fmt.Errorf("%w: scheduleID must be positive", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate %s is before startDate %s",
			ErrInvalidDateRange, req.EndDate.Format("2006-01-02"), req.StartDate.Format("2006-01-02"))
	}

	days := int(truncateToDay(req.EndDate).Sub(truncateToDay(req.StartDate)).Hours()/24) + 1
	if days > maxRangeDays {
		return fmt.Errorf("%w: range of %d days exceeds limit of %d days",
			ErrInvalidDateRange, days, maxRangeDays)
	}
	return nil
}
