package create_booking

import "fmt"

// validateRequest проверяет входные данные запроса
// Запрос обязан однозначно указывать либо слот, либо собственный интервал
func validateRequest(req *Request) error {
	if req.CompanyID <= 0 {
		return fmt.Errorf("%w: companyID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	hasSlot := req.TimeSlotID != nil
	hasWindow := req.StartTime != nil && req.EndTime != nil

	if hasSlot == hasWindow {
		return fmt.Errorf("%w: exactly one of timeSlotID or startTime+endTime is required", ErrInvalidInput)
	}
	if hasSlot && *req.TimeSlotID <= 0 {
		return fmt.Errorf("%w: timeSlotID must be positive", ErrInvalidInput)
	}
	if hasWindow && !req.EndTime.After(*req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.UserID == nil && req.ClientPhone == nil && req.ClientEmail == nil {
		return fmt.Errorf("%w: guest booking requires client phone or email", ErrInvalidInput)
	}
	return nil
}
