package generate_slots

import "time"

// Request модель запроса на генерацию слотов
type Request struct {
	ScheduleID       int64     // ID расписания
	StartDate        time.Time // Первый день диапазона (включительно)
	EndDate          time.Time // Последний день диапазона (включительно)
	OverrideExisting bool      // Удалить существующие слоты диапазона перед генерацией
}

// Response модель ответа с итогами генерации
// Генерация отчитывается о частичном успехе: пропущенные слоты
// (уже существующие или попавшие под блокирующие события) не ошибка
type Response struct {
	Created int // Создано новых слотов
	Skipped int // Пропущено слотов
}
