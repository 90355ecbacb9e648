package business

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business.repository: business not found")

	// ErrBlockedDateNotFound возвращается, когда заблокированная дата не найдена
	ErrBlockedDateNotFound = errors.New("business.repository: blocked date not found")

	// ErrSpecialScheduleNotFound возвращается, когда особое расписание не найдено
	ErrSpecialScheduleNotFound = errors.New("business.repository: special schedule not found")

	// ErrDuplicateSpecialSchedule возвращается при нарушении уникальности активного расписания на дату
	ErrDuplicateSpecialSchedule = errors.New("business.repository: active special schedule already exists for date")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("business.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("business.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("business.repository: failed to scan row")
)
