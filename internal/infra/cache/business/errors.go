package business

import "errors"

var (
	// ErrCacheMiss значения нет в кэше
	ErrCacheMiss = errors.New("business.cache: cache miss")

	// ErrStaleSnapshot снимок инвалидирован во время загрузки и не сохранён
	ErrStaleSnapshot = errors.New("business.cache: stale snapshot")

	// ErrCache ошибка обращения к Redis или декодирования
	ErrCache = errors.New("business.cache: redis error")
)
