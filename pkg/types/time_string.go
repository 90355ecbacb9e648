package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	timeLayout    = "15:04"
	minutesPerDay = 24 * 60
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда результат выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflow")
)

// TimeString время суток в формате "HH:MM"
// Значение "24:00" допустимо только как конец интервала (полночь следующего дня)
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(strings.TrimSpace(s))
	if len(ts) == len("15:04:05") {
		ts = ts[:5]
	}
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// FromMinutes создает TimeString из количества минут с начала суток
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// MustFromMinutes как FromMinutes, но паникует на некорректном значении
func MustFromMinutes(minutes int) TimeString {
	ts, err := FromMinutes(minutes)
	if err != nil {
		panic(err)
	}
	return ts
}

// Validate проверяет формат
func (t TimeString) Validate() error {
	if t == "24:00" {
		return nil
	}
	if len(t) != len(timeLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут с начала суток
func (t TimeString) Minutes() (int, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	if t == "24:00" {
		return minutesPerDay, nil
	}
	parsed, _ := time.Parse(timeLayout, string(t))
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes возвращает время, сдвинутое на n минут
// Выход за пределы суток считается ошибкой
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	m, err := t.Minutes()
	if err != nil {
		return "", err
	}
	return FromMinutes(m + n)
}

// IsBefore строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a < b
}

// IsAfter строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	return errA == nil && errB == nil && a > b
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

// Scan реализует sql.Scanner для колонок типа TIME
func (t *TimeString) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}
