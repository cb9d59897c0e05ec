package domain

import (
	"time"

	"github.com/google/uuid"
)

// Frequency определяет периодичность привычки
type Frequency string

const (
	FrequencyDaily  Frequency = "DAILY"
	FrequencyWeekly Frequency = "WEEKLY"
)

// DefaultColor — цвет привычки по умолчанию, если клиент его не указал
const DefaultColor = "#4C1D95"

// Ограничения на поля привычки, проверяются до записи в бд
const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 1000
	MaxColorLen       = 7
)

// Habit представляет модель привычки,
// соответствует таблице habits в бд.
// UserID и CreatedAt неизменяемы после создания.
type Habit struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Frequency   Frequency `json:"frequency" db:"frequency"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (Habit) TableName() string {
	return "habits"
}

// HabitLog представляет отметку о выполнении привычки за конкретную дату,
// соответствует таблице habit_logs в бд.
// Для пары (habit_id, date) существует не более одной записи —
// это центральный инвариант системы.
type HabitLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	HabitID   uuid.UUID `json:"habit_id" db:"habit_id"`
	Date      time.Time `json:"date" db:"date"`
	Completed bool      `json:"completed" db:"completed"`
}

func (HabitLog) TableName() string {
	return "habit_logs"
}

// DateOnly обрезает время до календарной даты в UTC.
// Все даты логов хранятся и сравниваются именно в таком виде.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
