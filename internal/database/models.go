// Package database предоставляет модели данных и репозиторий для PostgreSQL.
// Используется GORM с prepared statements.
package database

import "time"

// CheckRun — один запуск проверки посещаемости.
// Статусы: pending, running, completed, failed.
type CheckRun struct {
	ID                uint      `gorm:"primaryKey"`
	SessionID         string    `gorm:"type:varchar(64);uniqueIndex;not null"` // Внешний идентификатор запуска
	StudentCode       string    `gorm:"type:varchar(64);not null"`             // Код студента
	Status            string    `gorm:"type:varchar(32);not null;default:'pending'"`
	Step              string    `gorm:"type:varchar(128)"` // Текущий этап выполнения
	Error             string    `gorm:"type:text"`         // Причина неудачи
	TotalConducted    int       // Сумма проведённых занятий
	TotalAttended     int       // Сумма посещённых занятий
	OverallPercentage float64   // Итоговый процент
	OverallStatus     string    `gorm:"type:varchar(16)"` // GOOD / WARNING / CRITICAL
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

// SubjectResult — результат по одному предмету в рамках запуска.
// Счётчики равны NULL, если извлечь их со страницы не удалось.
type SubjectResult struct {
	ID        uint      `gorm:"primaryKey"`
	RunID     uint      `gorm:"index;not null"`
	Position  int       `gorm:"not null"` // Порядок блока на странице, с единицы
	Name      string    `gorm:"type:text;not null"`
	Conducted *int      // Проведено занятий
	Attended  *int      // Посещено занятий
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// VisionLog — лог одного запроса к vision-модели.
type VisionLog struct {
	ID           uint      `gorm:"primaryKey"`
	RunID        *uint     `gorm:"index"`              // ID запуска (опционально)
	PromptText   string    `gorm:"type:text;not null"` // Текст промпта
	ResponseText string    `gorm:"type:text"`          // Ответ модели
	Model        string    `gorm:"type:varchar(64)"`   // Модель (gpt-4o)
	TokensUsed   int       // Количество токенов
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}
