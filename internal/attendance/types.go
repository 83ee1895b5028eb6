// Package attendance содержит доменные типы проверки посещаемости и
// агрегацию итогового отчёта.
package attendance

// Status — классификация общей посещаемости по порогам.
type Status string

const (
	StatusGood     Status = "GOOD"
	StatusWarning  Status = "WARNING"
	StatusCritical Status = "CRITICAL"
)

// RunStatus — состояние запуска проверки.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// SubjectRecord — один предмет. Index назначается один раз при обнаружении
// блока и соответствует визуальному порядку сверху вниз; после кликов
// раскрытия порядок в DOM меняется, но Index не пересчитывается.
// Conducted/Attended равны nil, если извлечь числа не удалось — такие
// записи остаются в списке для диагностики, но исключаются из агрегации.
type SubjectRecord struct {
	Index     int    `json:"id"`
	Name      string `json:"name"`
	Conducted *int   `json:"conducted"`
	Attended  *int   `json:"attended"`
}

// Complete сообщает, заполнены ли оба счётчика.
func (r SubjectRecord) Complete() bool {
	return r.Conducted != nil && r.Attended != nil
}

// Percentage — процент посещаемости по предмету, 0 при отсутствии данных.
func (r SubjectRecord) Percentage() float64 {
	if !r.Complete() || *r.Conducted == 0 {
		return 0
	}
	return 100 * float64(*r.Attended) / float64(*r.Conducted)
}

// Report — итог запуска. Считается один раз по готовым записям и после
// создания не меняется.
type Report struct {
	Subjects          []SubjectRecord `json:"subjects"`
	TotalConducted    int             `json:"total_conducted"`
	TotalAttended     int             `json:"total_attended"`
	OverallPercentage float64         `json:"overall_percentage"`
	Status            Status          `json:"status"`
}

// Thresholds — внешние пороги классификации, Good строго больше Warning.
type Thresholds struct {
	Good    float64
	Warning float64
}

// Session — состояние одного запуска, передаётся по ссылке через этапы
// конвейера. Каждый запуск получает собственную сессию браузера и свой
// список записей, между запусками ничего не разделяется.
type Session struct {
	ID          string
	StudentCode string
	Records     []SubjectRecord
	Status      RunStatus
}

func NewSession(id, studentCode string) *Session {
	return &Session{
		ID:          id,
		StudentCode: studentCode,
		Status:      RunPending,
	}
}
