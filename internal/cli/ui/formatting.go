package ui

import "fmt"

// FormatRunStatus возвращает иконку, цвет и текст для статуса запуска
func FormatRunStatus(status string) (icon, color, text string) {
	switch status {
	case "completed":
		return IconCheckmark, ColorGreen, "завершена"
	case "failed":
		return IconCross, ColorRed, "ошибка"
	case "running":
		return IconPlay, ColorCyan, "выполняется"
	case "pending":
		return IconClock, ColorYellow, "ожидает"
	default:
		return IconClock, ColorYellow, status
	}
}

// AttendanceColor подбирает цвет процента посещаемости по порогам
func AttendanceColor(percentage, good, warning float64) string {
	switch {
	case percentage >= good:
		return ColorGreen
	case percentage >= warning:
		return ColorYellow
	default:
		return ColorRed
	}
}

// ClearScreen очищает терминал
func ClearScreen() {
	fmt.Print("\033[H\033[2J")
}
