package ui

import (
	"fmt"
	"os"
)

// PrintWelcome выводит приветствие и лого
func PrintWelcome() {
	logoBytes, err := os.ReadFile("logo.txt")
	if err == nil {
		fmt.Println(ColorCyan + string(logoBytes) + ColorReset)
	}
	fmt.Println(ColorBold + IconRobot + " Attendance Bot v0.1.0" + ColorReset)
	fmt.Println(ColorGray + "Проверка посещаемости студенческого портала" + ColorReset)
	fmt.Println(ColorGray + "Используется: Firefox + OpenAI GPT-4o" + ColorReset)
	fmt.Println()
	PrintHelp()
	fmt.Println(ColorCyan + IconBulb + " Совет:" + ColorReset + " Задайте " + ColorYellow + "STUDENT_CODE" + ColorReset + " и " + ColorYellow + "DOB_PASSWORD" + ColorReset + " в .env, чтобы не вводить их каждый раз")
	fmt.Println()
	fmt.Println(ColorGray + "⬆️ ⬇️" + ColorReset + " Используйте стрелки для навигации по истории команд")
	fmt.Println()
}

// PrintHelp выводит список доступных команд
func PrintHelp() {
	fmt.Println(ColorYellow + IconList + " Доступные команды:" + ColorReset)
	fmt.Println("  " + ColorGreen + "check" + ColorReset + "               - Проверить посещаемость")
	fmt.Println("  " + ColorGreen + "check" + ColorReset + " <код>         - Проверить посещаемость другого студента")
	fmt.Println("  " + ColorGreen + "history" + ColorReset + "             - Последние запуски проверки")
	fmt.Println("  " + ColorGreen + "show" + ColorReset + " <session>      - Детали запуска по идентификатору")
	fmt.Println("  " + ColorGreen + "serve" + ColorReset + "               - Запустить HTTP API")
	fmt.Println("  " + ColorGreen + "help" + ColorReset + "                - Эта справка")
	fmt.Println("  " + ColorGreen + "clear" + ColorReset + "               - Очистить экран")
	fmt.Println("  " + ColorGreen + "exit" + ColorReset + "                - Выход")
	fmt.Println()
}
