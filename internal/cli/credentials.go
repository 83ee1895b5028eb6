package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"attendanceBot/internal/cli/ui"
)

// askPassword читает пароль без эха. Вне терминала (пайп, тесты)
// откатывается на обычное чтение строки.
func askPassword(prompt string) (string, error) {
	fmt.Print(ui.ColorCyan + ui.IconLock + " " + prompt + ui.ColorReset)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// credentials собирает код студента и пароль: аргумент команды, затем
// значения из конфигурации, затем интерактивный ввод.
func (c *CLI) credentials(arg string) (string, string, error) {
	code := arg
	if code == "" {
		code = c.cfg.Portal.StudentCode
	}
	if code == "" {
		line, err := c.readLineWithPrompt("Код студента: ")
		if err != nil {
			return "", "", err
		}
		code = strings.TrimSpace(line)
	}
	if code == "" {
		return "", "", fmt.Errorf("код студента не задан")
	}

	// Сохранённый пароль используется только с сохранённым кодом
	if arg == "" && c.cfg.Portal.Password != "" {
		return code, c.cfg.Portal.Password, nil
	}

	password, err := askPassword("Пароль (дата рождения): ")
	if err != nil {
		return "", "", err
	}
	if password == "" {
		return "", "", fmt.Errorf("пароль не задан")
	}
	return code, password, nil
}
