// Package cli — интерактивная консоль проверки посещаемости.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"attendanceBot/internal/checker"
	"attendanceBot/internal/cli/commands"
	"attendanceBot/internal/cli/ui"
	"attendanceBot/internal/config"
	"attendanceBot/internal/database"
	"attendanceBot/internal/logger"
	"attendanceBot/internal/server"
)

type CLI struct {
	cfg            *config.Cfg
	log            *logger.Zap
	server         *server.Server
	rl             *readline.Instance
	checkHandler   *commands.CheckHandler
	historyHandler *commands.HistoryHandler
}

func New(cfg *config.Cfg, log *logger.Zap, chk *checker.Checker, repo *database.RunRepository, srv *server.Server) *CLI {
	cli := &CLI{
		cfg:    cfg,
		log:    log,
		server: srv,
	}

	// Инициализация handlers
	cli.checkHandler = commands.NewCheckHandler(chk, cfg, log.Logger)
	cli.historyHandler = commands.NewHistoryHandler(repo, log.Logger)

	// Инициализация readline
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".attendance-bot-history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Warn("Не удалось инициализировать readline, будет использован fallback режим")
	} else {
		cli.rl = rl
	}

	return cli
}

func (c *CLI) readLine() (string, error) {
	return c.readLineWithPrompt("> ")
}

func (c *CLI) readLineWithPrompt(prompt string) (string, error) {
	if c.rl != nil {
		c.rl.SetPrompt(prompt)
		defer c.rl.SetPrompt("> ")
		return c.rl.Readline()
	}
	// Fallback для работы без readline
	reader := bufio.NewReader(os.Stdin)
	println(ui.ColorCyan + prompt + ui.ColorReset)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *CLI) closeReadline() {
	if c.rl != nil {
		c.rl.Close()
	}
}

func (c *CLI) Run(ctx context.Context) {
	ui.PrintWelcome()
	defer c.closeReadline()

	for {
		// Проверка отмены контекста
		select {
		case <-ctx.Done():
			println("\n" + ui.ColorCyan + ui.IconWave + " Получен сигнал завершения..." + ui.ColorReset)
			return
		default:
		}

		line, err := c.readLine()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			break
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		c.handleCommand(ctx, line)
	}
}

func (c *CLI) handleCommand(ctx context.Context, line string) {
	switch {
	case line == "exit":
		println(ui.ColorCyan + ui.IconWave + " До свидания!" + ui.ColorReset)
		os.Exit(0)

	case line == "clear":
		ui.ClearScreen()

	case line == "check":
		c.runCheck(ctx, "")

	case strings.HasPrefix(line, "check "):
		code := strings.TrimSpace(strings.TrimPrefix(line, "check "))
		c.runCheck(ctx, code)

	case line == "history":
		c.historyHandler.List()

	case strings.HasPrefix(line, "show "):
		sessionID := strings.TrimSpace(strings.TrimPrefix(line, "show "))
		c.historyHandler.Show(sessionID)

	case line == "serve":
		println(ui.ColorCyan + ui.IconGlobe + " HTTP API запускается, Ctrl+C для выхода" + ui.ColorReset)
		if err := c.server.Run(); err != nil {
			c.log.Error("HTTP-сервер остановлен с ошибкой", zap.Error(err))
		}

	default:
		ui.PrintHelp()
	}
}

func (c *CLI) runCheck(ctx context.Context, arg string) {
	code, password, err := c.credentials(arg)
	if err != nil {
		println(ui.ColorRed + ui.IconCross + " " + err.Error() + ui.ColorReset)
		return
	}
	c.checkHandler.Run(ctx, code, password)
}
