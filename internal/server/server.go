// Package server предоставляет HTTP API проверки посещаемости: запуск
// проверки, чтение результатов и SSE-поток хода выполнения.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"attendanceBot/internal/checker"
	"attendanceBot/internal/config"
	"attendanceBot/internal/database"
	"attendanceBot/internal/reporter"
)

// Завершённая сессия живёт в реестре ещё столько, чтобы клиент успел
// дочитать SSE-историю.
const sessionTTL = 30 * time.Minute

type Server struct {
	cfg      *config.Cfg
	log      *zap.Logger
	checker  *checker.Checker
	repo     *database.RunRepository
	registry *sessionRegistry
}

func New(cfg *config.Cfg, log *zap.Logger, chk *checker.Checker, repo *database.RunRepository) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		checker:  chk,
		repo:     repo,
		registry: newSessionRegistry(),
	}
}

// Run блокирует до остановки HTTP-сервера.
func (s *Server) Run() error {
	if s.cfg.Logger.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api")
	{
		api.POST("/check", s.handleCheck)
		api.GET("/runs", s.handleListRuns)
		api.GET("/run/:id", s.handleGetRun)
		api.GET("/run/:id/events", s.handleEvents)
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.App.Host, s.cfg.App.Port)
	s.log.Info("HTTP-сервер запущен", zap.String("addr", addr))
	return engine.Run(addr)
}

type checkRequest struct {
	StudentCode string `json:"student_code" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// handleCheck запускает проверку в фоне и сразу возвращает идентификатор
// сессии. За ходом выполнения клиент следит через /api/run/:id/events.
func (s *Server) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student_code и password обязательны"})
		return
	}

	sessionID := uuid.NewString()
	session := s.registry.create(sessionID)

	go func() {
		defer func() {
			session.finish()
			// История остаётся читаемой ещё какое-то время, затем сессия
			// выселяется — иначе реестр растёт с каждым запуском
			time.AfterFunc(sessionTTL, func() {
				s.registry.remove(sessionID)
			})
		}()

		rep := reporter.Multi(reporter.NewZap(s.log), session.reporter())
		if _, err := s.checker.Run(context.Background(), sessionID, req.StudentCode, req.Password, rep); err != nil {
			s.log.Error("Проверка завершилась ошибкой",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"session_id": sessionID,
		"status":     "running",
	})
}

func (s *Server) handleGetRun(c *gin.Context) {
	run, err := s.repo.GetRunBySession(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "запуск не найден"})
		return
	}

	subjects, err := s.repo.GetSubjects(run.ID)
	if err != nil {
		s.log.Warn("Ошибка чтения предметов", zap.Uint("run_id", run.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"run":      run,
		"subjects": subjects,
	})
}

func (s *Server) handleListRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	runs, err := s.repo.ListRuns(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ошибка чтения истории"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// handleEvents отдаёт SSE-поток сообщений запуска. Поток закрывается по
// завершении проверки или при отключении клиента.
func (s *Server) handleEvents(c *gin.Context) {
	session := s.registry.get(c.Param("id"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "сессия не найдена"})
		return
	}

	ch := session.subscribe()
	defer session.unsubscribe(ch)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("progress", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
