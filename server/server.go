package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartprocure/engine"
)

// Server тонкий HTTP-фасад над движком сравнения КП.
// Сам движок транспорта не касается: сервер только декодирует вход,
// вызывает движок и кодирует результат.
type Server struct {
	engine *engine.Engine
	router *gin.Engine
	port   string
}

// New создает HTTP сервер
func New(eng *engine.Engine, port string) *Server {
	s := &Server{
		engine: eng,
		router: gin.New(),
		port:   port,
	}
	s.router.Use(gin.Logger(), gin.Recovery())
	s.setupRoutes()
	return s
}

// setupRoutes регистрирует маршруты API
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api/v1")
	{
		api.POST("/quotes/process", s.handleProcessQuote)
		api.POST("/projects/compare", s.handleCompareProject)
	}
}

// Router возвращает gin-роутер (используется в тестах)
func (s *Server) Router() http.Handler {
	return s.router
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	log.Printf("[Server] Listening on :%s", s.port)
	return s.router.Run(":" + s.port)
}
