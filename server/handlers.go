package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"smartprocure/comparison"
	"smartprocure/models"
)

// sendJSONError отправляет JSON ошибку
func sendJSONError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

// handleHealth проверка живости сервиса
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleProcessQuote обрабатывает одно КП: нормализация единиц,
// классификация, оценка полноты, выявление пропусков
func (s *Server) handleProcessQuote(c *gin.Context) {
	var quote models.Quote
	if err := c.ShouldBindJSON(&quote); err != nil {
		sendJSONError(c, http.StatusBadRequest, "неверный формат тела запроса")
		return
	}

	s.engine.ProcessQuote(c.Request.Context(), &quote)
	c.JSON(http.StatusOK, quote)
}

// compareRequest тело запроса на сравнение КП проекта
type compareRequest struct {
	Quotes []models.Quote `json:"quotes"`
}

// handleCompareProject сравнивает все КП проекта и возвращает
// рекомендации с текстовой сводкой
func (s *Server) handleCompareProject(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendJSONError(c, http.StatusBadRequest, "неверный формат тела запроса")
		return
	}

	result := s.engine.CompareProject(c.Request.Context(), req.Quotes)
	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"summary": comparison.Summary(result),
	})
}
