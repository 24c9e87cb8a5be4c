package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	settingsdomain "github.com/nvillagra/prodtrack/internal/settings/domain"
)

func (s *Server) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.settings.Load()})
}

func (s *Server) SaveSettings(c *gin.Context) {
	var req settingsdomain.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.settings.Save(req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.settings.Load()})
}

func (s *Server) ValidateAPIKey(c *gin.Context) {
	if err := s.controller.ValidateCredential(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}
