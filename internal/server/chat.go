package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Text string `json:"text"`
}

func (s *Server) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	reply := s.controller.HandleTurn(c.Request.Context(), text)
	c.JSON(http.StatusOK, gin.H{"data": reply})
}

func (s *Server) Transcript(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":  s.controller.Transcript(),
		"state": s.controller.State(),
	})
}

func (s *Server) ResetChat(c *gin.Context) {
	s.controller.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
