package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	recorddomain "github.com/nvillagra/prodtrack/internal/record/domain"
	"github.com/shopspring/decimal"
)

func (s *Server) ListRecords(c *gin.Context) {
	records := s.recordSvc.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": records})
}

type addRecordsRequest struct {
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Notes       string  `json:"notes"`
	Amount      *string `json:"amount"`
}

func (s *Server) AddRecords(c *gin.Context) {
	var req addRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var amount *decimal.Decimal
	if req.Amount != nil {
		parsed, err := decimal.NewFromString(strings.TrimSpace(*req.Amount))
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		amount = &parsed
	}

	records, err := s.recordSvc.Add(c.Request.Context(), recorddomain.AddRequest{
		Type:        recorddomain.InstallationType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Quantity:    req.Quantity,
		Date:        strings.TrimSpace(req.Date),
		Description: strings.TrimSpace(req.Description),
		Notes:       strings.TrimSpace(req.Notes),
		Amount:      amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}

func (s *Server) DeleteRecord(c *gin.Context) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	records := s.recordSvc.Delete(c.Request.Context(), snowflake.ID(id))
	c.JSON(http.StatusOK, gin.H{"data": records})
}

func (s *Server) Status(c *gin.Context) {
	online := s.checker.Online(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"online": online})
}
