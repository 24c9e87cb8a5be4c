package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nvillagra/prodtrack/internal/export"
)

func (s *Server) GetOverview(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.overviewSvc.Current(c.Request.Context())})
}

func (s *Server) ExportCSV(c *gin.Context) {
	payload, err := export.CSV(s.recordSvc.List(c.Request.Context()))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="produccion.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", payload)
}

func (s *Server) ExportBackup(c *gin.Context) {
	payload, err := s.recordSvc.ExportBackup()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="backup.json"`)
	c.Data(http.StatusOK, "application/json", payload)
}

func (s *Server) ImportBackup(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 10<<20))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.recordSvc.ImportBackup(payload); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s.recordSvc.List(c.Request.Context())})
}
