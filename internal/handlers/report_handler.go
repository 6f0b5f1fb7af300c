package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/reporting"
	"tally/internal/services"
)

// ReportHandler handles report export requests
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportCSV handles exporting the user's transactions as a CSV download
// @Summary     Export transactions CSV
// @Description Download the user's transactions for a period as a CSV file
// @Tags        reports
// @Produce     text/csv
// @Security    BearerAuth
// @Param       period query string false "Period key (1m|3m|6m|ytd|all), defaults to all"
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} map[string]interface{} "Invalid period"
// @Router      /reports/transactions.csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key := reporting.PeriodAll
	if raw := c.Query("period"); raw != "" {
		parsed, ok := reporting.ParsePeriodKey(raw)
		if !ok {
			respondWithError(c, apperrors.ErrInvalidPeriod)
			return
		}
		key = parsed
	}

	now := time.Now()
	filename := fmt.Sprintf("transactions-%s-%s.csv", key, now.Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := h.reportService.ExportTransactionsCSV(c.Writer, userID, key, now); err != nil {
		// Headers are already written; log and abort the stream.
		_ = c.Error(err)
	}
}
