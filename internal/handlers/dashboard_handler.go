package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/reporting"
	"tally/internal/services"
)

// DashboardHandler handles dashboard aggregation requests
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// DashboardQuery represents the dashboard query parameters
type DashboardQuery struct {
	Period string `form:"period" binding:"omitempty,period_key"`
}

// Get handles fetching the dashboard for a period
// @Summary     Get dashboard
// @Description Aggregated totals, period-over-period changes, expense breakdown, monthly series and recent activity
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Period key (1m|3m|6m|ytd|all), defaults to 6m"
// @Success     200 {object} services.Dashboard "Dashboard data"
// @Failure     400 {object} map[string]interface{} "Invalid period"
// @Router      /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query DashboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidPeriod, err.Error()))
		return
	}

	key := reporting.PeriodSixMonth
	if query.Period != "" {
		parsed, ok := reporting.ParsePeriodKey(query.Period)
		if !ok {
			respondWithError(c, apperrors.ErrInvalidPeriod)
			return
		}
		key = parsed
	}

	dashboard, err := h.dashboardService.GetDashboard(userID, key, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
