package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/comprasys/cotacao-api/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Get dashboard statistics
// @Description Returns aggregate quotation and saving statistics scoped to the caller's visibility.
// @Description
// @Description - `byStatus`: quotation counts per lifecycle status
// @Description - `totalEconomy`: sum of recorded economy across savings
// @Description - `averageEconomyPercent`: mean economy percentage per saving
// @Description - `averageRounds`: mean number of negotiation rounds per approved quotation
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStatsDTO
// @Security BearerAuth
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to get dashboard stats", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get dashboard stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
