package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/httpresp"
	"github.com/AuMigoPet/petshop-scheduler/internal/middleware"
	usecase "github.com/AuMigoPet/petshop-scheduler/internal/usecase/scheduling"
)

type StatsHandler struct {
	stats *usecase.GetStats
}

func NewStatsHandler(stats *usecase.GetStats) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Daily responde ?date=YYYY-MM-DD. Sem data, usa o dia corrente do
// fuso do petshop (string vazia é tratada no caso de uso).
func (h *StatsHandler) Daily(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	summary, err := h.stats.Daily(c.Request.Context(), petshopID, c.Query("date"))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, summary)
}

func (h *StatsHandler) Weekly(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	summary, err := h.stats.Weekly(c.Request.Context(), petshopID, c.Query("week_of"))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, summary)
}

func (h *StatsHandler) Monthly(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_request", "Informe 'year' e 'month' numéricos.")
		return
	}

	summary, err := h.stats.Monthly(c.Request.Context(), petshopID, year, month)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, summary)
}
