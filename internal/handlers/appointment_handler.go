package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	usecase "github.com/AuMigoPet/petshop-scheduler/internal/usecase/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/httpresp"
	"github.com/AuMigoPet/petshop-scheduler/internal/middleware"
)

type AppointmentHandler struct {
	schedule     *usecase.ScheduleAppointment
	cancel       *usecase.CancelAppointment
	confirm      *usecase.ConfirmAppointment
	complete     *usecase.CompleteAppointment
	listByDate   *usecase.ListAppointmentsByDate
	listByMonth  *usecase.ListAppointmentsByMonth
	availability *usecase.GetAvailability
}

func NewAppointmentHandler(
	schedule *usecase.ScheduleAppointment,
	cancel *usecase.CancelAppointment,
	confirm *usecase.ConfirmAppointment,
	complete *usecase.CompleteAppointment,
	listByDate *usecase.ListAppointmentsByDate,
	listByMonth *usecase.ListAppointmentsByMonth,
	availability *usecase.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		schedule:     schedule,
		cancel:       cancel,
		confirm:      confirm,
		complete:     complete,
		listByDate:   listByDate,
		listByMonth:  listByMonth,
		availability: availability,
	}
}

type CreateAppointmentRequest struct {
	PetID   uint   `json:"petId" binding:"required"`
	Service string `json:"service" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
	Notes   string `json:"notes"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.schedule.Execute(c.Request.Context(), usecase.ScheduleAppointmentInput{
		PetshopID: petshopID,
		UserID:    &userID,
		PetID:     req.PetID,
		Service:   req.Service,
		Date:      req.Date,
		Time:      req.Time,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), petshopID, &userID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), petshopID, &userID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c)
	if !ok {
		return
	}

	ap, err := h.complete.Execute(c.Request.Context(), petshopID, &userID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ListByDate responde ?date=YYYY-MM-DD (ou DD/MM/YYYY).
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "invalid_request", "Informe o parâmetro 'date'.")
		return
	}

	items, err := h.listByDate.Execute(c.Request.Context(), petshopID, date)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, items)
}

// ListByMonth responde ?year=YYYY&month=MM.
func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, "invalid_request", "Informe 'year' e 'month' numéricos.")
		return
	}

	items, err := h.listByMonth.Execute(c.Request.Context(), petshopID, year, month)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, items)
}

// Availability responde ?service=...&date=... com as horas de entrada livres.
func (h *AppointmentHandler) Availability(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	service := c.Query("service")
	date := c.Query("date")
	if service == "" || date == "" {
		httperr.BadRequest(c, "invalid_request", "Informe 'service' e 'date'.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), petshopID, service, date)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.List(c, slots)
}

// pathID lê o :id numérico da rota; já responde 400 quando inválido.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_request", "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}
