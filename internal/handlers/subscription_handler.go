package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/httpresp"
	"github.com/AuMigoPet/petshop-scheduler/internal/middleware"
	usecase "github.com/AuMigoPet/petshop-scheduler/internal/usecase/scheduling"
)

type SubscriptionHandler struct {
	create   *usecase.CreateSubscription
	expand   *usecase.ExpandSubscription
	markPaid *usecase.MarkSubscriptionPaid
	cancel   *usecase.CancelSubscription
	repo     scheduling.Repository
}

func NewSubscriptionHandler(
	create *usecase.CreateSubscription,
	expand *usecase.ExpandSubscription,
	markPaid *usecase.MarkSubscriptionPaid,
	cancel *usecase.CancelSubscription,
	repo scheduling.Repository,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		create:   create,
		expand:   expand,
		markPaid: markPaid,
		cancel:   cancel,
		repo:     repo,
	}
}

type CreateSubscriptionRequest struct {
	PetID          uint   `json:"petId" binding:"required"`
	Service        string `json:"service" binding:"required"`
	RecurrenceType string `json:"recurrenceType" binding:"required"`
	RecurrenceDay  int    `json:"recurrenceDay"`
	RecurrenceHour int    `json:"recurrenceHour"`
	StartDate      string `json:"startDate" binding:"required"`
	PaymentDueDay  int    `json:"paymentDueDay"`
}

func (h *SubscriptionHandler) Create(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	sub, err := h.create.Execute(c.Request.Context(), usecase.CreateSubscriptionInput{
		PetshopID:      petshopID,
		UserID:         &userID,
		PetID:          req.PetID,
		Service:        req.Service,
		RecurrenceType: req.RecurrenceType,
		RecurrenceDay:  req.RecurrenceDay,
		RecurrenceHour: req.RecurrenceHour,
		StartDate:      req.StartDate,
		PaymentDueDay:  req.PaymentDueDay,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, sub)
}

func (h *SubscriptionHandler) List(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	subs, err := h.repo.ListSubscriptions(c.Request.Context(), petshopID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_subscriptions", "Erro ao listar assinaturas.")
		return
	}

	httpresp.List(c, subs)
}

// Expand materializa as ocorrências dentro do horizonte. Pode ser
// chamado quantas vezes for preciso; ocorrências já criadas voltam
// como "exists".
func (h *SubscriptionHandler) Expand(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.expand.Execute(c.Request.Context(), petshopID, &userID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, result)
}

func (h *SubscriptionHandler) MarkPaid(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := h.markPaid.Execute(c.Request.Context(), petshopID, &userID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, sub)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := h.cancel.Execute(c.Request.Context(), petshopID, &userID, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, sub)
}
