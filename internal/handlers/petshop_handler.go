package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/middleware"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
)

type PetshopHandler struct {
	db *gorm.DB
}

func NewPetshopHandler(db *gorm.DB) *PetshopHandler {
	return &PetshopHandler{db: db}
}

type UpdatePetshopConfigRequest struct {
	MaxPerSlot        *int `json:"max_per_slot"`
	MinAdvanceMinutes *int `json:"min_advance_minutes"`
}

func (h *PetshopHandler) GetMePetshop(c *gin.Context) {
	petshopIDVal, _ := c.Get(middleware.ContextPetshopID)
	petshopID := petshopIDVal.(uint)

	var shop models.Petshop
	if err := h.db.First(&shop, petshopID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "petshop_not_found", "Petshop não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_petshop", "Erro ao buscar dados do petshop.")
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *PetshopHandler) UpdateMePetshop(c *gin.Context) {
	petshopIDVal, _ := c.Get(middleware.ContextPetshopID)
	petshopID := petshopIDVal.(uint)

	var shop models.Petshop
	if err := h.db.First(&shop, petshopID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "petshop_not_found", "Petshop não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_petshop", "Erro ao buscar dados do petshop.")
		return
	}

	var req UpdatePetshopConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.MaxPerSlot != nil {
		if *req.MaxPerSlot < 1 {
			httperr.BadRequest(c, "invalid_max_per_slot", "Capacidade por horário deve ser pelo menos 1.")
			return
		}
		shop.MaxPerSlot = *req.MaxPerSlot
	}

	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Antecedência mínima deve ser zero ou positiva (em minutos).")
			return
		}
		shop.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.Save(&shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_petshop", "Erro ao salvar as configurações do petshop.")
		return
	}

	c.JSON(http.StatusOK, shop)
}
