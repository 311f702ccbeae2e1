package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/httpresp"
	"github.com/AuMigoPet/petshop-scheduler/internal/middleware"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
	"github.com/AuMigoPet/petshop-scheduler/internal/validators"
)

type OwnerHandler struct {
	db *gorm.DB
}

func NewOwnerHandler(db *gorm.DB) *OwnerHandler {
	return &OwnerHandler{db: db}
}

type CreateOwnerRequest struct {
	Name     string `json:"name" binding:"required"`
	Whatsapp string `json:"whatsapp" binding:"required"`
	Address  string `json:"address"`
	Email    string `json:"email"`
}

func (h *OwnerHandler) Create(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	var req CreateOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if !validators.IsValidBRPhone(req.Whatsapp) {
		httperr.BadRequest(c, "invalid_format", "WhatsApp fora do formato brasileiro.")
		return
	}

	owner := models.Owner{
		PetshopID: petshopID,
		Name:      req.Name,
		Whatsapp:  validators.NormalizePhone(req.Whatsapp),
		Address:   req.Address,
		Email:     req.Email,
	}

	if err := h.db.Create(&owner).Error; err != nil {
		httperr.Internal(c, "failed_to_create_owner", "Erro ao cadastrar tutor.")
		return
	}

	httpresp.Created(c, owner)
}

func (h *OwnerHandler) List(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	search := c.Query("q")

	q := h.db.Where("petshop_id = ?", petshopID)
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}

	var owners []models.Owner
	if err := q.Order("name ASC").Find(&owners).Error; err != nil {
		httperr.Internal(c, "failed_to_list_owners", "Erro ao listar tutores.")
		return
	}

	httpresp.List(c, owners)
}

func (h *OwnerHandler) ListPets(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)
	ownerID := c.Param("id")

	var owner models.Owner
	if err := h.db.
		Where("id = ? AND petshop_id = ?", ownerID, petshopID).
		First(&owner).Error; err != nil {
		httperr.NotFound(c, "owner_not_found", "Tutor não encontrado.")
		return
	}

	var pets []models.Pet
	if err := h.db.
		Where("owner_id = ?", owner.ID).
		Order("name ASC").
		Find(&pets).Error; err != nil {
		httperr.Internal(c, "failed_to_list_pets", "Erro ao listar pets.")
		return
	}

	httpresp.List(c, pets)
}
