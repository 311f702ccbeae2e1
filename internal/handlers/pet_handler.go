package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AuMigoPet/petshop-scheduler/internal/domain/scheduling"
	"github.com/AuMigoPet/petshop-scheduler/internal/httperr"
	"github.com/AuMigoPet/petshop-scheduler/internal/httpresp"
	"github.com/AuMigoPet/petshop-scheduler/internal/middleware"
	"github.com/AuMigoPet/petshop-scheduler/internal/models"
	"github.com/AuMigoPet/petshop-scheduler/internal/storage"
)

// limite de upload de foto (5 MB)
const maxPhotoUploadBytes = 5 << 20

type PetHandler struct {
	db     *gorm.DB
	photos *storage.PhotoStore
}

func NewPetHandler(db *gorm.DB, photos *storage.PhotoStore) *PetHandler {
	return &PetHandler{db: db, photos: photos}
}

type CreatePetRequest struct {
	OwnerID    uint   `json:"ownerId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Breed      string `json:"breed"`
	AgeYears   int    `json:"ageYears"`
	Sex        string `json:"sex"`
	Neutered   bool   `json:"neutered"`
	WeightBand string `json:"weightBand" binding:"required"`
}

func (h *PetHandler) Create(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	band := scheduling.WeightBand(req.WeightBand)
	if !scheduling.IsValidWeightBand(band) {
		httperr.BadRequest(c, "invalid_format", "Faixa de peso inválida.")
		return
	}

	var owner models.Owner
	if err := h.db.
		Where("id = ? AND petshop_id = ?", req.OwnerID, petshopID).
		First(&owner).Error; err != nil {
		httperr.NotFound(c, "owner_not_found", "Tutor não encontrado.")
		return
	}

	pet := models.Pet{
		PetshopID:  petshopID,
		OwnerID:    owner.ID,
		Name:       req.Name,
		Breed:      req.Breed,
		AgeYears:   req.AgeYears,
		Sex:        req.Sex,
		Neutered:   req.Neutered,
		WeightBand: string(band),
	}

	if err := h.db.Create(&pet).Error; err != nil {
		httperr.Internal(c, "failed_to_create_pet", "Erro ao cadastrar pet.")
		return
	}

	httpresp.Created(c, pet)
}

type UpdatePetRequest struct {
	Name       *string `json:"name"`
	Breed      *string `json:"breed"`
	AgeYears   *int    `json:"ageYears"`
	Neutered   *bool   `json:"neutered"`
	WeightBand *string `json:"weightBand"`
}

func (h *PetHandler) Update(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	pet, ok := h.loadPet(c, petshopID)
	if !ok {
		return
	}

	var req UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if req.Name != nil {
		pet.Name = *req.Name
	}
	if req.Breed != nil {
		pet.Breed = *req.Breed
	}
	if req.AgeYears != nil {
		pet.AgeYears = *req.AgeYears
	}
	if req.Neutered != nil {
		pet.Neutered = *req.Neutered
	}
	if req.WeightBand != nil {
		band := scheduling.WeightBand(*req.WeightBand)
		if !scheduling.IsValidWeightBand(band) {
			httperr.BadRequest(c, "invalid_format", "Faixa de peso inválida.")
			return
		}
		pet.WeightBand = string(band)
	}

	if err := h.db.Save(&pet).Error; err != nil {
		httperr.Internal(c, "failed_to_update_pet", "Erro ao atualizar pet.")
		return
	}

	httpresp.OK(c, pet)
}

// UploadPhoto recebe multipart form com o campo "photo".
func (h *PetHandler) UploadPhoto(c *gin.Context) {
	petshopID := c.MustGet(middleware.ContextPetshopID).(uint)

	if !h.photos.Enabled() {
		httperr.BadRequest(c, "photos_disabled", "Armazenamento de fotos não configurado.")
		return
	}

	pet, ok := h.loadPet(c, petshopID)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Envie a foto no campo 'photo'.")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoUploadBytes {
		httperr.BadRequest(c, "photo_too_large", "Foto acima de 5MB.")
		return
	}

	url, err := h.photos.UploadPetPhoto(c.Request.Context(), petshopID, pet.ID, file)
	if err != nil {
		httperr.Internal(c, "failed_to_upload_photo", "Erro ao enviar a foto.")
		return
	}

	pet.PhotoURL = url
	if err := h.db.Model(&pet).Update("photo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_pet", "Erro ao salvar a foto.")
		return
	}

	httpresp.OK(c, gin.H{"photoUrl": url})
}

// loadPet carrega o pet do path garantindo que pertence ao petshop autenticado.
func (h *PetHandler) loadPet(c *gin.Context, petshopID uint) (models.Pet, bool) {
	var pet models.Pet
	err := h.db.
		Joins("JOIN owners ON owners.id = pets.owner_id").
		Where("pets.id = ? AND owners.petshop_id = ?", c.Param("id"), petshopID).
		First(&pet).Error
	if err != nil {
		httperr.NotFound(c, "pet_not_found", "Pet não encontrado.")
		return models.Pet{}, false
	}
	return pet, true
}
