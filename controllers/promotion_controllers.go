package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/services"
	"github.com/mesaja/seating/utils"
)

type PromotionController struct {
	Promotions *services.PromotionService
}

func NewPromotionController(promotions *services.PromotionService) *PromotionController {
	return &PromotionController{Promotions: promotions}
}

// CreatePromotion -> stores the promotion and announces it to the staff group
func (pc *PromotionController) CreatePromotion(c *gin.Context) {
	var input services.PromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	promotion, err := pc.Promotions.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Promotion created: %s", promotion.Name)
	utils.RespondJSON(c, http.StatusCreated, "Promotion created", promotion)
}

func (pc *PromotionController) GetAllPromotions(c *gin.Context) {
	promotions, err := pc.Promotions.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of promotions", promotions)
}

func (pc *PromotionController) GetPromotionByID(c *gin.Context) {
	id, ok := parseID(c, "promotion_id")
	if !ok {
		return
	}
	promotion, err := pc.Promotions.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion detail", promotion)
}

func (pc *PromotionController) UpdatePromotion(c *gin.Context) {
	id, ok := parseID(c, "promotion_id")
	if !ok {
		return
	}
	var patch services.PromotionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	promotion, err := pc.Promotions.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion updated", promotion)
}

func (pc *PromotionController) DeletePromotion(c *gin.Context) {
	id, ok := parseID(c, "promotion_id")
	if !ok {
		return
	}
	if err := pc.Promotions.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Promotion deleted", gin.H{"id": id})
}
