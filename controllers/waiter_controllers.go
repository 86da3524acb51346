package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/services"
	"github.com/mesaja/seating/utils"
)

type WaiterController struct {
	Staff *services.StaffService
}

func NewWaiterController(staff *services.StaffService) *WaiterController {
	return &WaiterController{Staff: staff}
}

func (wc *WaiterController) CreateWaiter(c *gin.Context) {
	var input services.WaiterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	waiter, err := wc.Staff.CreateWaiter(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Waiter created: %s (id=%d)", waiter.Name, waiter.ID)
	utils.RespondJSON(c, http.StatusCreated, "Waiter created", waiter)
}

func (wc *WaiterController) GetAllWaiters(c *gin.Context) {
	waiters, err := wc.Staff.ListWaiters(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of waiters", waiters)
}

func (wc *WaiterController) GetWaiterByID(c *gin.Context) {
	id, ok := parseID(c, "waiter_id")
	if !ok {
		return
	}
	waiter, err := wc.Staff.GetWaiter(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiter detail", waiter)
}

// GetWaiterByTelegramID -> used by the chat bot to identify who is writing
func (wc *WaiterController) GetWaiterByTelegramID(c *gin.Context) {
	waiter, err := wc.Staff.GetWaiterByTelegramID(c.Request.Context(), c.Param("telegram_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiter detail", waiter)
}

func (wc *WaiterController) UpdateWaiter(c *gin.Context) {
	id, ok := parseID(c, "waiter_id")
	if !ok {
		return
	}
	var patch services.WaiterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	waiter, err := wc.Staff.UpdateWaiter(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiter updated", waiter)
}

func (wc *WaiterController) DeleteWaiter(c *gin.Context) {
	id, ok := parseID(c, "waiter_id")
	if !ok {
		return
	}
	if err := wc.Staff.DeleteWaiter(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiter deleted", gin.H{"id": id})
}

// SendMessage -> private message to the waiter, copied to the staff group
func (wc *WaiterController) SendMessage(c *gin.Context) {
	id, ok := parseID(c, "waiter_id")
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	message, err := wc.Staff.SendMessage(c.Request.Context(), id, req.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Message sent", message)
}

func (wc *WaiterController) GetConversation(c *gin.Context) {
	id, ok := parseID(c, "waiter_id")
	if !ok {
		return
	}
	messages, err := wc.Staff.Conversation(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Conversation", messages)
}

// RecordMessage -> store a message that arrived from a waiter
func (wc *WaiterController) RecordMessage(c *gin.Context) {
	var req struct {
		WaiterID  uint   `json:"waiter_id" binding:"required"`
		Text      string `json:"text" binding:"required"`
		Direction string `json:"direction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	message, err := wc.Staff.RecordMessage(c.Request.Context(), req.WaiterID, req.Text, req.Direction)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Message recorded", message)
}
