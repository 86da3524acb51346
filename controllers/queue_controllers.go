package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/services"
	"github.com/mesaja/seating/utils"
)

type QueueController struct {
	Queue      *services.QueueService
	Allocation *services.AllocationService
}

func NewQueueController(queue *services.QueueService, allocation *services.AllocationService) *QueueController {
	return &QueueController{Queue: queue, Allocation: allocation}
}

// JoinQueue -> a party arrives and waits for a table
func (qc *QueueController) JoinQueue(c *gin.Context) {
	var req struct {
		PartyName string `json:"party_name" binding:"required"`
		PartySize int    `json:"party_size"`
		ChatID    string `json:"chat_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entry, err := qc.Queue.EnqueueWithChat(c.Request.Context(), req.PartyName, req.PartySize, req.ChatID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Party %q (%d) joined the queue as entry %d", entry.PartyName, entry.PartySize, entry.ID)
	utils.RespondJSON(c, http.StatusCreated, "Party added to the queue", entry)
}

func (qc *QueueController) GetWaitingQueue(c *gin.Context) {
	entries, err := qc.Queue.ListWaiting(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Waiting queue", entries)
}

// GetQueueHistory -> latest entries of any status, ?limit= defaults to 50
func (qc *QueueController) GetQueueHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		limit = parsed
	}

	entries, err := qc.Queue.History(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Queue history", entries)
}

func (qc *QueueController) GetQueueEntry(c *gin.Context) {
	id, ok := parseID(c, "entry_id")
	if !ok {
		return
	}
	entry, err := qc.Queue.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Queue entry detail", entry)
}

func (qc *QueueController) UpdateQueueEntry(c *gin.Context) {
	id, ok := parseID(c, "entry_id")
	if !ok {
		return
	}
	var patch services.QueueEntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	entry, err := qc.Queue.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Queue entry updated", entry)
}

func (qc *QueueController) CancelQueueEntry(c *gin.Context) {
	id, ok := parseID(c, "entry_id")
	if !ok {
		return
	}
	entry, err := qc.Queue.Cancel(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Queue entry %d cancelled", entry.ID)
	utils.RespondJSON(c, http.StatusOK, "Queue entry cancelled", entry)
}

// ServeNext -> seat the first waiting party on the best free table(s)
func (qc *QueueController) ServeNext(c *gin.Context) {
	seating, err := qc.Allocation.ServeNext(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Party seated", seating)
}
