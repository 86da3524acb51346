package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/services"
	"github.com/mesaja/seating/utils"
)

type TableController struct {
	Tables     *services.TableService
	Allocation *services.AllocationService
}

func NewTableController(tables *services.TableService, allocation *services.AllocationService) *TableController {
	return &TableController{Tables: tables, Allocation: allocation}
}

// CreateTable -> register a new table, available by default
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Number   int `json:"number" binding:"required"`
		Capacity int `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.Create(c.Request.Context(), req.Number, req.Capacity)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %d (capacity=%d)", table.Number, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> every table, or only those with ?status=
func (tc *TableController) GetAllTables(c *gin.Context) {
	ctx := c.Request.Context()
	if status := c.Query("status"); status != "" {
		tables, err := tc.Tables.ListByStatus(ctx, status)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
		return
	}

	tables, err := tc.Tables.List(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableStats(c *gin.Context) {
	stats, err := tc.Tables.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table stats", stats)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := parseID(c, "table_id")
	if !ok {
		return
	}
	table, err := tc.Tables.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTableStatus -> staff override of a table's status
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, ok := parseID(c, "table_id")
	if !ok {
		return
	}
	var body struct {
		Status       string  `json:"status" binding:"required"`
		CurrentParty *string `json:"current_party"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Tables.SetStatus(c.Request.Context(), id, body.Status, body.CurrentParty)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d status changed to %s", table.Number, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := parseID(c, "table_id")
	if !ok {
		return
	}
	if err := tc.Tables.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": id,
	})
}

// AssignNextParty -> seat the first waiting party at this table
func (tc *TableController) AssignNextParty(c *gin.Context) {
	id, ok := parseID(c, "table_id")
	if !ok {
		return
	}
	seating, err := tc.Allocation.AssignToTable(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Party seated", seating)
}
