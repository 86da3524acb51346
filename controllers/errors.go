package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/services"
	"github.com/mesaja/seating/utils"
)

// respondServiceError maps service errors to HTTP statuses. Anything not
// recognised is logged and hidden behind a generic 500.
func respondServiceError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var notFound *services.NotFoundError
	var conflict *services.ConflictError

	switch {
	case errors.As(err, &validation):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.As(err, &notFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.As(err, &conflict):
		utils.RespondJSON(c, http.StatusConflict, conflict.Message, gin.H{"reason": conflict.Reason})
	default:
		utils.ErrorLogger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// parseID reads a numeric path parameter, answering 400 when it is not one.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s %q", param, c.Param(param)))
		return 0, false
	}
	return uint(id), true
}
