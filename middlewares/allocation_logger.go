package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/utils"
)

// AllocationLogger records every seating attempt and its outcome.
func AllocationLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		target := "next available table"
		if id := c.Param("table_id"); id != "" {
			target = "table " + id
		}
		utils.InfoLogger.Printf("Seating next party at %s", target)

		c.Next()

		status := c.Writer.Status()
		switch {
		case status < 300:
			utils.InfoLogger.Printf("Party seated at %s", target)
		case status < 500:
			utils.InfoLogger.Printf("No party seated at %s (status %d)", target, status)
		default:
			utils.ErrorLogger.Errorf("Seating at %s failed with status %d", target, status)
		}
	}
}
