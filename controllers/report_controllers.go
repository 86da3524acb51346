package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mesaja/seating/services"
	"github.com/mesaja/seating/utils"
)

type ReportController struct {
	Reports *services.ReportService
	now     func() time.Time
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports, now: time.Now}
}

// GetDashboard -> waiting parties, today's cancellations and promotions
func (rc *ReportController) GetDashboard(c *gin.Context) {
	dashboard, err := rc.Reports.Dashboard(c.Request.Context(), rc.now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard", dashboard)
}

// GetDailyReport -> ?date=YYYY-MM-DD, today when absent
func (rc *ReportController) GetDailyReport(c *gin.Context) {
	day, ok := rc.dayParam(c, "date")
	if !ok {
		return
	}
	report, err := rc.Reports.Daily(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily report", report)
}

// GetWeeklyReport -> the seven days ending on ?date=
func (rc *ReportController) GetWeeklyReport(c *gin.Context) {
	day, ok := rc.dayParam(c, "date")
	if !ok {
		return
	}
	report, err := rc.Reports.Weekly(c.Request.Context(), day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Weekly report", report)
}

// GetRangeReport -> ?from=&to=, both required
func (rc *ReportController) GetRangeReport(c *gin.Context) {
	if c.Query("from") == "" || c.Query("to") == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("from and to are required"))
		return
	}
	from, ok := rc.dayParam(c, "from")
	if !ok {
		return
	}
	to, ok := rc.dayParam(c, "to")
	if !ok {
		return
	}

	report, err := rc.Reports.Report(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Report", report)
}

func (rc *ReportController) dayParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return rc.now(), true
	}
	day, err := services.ParseDay(raw)
	if err != nil {
		respondServiceError(c, err)
		return time.Time{}, false
	}
	return day, true
}
