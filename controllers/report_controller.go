package controllers

import (
	"net/http"

	"rxplain/services"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(r *services.ReportService) *ReportController {
	return &ReportController{Reports: r}
}

func (rc *ReportController) Current(c *gin.Context) {
	uid := c.GetUint("userID")

	report, err := rc.Reports.CurrentReport(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rc *ReportController) InvalidateCache(c *gin.Context) {
	uid := c.GetUint("userID")

	rc.Reports.InvalidateUser(uid)
	c.JSON(http.StatusOK, gin.H{"message": "report cache invalidated"})
}
