package controllers

import (
	"errors"
	"net/http"

	"rxplain/services"

	"github.com/gin-gonic/gin"
)

type InteractionController struct {
	Interactions *services.InteractionService
	Reports      *services.ReportService
}

func NewInteractionController(i *services.InteractionService, r *services.ReportService) *InteractionController {
	return &InteractionController{Interactions: i, Reports: r}
}

type CheckInteractionsInput struct {
	Medications []string `json:"medications" binding:"required"`
}

func (ic *InteractionController) Check(c *gin.Context) {
	uid := c.GetUint("userID")

	var input CheckInteractionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, err := ic.Interactions.CheckForUser(uid, input.Medications)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelectionPrecondition):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "select at least 2 medications to check interactions"})
		case errors.Is(err, services.ErrAnalysisUnavailable):
			// Never mapped to a "no risk" answer.
			c.JSON(http.StatusBadGateway, gin.H{"error": "interaction analysis is unavailable right now, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ic.Reports.InvalidateUser(uid)
	c.JSON(http.StatusOK, analysis)
}

func (ic *InteractionController) History(c *gin.Context) {
	uid := c.GetUint("userID")

	checks, err := ic.Interactions.ListChecks(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, checks)
}
