package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"rxplain/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ScheduleController struct {
	Schedules *services.ScheduleService
	Reports   *services.ReportService
}

func NewScheduleController(s *services.ScheduleService, r *services.ReportService) *ScheduleController {
	return &ScheduleController{Schedules: s, Reports: r}
}

func (sc *ScheduleController) Create(c *gin.Context) {
	uid := c.GetUint("userID")

	schedule, err := sc.Schedules.CreateForUser(uid)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrScheduleIntegrity):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAnalysisUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "schedule planning is unavailable right now, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	sc.Reports.InvalidateUser(uid)
	c.JSON(http.StatusCreated, schedule)
}

func (sc *ScheduleController) List(c *gin.Context) {
	uid := c.GetUint("userID")

	schedules, err := sc.Schedules.List(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, schedules)
}

func (sc *ScheduleController) Get(c *gin.Context) {
	uid := c.GetUint("userID")

	id, ok := scheduleID(c)
	if !ok {
		return
	}

	schedule, err := sc.Schedules.Get(uid, id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (sc *ScheduleController) Update(c *gin.Context) {
	uid := c.GetUint("userID")

	id, ok := scheduleID(c)
	if !ok {
		return
	}

	var patch services.ScheduleUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := sc.Schedules.Update(uid, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrActivationViaUpdate):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "use POST /schedules/:id/activate to activate a schedule"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	sc.Reports.InvalidateUser(uid)
	c.JSON(http.StatusOK, schedule)
}

func (sc *ScheduleController) Activate(c *gin.Context) {
	uid := c.GetUint("userID")

	id, ok := scheduleID(c)
	if !ok {
		return
	}

	schedule, err := sc.Schedules.SetActive(uid, id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	sc.Reports.InvalidateUser(uid)
	c.JSON(http.StatusOK, schedule)
}

func (sc *ScheduleController) Delete(c *gin.Context) {
	uid := c.GetUint("userID")

	id, ok := scheduleID(c)
	if !ok {
		return
	}

	if err := sc.Schedules.Delete(uid, id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	sc.Reports.InvalidateUser(uid)
	c.JSON(http.StatusOK, gin.H{"message": "schedule deleted"})
}

func scheduleID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return 0, false
	}
	return uint(id), true
}
