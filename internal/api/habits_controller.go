package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"

	apperrors "github.com/julianstephens/habitstreak/internal/errors"
	"github.com/julianstephens/habitstreak/internal/models"
	"github.com/julianstephens/habitstreak/internal/validation"
)

// HabitService is the part of service.HabitService the API exposes.
type HabitService interface {
	CreateHabit(ctx context.Context, name string, description *string) (models.Habit, error)
	ListHabits(ctx context.Context) ([]models.Habit, error)
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	UpdateHabit(ctx context.Context, id string, update models.HabitUpdate) (models.Habit, error)
	DeleteHabit(ctx context.Context, id string) (bool, error)
	CheckIn(ctx context.Context, habitID string, date *civil.Date, note *string) (models.CheckIn, error)
	ListCheckIns(ctx context.Context, habitID string) ([]models.CheckIn, error)
	DeleteCheckIn(ctx context.Context, habitID, checkInID string) (bool, error)
	Streaks(ctx context.Context, habitID string) ([]models.Streak, error)
	Summary(ctx context.Context, habitID string) (models.Summary, error)
}

type HabitController struct {
	service HabitService
}

func NewHabitController(service HabitService) *HabitController {
	return &HabitController{service: service}
}

type createHabitRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type createCheckInRequest struct {
	Date string  `json:"date"`
	Note *string `json:"note"`
}

// bindJSON decodes an optional JSON body; an empty body leaves dst untouched.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, apperrors.Code(apperrors.ErrInvalidInput), "Malformed JSON body: "+err.Error())
		return false
	}
	return true
}

func (hc *HabitController) ListHabits(c *gin.Context) {
	habits, err := hc.service.ListHabits(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, habits, "")
}

func (hc *HabitController) CreateHabit(c *gin.Context) {
	var req createHabitRequest
	if !bindJSON(c, &req) {
		return
	}
	habit, err := hc.service.CreateHabit(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, habit, "Habit created")
}

func (hc *HabitController) GetHabit(c *gin.Context) {
	habit, err := hc.service.GetHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, habit, "")
}

func (hc *HabitController) UpdateHabit(c *gin.Context) {
	var req models.HabitUpdate
	if !bindJSON(c, &req) {
		return
	}
	habit, err := hc.service.UpdateHabit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, habit, "Habit updated")
}

func (hc *HabitController) DeleteHabit(c *gin.Context) {
	id := c.Param("id")
	deleted, err := hc.service.DeleteHabit(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !deleted {
		handleServiceError(c, apperrors.NotFound("habit", id))
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id}, "Habit deleted")
}

func (hc *HabitController) ListCheckIns(c *gin.Context) {
	checkIns, err := hc.service.ListCheckIns(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, checkIns, "")
}

func (hc *HabitController) CreateCheckIn(c *gin.Context) {
	var req createCheckInRequest
	if !bindJSON(c, &req) {
		return
	}
	date, err := validation.OptionalDate(req.Date)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	checkIn, err := hc.service.CheckIn(c.Request.Context(), c.Param("id"), date, req.Note)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, checkIn, "Check-in recorded")
}

func (hc *HabitController) DeleteCheckIn(c *gin.Context) {
	checkInID := c.Param("checkInId")
	removed, err := hc.service.DeleteCheckIn(c.Request.Context(), c.Param("id"), checkInID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if !removed {
		handleServiceError(c, apperrors.NotFound("check-in", checkInID))
		return
	}
	respond(c, http.StatusOK, gin.H{"id": checkInID}, "Check-in deleted")
}

func (hc *HabitController) Streaks(c *gin.Context) {
	streaks, err := hc.service.Streaks(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, streaks, "")
}

func (hc *HabitController) Summary(c *gin.Context) {
	summary, err := hc.service.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, summary, "")
}
