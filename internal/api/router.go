package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitstreak/internal/constants"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(habits *HabitController, store Pinger, debug bool) *gin.Engine {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(TraceID())
	r.Use(RequestLogger())

	r.GET("/health", func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			respondError(c, http.StatusServiceUnavailable, "storage_failure", "Database unreachable")
			return
		}
		respond(c, http.StatusOK, gin.H{"version": constants.Version}, "ok")
	})

	habitsGroup := r.Group("/habits")
	habitsGroup.GET("", habits.ListHabits)
	habitsGroup.POST("", habits.CreateHabit)
	habitsGroup.GET("/:id", habits.GetHabit)
	habitsGroup.PUT("/:id", habits.UpdateHabit)
	habitsGroup.DELETE("/:id", habits.DeleteHabit)
	habitsGroup.GET("/:id/check-ins", habits.ListCheckIns)
	habitsGroup.POST("/:id/check-ins", habits.CreateCheckIn)
	habitsGroup.DELETE("/:id/check-ins/:checkInId", habits.DeleteCheckIn)
	habitsGroup.GET("/:id/streaks", habits.Streaks)
	habitsGroup.GET("/:id/summary", habits.Summary)

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "not_found", "Route not found")
	})

	return r
}
