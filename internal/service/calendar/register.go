package calendar

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/skilllink/internal/app"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/middleware"
	"github.com/oggyb/skilllink/internal/utils/response"
)

// Registrar ties the calendar routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type createResponse struct {
	Message string `json:"message"`
	EventID string `json:"event_id"`
}

// Register mounts the calendar routes. Creating an event requires a bearer token.
func (r *Registrar) Register(router gin.IRouter) {
	svc := NewService(r.appCtx)
	log := r.appCtx.Logger

	router.POST("/calendar/event", middleware.Auth(r.appCtx), func(c *gin.Context) {
		var doc map[string]any
		if err := c.ShouldBindJSON(&doc); err != nil || doc == nil {
			response.Error(c, log, svcErr.InvalidArgument("event must be a JSON object"))
			return
		}
		id, err := svc.Create(c.Request.Context(), middleware.CurrentUser(c).Email, doc)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, createResponse{Message: "Event created.", EventID: id})
	})

	list := func(c *gin.Context) {
		events, err := svc.ForUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
	router.GET("/calendar/:id", list)
	router.GET("/calendar/:id/events", list)

	router.GET("/calendar/today/:id", func(c *gin.Context) {
		events, err := svc.TodayForUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, events)
	})
}
