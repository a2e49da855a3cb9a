package trainingplan

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/utils/response"
)

// Registrar ties the training plan routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type createRequest struct {
	MatchID string `json:"match_id" binding:"required"`
	Topic   string `json:"topic" binding:"required,max=255"`
	Date    string `json:"date" binding:"required,max=32"`
}

type createResponse struct {
	Message string `json:"message"`
	PlanID  string `json:"plan_id"`
}

func (r *Registrar) Register(router gin.IRouter) {
	svc := NewService(r.appCtx)
	log := r.appCtx.Logger

	router.POST("/training_plan", func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, log, err)
			return
		}
		id, err := svc.Create(c.Request.Context(), req.MatchID, req.Topic, req.Date)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, createResponse{Message: "Training plan created.", PlanID: id})
	})

	// responds with null when the match has no plan
	router.GET("/training_plan/:match_id", func(c *gin.Context) {
		plan, err := svc.ForMatch(c.Request.Context(), c.Param("match_id"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, plan)
	})
}
