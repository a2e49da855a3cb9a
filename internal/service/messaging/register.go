package messaging

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/skilllink/internal/app"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/utils/pagination"
	"github.com/oggyb/skilllink/internal/utils/response"
)

// Registrar ties the messaging routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type sendRequest struct {
	MatchID string `json:"match_id" binding:"required"`
	Sender  string `json:"sender" binding:"required"`
	Message string `json:"message" binding:"required,max=5000"`
}

type sendResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"message_id"`
}

func (r *Registrar) Register(router gin.IRouter) {
	svc := NewService(r.appCtx)
	log := r.appCtx.Logger

	router.POST("/message", func(c *gin.Context) {
		var req sendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, log, err)
			return
		}
		id, err := svc.Send(c.Request.Context(), req.MatchID, req.Sender, req.Message)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, sendResponse{Message: "Message sent.", MessageID: id})
	})

	router.GET("/messages/:match_id", func(c *gin.Context) {
		limit, err := pagination.ParseLimit(c.Query("limit"))
		if err != nil {
			response.Error(c, log, svcErr.InvalidArgument("%s", err.Error()))
			return
		}
		messages, next, err := svc.List(c.Request.Context(), c.Param("match_id"), c.Query("cursor"), limit)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		response.NextCursor(c, next)
		c.JSON(http.StatusOK, messages)
	})
}
