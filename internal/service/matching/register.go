package matching

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/utils/response"
)

// Registrar ties the matching routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the matching service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type swipeRequest struct {
	SwiperID  string `json:"swiper_id" binding:"required"`
	TargetID  string `json:"target_id" binding:"required"`
	Direction string `json:"direction" binding:"required,oneof=left right"`
}

type swipeResponse struct {
	Message string `json:"message"`
	Matched bool   `json:"matched"`
}

type countResponse struct {
	UserID string `json:"user_id"`
	Count  int64  `json:"count"`
}

// Register mounts the swipe, match and like-count routes.
func (r *Registrar) Register(router gin.IRouter) {
	h := &handler{svc: NewService(r.appCtx), appCtx: r.appCtx}
	router.POST("/swipe", h.swipe)
	router.GET("/matches/:id", h.matches)
	router.GET("/likes/:id/count", h.likesCount)
}

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func (h *handler) swipe(c *gin.Context) {
	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.appCtx.Logger, err)
		return
	}

	res, err := h.svc.Swipe(c.Request.Context(), req.SwiperID, req.TargetID, req.Direction)
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}

	if res.Matched {
		c.JSON(http.StatusOK, swipeResponse{Message: "It's a match!", Matched: true})
		return
	}
	c.JSON(http.StatusOK, swipeResponse{Message: "Swiped " + req.Direction})
}

func (h *handler) matches(c *gin.Context) {
	matches, err := h.svc.Matches(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (h *handler) likesCount(c *gin.Context) {
	id := c.Param("id")
	n, err := h.svc.CountRightSwipesReceived(c.Request.Context(), id)
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, countResponse{UserID: id, Count: n})
}
