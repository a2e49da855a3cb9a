package forum

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/skilllink/internal/app"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/middleware"
	"github.com/oggyb/skilllink/internal/utils/pagination"
	"github.com/oggyb/skilllink/internal/utils/response"
)

// Registrar ties the forum routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type createPostRequest struct {
	UserID      string   `json:"user_id" binding:"required"`
	Content     string   `json:"content" binding:"required,max=10000"`
	IsAnonymous bool     `json:"is_anonymous"`
	Tags        []string `json:"tags" binding:"max=20,dive,max=50"`
}

type createPostResponse struct {
	Message string `json:"message"`
	PostID  string `json:"post_id"`
}

type respondRequest struct {
	Response string `json:"response" binding:"required,max=5000"`
}

type reactRequest struct {
	Reaction string `json:"reaction" binding:"required,max=32"`
}

// Register mounts the forum routes. Respond and react require a bearer token.
func (r *Registrar) Register(router gin.IRouter) {
	h := &handler{svc: NewService(r.appCtx), appCtx: r.appCtx}

	router.POST("/forum", h.create)
	router.GET("/forum", h.list)
	router.GET("/forum/:id", h.get)

	authed := router.Group("/forum", middleware.Auth(r.appCtx))
	authed.POST("/:id/respond", h.respond)
	authed.POST("/:id/react", h.react)
}

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func (h *handler) create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.appCtx.Logger, err)
		return
	}
	id, err := h.svc.CreatePost(c.Request.Context(), NewPost{
		UserID:      req.UserID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		Tags:        req.Tags,
	})
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, createPostResponse{Message: "Forum post created.", PostID: id})
}

func (h *handler) list(c *gin.Context) {
	limit, err := pagination.ParseLimit(c.Query("limit"))
	if err != nil {
		response.Error(c, h.appCtx.Logger, svcErr.InvalidArgument("%s", err.Error()))
		return
	}
	posts, next, err := h.svc.ListPosts(c.Request.Context(), c.Query("cursor"), limit)
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	response.NextCursor(c, next)
	c.JSON(http.StatusOK, posts)
}

func (h *handler) get(c *gin.Context) {
	post, err := h.svc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *handler) respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.appCtx.Logger, err)
		return
	}
	actor := middleware.CurrentUser(c)
	if err := h.svc.Respond(c.Request.Context(), c.Param("id"), req.Response, actor.ID); err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "Response added and points awarded."})
}

func (h *handler) react(c *gin.Context) {
	var req reactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.appCtx.Logger, err)
		return
	}
	actor := middleware.CurrentUser(c)
	if err := h.svc.React(c.Request.Context(), c.Param("id"), req.Reaction, actor.ID); err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "Reaction added and points awarded."})
}
