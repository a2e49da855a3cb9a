package user

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/oggyb/skilllink/internal/app"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/middleware"
	"github.com/oggyb/skilllink/internal/utils/response"
)

// Registrar ties the user directory routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the user service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

type registerRequest struct {
	Name         string   `json:"name" binding:"required,min=2,max=50"`
	Email        string   `json:"email" binding:"required,email,max=128"`
	Age          *int     `json:"age" binding:"omitempty,min=0,max=120"`
	Skills       []string `json:"skills" binding:"max=50"`
	Username     string   `json:"username" binding:"required,min=3,max=30,username_chars"`
	Password     string   `json:"password" binding:"required,min=6,max=72"`
	Description  string   `json:"description" binding:"max=1000"`
	Interests    []string `json:"interests" binding:"max=50"`
	Teaches      []string `json:"teaches" binding:"max=50"`
	WantsToLearn []string `json:"wantsToLearn" binding:"max=50"`
	Photo        *string  `json:"photo" binding:"omitempty,max=512"`
	Country      string   `json:"country" binding:"required,max=64"`
	City         string   `json:"city" binding:"required,max=64"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Register mounts the registration, login, profile and identity routes.
func (r *Registrar) Register(router gin.IRouter) {
	if err := middleware.RegisterValidators(); err != nil {
		r.appCtx.Logger.Error("custom validators unavailable", "err", err)
	}
	h := &handler{svc: NewService(r.appCtx), appCtx: r.appCtx}

	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.GET("/users", h.list)
	router.GET("/profile/:id", h.getProfile)
	router.PUT("/profile/:id", h.updateProfile)
	router.GET("/recommendation/:id", h.recommend)

	auth := middleware.Auth(r.appCtx)
	router.GET("/protected", auth, h.protected)
	router.GET("/protected_profile", auth, h.protectedProfile)
}

type handler struct {
	svc    *Service
	appCtx *app.AppContext
}

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, h.appCtx.Logger, err)
		return
	}

	id, err := h.svc.Register(c.Request.Context(), Registration{
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		Password:     req.Password,
		Age:          req.Age,
		Description:  req.Description,
		Photo:        req.Photo,
		Skills:       req.Skills,
		Interests:    req.Interests,
		Teaches:      req.Teaches,
		WantsToLearn: req.WantsToLearn,
		Country:      req.Country,
		City:         req.City,
	})
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, registerResponse{Message: "User registered successfully", UserID: id})
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		response.BindError(c, h.appCtx.Logger, err)
		return
	}
	token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, svcErr.ErrUnauthorized) {
			c.Header("WWW-Authenticate", "Bearer")
		}
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.appCtx.Credentials.TTL().Seconds()),
	})
}

func (h *handler) list(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *handler) getProfile(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// updateProfile only accepts the keys of ProfileUpdate; anything else,
// including email, password and points, is rejected.
func (h *handler) updateProfile(c *gin.Context) {
	var p ProfileUpdate
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			response.Error(c, h.appCtx.Logger, svcErr.InvalidArgument("field %s cannot be updated", field))
			return
		}
		if errors.Is(err, io.EOF) {
			response.Error(c, h.appCtx.Logger, svcErr.InvalidArgument("request body must be a JSON object"))
			return
		}
		response.BindError(c, h.appCtx.Logger, err)
		return
	}
	if err := binding.Validator.ValidateStruct(&p); err != nil {
		response.BindError(c, h.appCtx.Logger, err)
		return
	}

	if err := h.svc.Update(c.Request.Context(), c.Param("id"), p); err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, response.Message{Message: "Profile updated successfully."})
}

func (h *handler) recommend(c *gin.Context) {
	best, err := h.svc.Recommend(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	if best == nil {
		c.JSON(http.StatusOK, response.Message{Message: "No suitable recommendation found."})
		return
	}
	c.JSON(http.StatusOK, best)
}

func (h *handler) protected(c *gin.Context) {
	u := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, response.Message{Message: "Welcome, " + u.Name + "!"})
}

func (h *handler) protectedProfile(c *gin.Context) {
	profile, err := h.svc.PrivateProfile(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.Error(c, h.appCtx.Logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
