package gamification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/skilllink/internal/app"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/utils/response"
)

// Registrar ties the gamification routes into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register mounts GET /leaderboard.
func (r *Registrar) Register(router gin.IRouter) {
	svc := NewService(r.appCtx)
	router.GET("/leaderboard", func(c *gin.Context) {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				response.Error(c, r.appCtx.Logger, svcErr.InvalidArgument("limit must be a positive integer"))
				return
			}
			limit = n
		}

		standings, err := svc.Leaderboard(c.Request.Context(), limit)
		if err != nil {
			response.Error(c, r.appCtx.Logger, err)
			return
		}
		c.JSON(http.StatusOK, standings)
	})
}
