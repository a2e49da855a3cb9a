package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/db"
	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/repository"
	"github.com/oggyb/skilllink/internal/utils/ctxkeys"
	"github.com/oggyb/skilllink/internal/utils/response"
)

// Auth requires a valid "Authorization: Bearer <token>" header.
//
// Behavior:
//   - Token signature, algorithm and expiry are checked by the credential service.
//   - The token subject (an email) must resolve to a stored user.
//   - On success the user is stored on the context, see CurrentUser.
//   - Any failure aborts with 401 and WWW-Authenticate: Bearer.
func Auth(appCtx *app.AppContext) gin.HandlerFunc {
	users := repository.NewUserRepository(appCtx.DB)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(c, appCtx, svcErr.Unauthorized("Not authenticated"))
			return
		}

		email, err := appCtx.Credentials.Validate(strings.TrimSpace(token))
		if err != nil {
			unauthorized(c, appCtx, err)
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			unauthorized(c, appCtx, svcErr.Unauthorized("Could not validate credentials"))
			return
		} else if err != nil {
			response.Error(c, appCtx.Logger, err)
			return
		}

		c.Set(ctxkeys.User, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by Auth, or nil on public routes.
func CurrentUser(c *gin.Context) *db.User {
	v, ok := c.Get(ctxkeys.User)
	if !ok {
		return nil
	}
	u, _ := v.(*db.User)
	return u
}

func unauthorized(c *gin.Context, appCtx *app.AppContext, err error) {
	c.Header("WWW-Authenticate", "Bearer")
	response.Error(c, appCtx.Logger, err)
}
