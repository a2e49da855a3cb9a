package server

import (
	"github.com/gin-gonic/gin"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/service/calendar"
	"github.com/oggyb/skilllink/internal/service/forum"
	"github.com/oggyb/skilllink/internal/service/gamification"
	"github.com/oggyb/skilllink/internal/service/matching"
	"github.com/oggyb/skilllink/internal/service/messaging"
	"github.com/oggyb/skilllink/internal/service/trainingplan"
	"github.com/oggyb/skilllink/internal/service/user"
)

// Registrar is a common interface for all service route registrars
type Registrar interface {
	Register(router gin.IRouter)
}

// Registrars returns the route registrars of every service, in mount order.
func Registrars(appCtx *app.AppContext) []Registrar {
	return []Registrar{
		user.NewRegistrar(appCtx),
		matching.NewRegistrar(appCtx),
		gamification.NewRegistrar(appCtx),
		forum.NewRegistrar(appCtx),
		messaging.NewRegistrar(appCtx),
		calendar.NewRegistrar(appCtx),
		trainingplan.NewRegistrar(appCtx),
	}
}
