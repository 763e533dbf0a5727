// Package https_server builds the gin engine: middleware, static assets
// and route registration.
package https_server

import (
	"lingua_tutor_server/internal/config"
	"lingua_tutor_server/internal/handler"
	"lingua_tutor_server/internal/infrastructure/logger"
	"lingua_tutor_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init assembles the engine. handlers comes in through dependency
// injection so tests can build an engine around stub services.
func Init(handlers *handler.Handlers) *gin.Engine {
	// blank engine, middleware under our control
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	origin := config.GetConfig().MainConfig.CorsOrigin
	if origin == "" || origin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{origin}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// TLS redirect middleware, enable when not behind a TLS-terminating proxy
	// engine.Use(middleware.TlsHandler(config.GetConfig().MainConfig.Host, config.GetConfig().MainConfig.Port))

	// bundled demo avatar clips and voices
	engine.Static("/static/demo", "./static/demo")

	rt := router.NewRouter(handlers)
	rt.RegisterRoutes(engine)

	return engine
}
