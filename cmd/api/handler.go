package api

import (
	"github.com/maniishbhandarii/learning-backend-app/internal/auth/delivery"
	authUsecase "github.com/maniishbhandarii/learning-backend-app/internal/auth/usecase"
	"github.com/maniishbhandarii/learning-backend-app/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler wires the HTTP surface together and owns the gin engine.
type Handler struct {
	engine *gin.Engine
}

func NewHandler(authUc authUsecase.AuthUsecase, cfg *config.Config, log zerolog.Logger) *Handler {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(delivery.RequestLogger(log))
	engine.Use(delivery.ErrorFormatter(log))

	SetupRoutes(engine, authUc, cfg)

	return &Handler{engine: engine}
}

// Engine exposes the router, mainly for tests.
func (h *Handler) Engine() *gin.Engine {
	return h.engine
}

func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}
