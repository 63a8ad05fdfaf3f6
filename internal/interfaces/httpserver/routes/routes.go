package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/image-generation-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/image-generation-api/internal/interfaces/httpserver/routes/api"
)

// Provider registers every route group of the service.
type Provider struct {
	api *api.Routes
}

// NewProvider builds the route registrars from the handler provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{
		api: api.NewRoutes(handlerProvider),
	}
}

// Register attaches all route groups to the engine.
func (p *Provider) Register(engine *gin.Engine) {
	p.api.Register(engine)
}
