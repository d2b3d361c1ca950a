package fortunes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route binds a method and path to a handler
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Routes returns the controller's route table
func (ctl *Controller) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/fortunes", Handler: ctl.List()},
		{Method: http.MethodGet, Path: "/random", Handler: ctl.Random()},
	}
}

// RegisterRoutes registers every route of the table on router.
// Middleware listed in perRoute wraps only the route with that path.
func RegisterRoutes(router gin.IRoutes, ctl *Controller, perRoute map[string][]gin.HandlerFunc) {
	for _, route := range ctl.Routes() {
		handlers := append(append([]gin.HandlerFunc{}, perRoute[route.Path]...), route.Handler)
		router.Handle(route.Method, route.Path, handlers...)
	}
}
