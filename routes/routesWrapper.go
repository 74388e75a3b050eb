package routes

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"merchant/devserver"
	"merchant/ratelim"
)

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// Limiters groups the per-IP limiters. Auth guards login and register;
// Write guards the merchant's create and update calls.
type Limiters struct {
	Auth  *ratelim.RateLimiter
	Write *ratelim.RateLimiter
}

// NewRouter builds the router with every merchant API route.
func NewRouter(srv *devserver.Server, limiters Limiters, uploadDir string) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)
	RoutesWrapper(router, srv, limiters)
	if uploadDir != "" {
		AddStaticRoutes(router, uploadDir)
	}
	return router
}

func RoutesWrapper(router *httprouter.Router, srv *devserver.Server, limiters Limiters) {
	AddAuthRoutes(router, srv, limiters.Auth)
	AddMerchantRoutes(router, srv, limiters.Write)
	AddCategoryRoutes(router, srv, limiters.Write)
	AddProductRoutes(router, srv, limiters.Write)
}
