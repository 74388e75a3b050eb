package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"merchant/devserver"
	"merchant/middleware"
	"merchant/ratelim"
)

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir(uploadDir))
}

// AddAuthRoutes throttles login and register with their own limiter so
// failed logins do not eat into a merchant's write budget.
func AddAuthRoutes(router *httprouter.Router, srv *devserver.Server, authLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/register", authLimiter.Limit(srv.Register))
	router.POST("/api/auth/login", authLimiter.Limit(srv.Login))
	router.GET("/api/get-user-type", middleware.Authenticate(srv.Secret(), srv.UserType))
}

// merchant wraps h so only signed-in merchants reach it.
func merchant(srv *devserver.Server, h httprouter.Handle) httprouter.Handle {
	return middleware.Authenticate(srv.Secret(), middleware.MerchantOnly(h))
}

func AddMerchantRoutes(router *httprouter.Router, srv *devserver.Server, writeLimiter *ratelim.RateLimiter) {
	router.GET("/api/merchant/categories", merchant(srv, srv.ListCategories))
	router.GET("/api/merchant/products", merchant(srv, srv.ListProducts))
	router.GET("/api/merchant/products/:id", merchant(srv, srv.GetProduct))
	router.GET("/api/merchant/orders", merchant(srv, srv.ListOrders))
	router.PUT("/api/merchant/orders/:id/status", writeLimiter.Limit(merchant(srv, srv.UpdateOrderStatus)))
	router.GET("/api/merchant/orders/:id/qr", merchant(srv, srv.OrderQR))
	router.GET("/api/merchant/orders/:id/receipt", merchant(srv, srv.OrderReceipt))
	router.GET("/api/merchant/profile", merchant(srv, srv.GetProfile))
	router.PUT("/api/merchant/profile", merchant(srv, srv.UpdateProfile))
	router.POST("/api/merchant/logo", writeLimiter.Limit(merchant(srv, srv.UploadLogo)))
	router.POST("/api/merchant/create-agent", writeLimiter.Limit(merchant(srv, srv.CreateAgent)))
	router.GET("/api/merchant/reviews", merchant(srv, srv.ListReviews))
}

func AddCategoryRoutes(router *httprouter.Router, srv *devserver.Server, writeLimiter *ratelim.RateLimiter) {
	router.POST("/api/categories", writeLimiter.Limit(merchant(srv, srv.CreateCategory)))
	router.GET("/api/categories/:id", merchant(srv, srv.GetCategory))
	router.PUT("/api/categories/:id", merchant(srv, srv.UpdateCategory))
	router.DELETE("/api/categories/:id", merchant(srv, srv.DeleteCategory))
}

func AddProductRoutes(router *httprouter.Router, srv *devserver.Server, writeLimiter *ratelim.RateLimiter) {
	router.POST("/api/products", writeLimiter.Limit(merchant(srv, srv.CreateProduct)))
	router.PUT("/api/products/:id", writeLimiter.Limit(merchant(srv, srv.UpdateProduct)))
	router.DELETE("/api/products/:id", merchant(srv, srv.DeleteProduct))
	router.GET("/api/products/category/:id", merchant(srv, srv.ProductsByCategory))
	router.DELETE("/product/:id/clear-image", merchant(srv, srv.ClearImage))
}
