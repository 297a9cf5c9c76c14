package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/tienda-ecom/docs"
	"github.com/MikeMC777/tienda-ecom/internal/httpx"
	"github.com/MikeMC777/tienda-ecom/internal/logger"
	"github.com/MikeMC777/tienda-ecom/internal/shop"
)

type routerOptions struct {
	CORSOrigins []string
	// Tracing enables the otelgin middleware under this service name.
	Tracing string
	// Ping backs /healthz; nil always reports ok.
	Ping func(*gin.Context) error
}

func newRouter(svc *shop.Service, log *logger.Logger, opts routerOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(log), httpx.CORS(opts.CORSOrigins))
	if opts.Tracing != "" {
		r.Use(httpx.Tracing(opts.Tracing))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if opts.Ping != nil {
			if err := opts.Ping(c); err != nil {
				c.String(http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	u := api.Group("/user")
	u.GET("/id/:id", findUserByIDHandler(svc))
	u.GET("/:username", findUserByUsernameHandler(svc))
	u.POST("/create", createUserHandler(svc))

	i := api.Group("/item")
	i.GET("", listItemsHandler(svc))
	i.GET("/:id", getItemHandler(svc))
	i.GET("/name/:name", findItemsByNameHandler(svc))

	c := api.Group("/cart")
	c.POST("/addToCart", addToCartHandler(svc))
	c.POST("/removeFromCart", removeFromCartHandler(svc))

	o := api.Group("/order")
	o.POST("/submit/:username", submitOrderHandler(svc))
	o.GET("/history/:username", orderHistoryHandler(svc))

	return r
}
