package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/MikeMC777/tienda-api/docs"
	"github.com/MikeMC777/tienda-api/internal/audit"
	"github.com/MikeMC777/tienda-api/internal/cart"
	"github.com/MikeMC777/tienda-api/internal/catalog"
	"github.com/MikeMC777/tienda-api/internal/config"
	"github.com/MikeMC777/tienda-api/internal/coupon"
	"github.com/MikeMC777/tienda-api/internal/events"
	"github.com/MikeMC777/tienda-api/internal/httpx"
	"github.com/MikeMC777/tienda-api/internal/order"
	"github.com/MikeMC777/tienda-api/internal/user"
)

// @title Tienda API
// @version 1.0
// @description Mini e-commerce CRUD API (users, catalog, cart, orders).
// @BasePath /
func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[api] pgx pool: %v", err)
	}
	defer pool.Close()

	users := user.NewPGRepo(pool)
	categories := catalog.NewPGCategoryRepo(pool)
	products := catalog.NewPGRepo(pool)
	reviews := catalog.NewPGReviewRepo(pool)
	carts := cart.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)
	coupons := coupon.NewPGRepo(pool)
	audits := audit.NewPGRepo(pool)

	pub, err := events.NewPublisher(cfg.AMQPURI, cfg.AuditQueue)
	if err != nil {
		// the API keeps serving without audit events
		log.Printf("[api] events disabled: %v", err)
		pub = nil
	}
	defer pub.Close()

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// auth & users
	r.POST("/auth/register", registerHandler(users))
	r.POST("/auth/login", loginHandler(users))
	r.GET("/users", listUsersHandler(users))
	r.GET("/users/:id", getUserHandler(users))
	r.PUT("/users/:id", updateUserHandler(users))
	r.DELETE("/users/:id", deleteUserHandler(users))
	r.PUT("/admin/users/:id/role", updateUserRoleHandler(users))

	// catalog
	r.POST("/categories", createCategoryHandler(categories))
	r.GET("/categories", listCategoriesHandler(categories))
	r.GET("/categories/:id", getCategoryHandler(categories))
	r.PUT("/categories/:id", updateCategoryHandler(categories))
	r.DELETE("/categories/:id", deleteCategoryHandler(categories))
	r.GET("/categories/:id/products", listCategoryProductsHandler(products))

	r.GET("/products", listOnlyHandler(products))
	r.GET("/products/search", searchHandler(products))
	r.GET("/products/:id", getProductHandler(products))
	r.POST("/products", createProductHandler(products))
	r.PUT("/products/:id", updateProductHandler(products))
	r.DELETE("/products/:id", deleteProductHandler(products))
	r.GET("/products/:id/inventory", getInventoryHandler(products))
	r.PUT("/products/:id/inventory", updateInventoryHandler(products))

	r.POST("/reviews", createReviewHandler(reviews))
	r.GET("/products/:id/reviews", listProductReviewsHandler(reviews))

	// cart & wishlist
	r.GET("/cart", getCartHandler(carts))
	r.POST("/cart/items", addCartItemHandler(carts, products))
	r.PUT("/cart/items/:id", updateCartItemHandler(carts))
	r.DELETE("/cart/items/:id", deleteCartItemHandler(carts))
	r.POST("/wishlist", addWishHandler(carts))
	r.GET("/wishlist", listWishesHandler(carts))
	r.DELETE("/wishlist/:product_id", removeWishHandler(carts))

	// orders
	r.POST("/orders", createOrderHandler(orders, users, products, pub))
	r.POST("/orders/checkout", checkoutHandler(orders, carts, products, coupons, pub))
	r.GET("/orders/:id", getOrderHandler(orders))
	r.GET("/orders/:id/items", getOrderItemsHandler(orders))
	r.GET("/orders/user/:user_id", listOrdersByUserHandler(orders))
	r.PUT("/orders/:id/status", updateOrderStatusHandler(orders, pub))

	r.POST("/orders/:id/payment", createPaymentHandler(orders, pub))
	r.GET("/orders/:id/payment", getPaymentHandler(orders))
	r.PUT("/payments/:id/status", updatePaymentStatusHandler(orders))
	r.POST("/orders/:id/shipping", createShippingHandler(orders))
	r.GET("/orders/:id/shipping", getShippingHandler(orders))
	r.PUT("/shippings/:id/status", updateShippingStatusHandler(orders))

	// coupons
	r.POST("/coupons", createCouponHandler(coupons))
	r.GET("/coupons", listCouponsHandler(coupons))
	r.GET("/coupons/:code", getCouponHandler(coupons))
	r.PUT("/coupons/:id", updateCouponHandler(coupons))
	r.DELETE("/coupons/:id", deleteCouponHandler(coupons))

	// audit trail
	r.GET("/audit/:entity_id", listAuditHandler(audits))

	log.Printf("[api] listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
