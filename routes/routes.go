package routes

import (
	"github.com/gin-gonic/gin"

	"recordstore/controllers"
	"recordstore/middleware"
)

type Controllers struct {
	Cart     *controllers.CartController
	Order    *controllers.OrderController
	Disc     *controllers.DiscController
	Delivery *controllers.DeliveryController
}

func RegisterRoutes(r *gin.Engine, jwtSecret string, ct Controllers) {
	r.Use(middleware.RequestID())

	api := r.Group("/api")
	{
		// Catalog and fee tables are public reads.
		api.GET("/discs", ct.Disc.GetDiscs)
		api.GET("/discs/:id", ct.Disc.GetDiscByID)
		api.GET("/delivery-fees", ct.Delivery.GetAllFees)
		api.GET("/delivery-fees/:district", ct.Delivery.GetFeeByDistrict)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			user := protected.Group("/user")
			{
				user.GET("/cart", ct.Cart.GetCart)
				user.POST("/cart", ct.Cart.AddToCart)
				user.PUT("/cart/:discId", ct.Cart.UpdateCartItem)
				user.DELETE("/cart/:discId", ct.Cart.RemoveFromCart)

				user.POST("/checkout", ct.Order.Checkout)
				user.GET("/orders", ct.Order.GetUserOrders)
				user.GET("/orders/:id", ct.Order.GetOrder)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.PUT("/discs/:id", ct.Disc.UpdateDisc)
				admin.PUT("/orders/:id/status", ct.Order.UpdateOrderStatus)
				admin.PUT("/orders/:id/payment", ct.Order.UpdatePaymentStatus)
				admin.GET("/shippers", ct.Order.ListShippers)
			}
		}
	}
}
