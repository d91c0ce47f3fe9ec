// Package handler wires the domain services onto gin routes and maps
// domain errors to the JSON envelope.
package handler

import (
	"log"
	"net/http"

	"shopmobile/internal/account"
	"shopmobile/internal/admin"
	"shopmobile/internal/address"
	"shopmobile/internal/catalog"
	"shopmobile/internal/coupon"
	"shopmobile/internal/order"
	"shopmobile/internal/promotion"
	"shopmobile/pkg/errs"
	"shopmobile/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store      *catalog.Store
	query      *catalog.Query
	promotions *promotion.Engine
	coupons    *coupon.Service
	accounts   *account.Service
	addresses  *address.Manager
	orders     *order.Ledger
	admin      *admin.Service
}

func New(
	store *catalog.Store,
	query *catalog.Query,
	promotions *promotion.Engine,
	coupons *coupon.Service,
	accounts *account.Service,
	addresses *address.Manager,
	orders *order.Ledger,
	adminSvc *admin.Service,
) *Handler {
	return &Handler{
		store:      store,
		query:      query,
		promotions: promotions,
		coupons:    coupons,
		accounts:   accounts,
		addresses:  addresses,
		orders:     orders,
		admin:      adminSvc,
	}
}

// Router builds the gin engine with all routes attached.
func (h *Handler) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/password/forgot", h.ForgotPassword)
		api.POST("/password/reset", h.ResetPassword)

		api.GET("/home", h.Home)
		api.GET("/products", h.ListProducts)
		api.GET("/products/:idOrSlug", h.ProductDetail)
	}

	authed := api.Group("/")
	authed.Use(AuthMiddleware())
	{
		authed.GET("/profile", h.Profile)
		authed.PUT("/profile", h.UpdateProfile)
		authed.POST("/profile/password", h.ChangePassword)
		authed.GET("/coupons", h.ValidCoupons)
		authed.GET("/orders", h.MyOrders)
		authed.POST("/orders", h.PlaceOrder)
		authed.GET("/orders/:id", h.OrderDetail)

		authed.GET("/addresses", h.ListAddresses)
		authed.POST("/addresses", h.AddAddress)
		authed.POST("/addresses/:id/default", h.SetDefaultAddress)
		authed.DELETE("/addresses/:id", h.DeleteAddress)
	}

	staff := api.Group("/admin")
	staff.Use(AuthMiddleware(), StaffMiddleware())
	{
		staff.GET("/dashboard", h.Dashboard)

		staff.GET("/products", h.AdminProducts)
		staff.POST("/products", h.AdminAddProduct)
		staff.DELETE("/products/:id", h.AdminDeleteProduct)

		staff.GET("/promotions", h.AdminPromotions)
		staff.POST("/promotions", h.AdminAddPromotion)
		staff.DELETE("/promotions/:id", h.AdminDeletePromotion)

		staff.GET("/coupons", h.AdminCoupons)
		staff.POST("/coupons", h.AdminAddCoupon)
		staff.DELETE("/coupons/:id", h.AdminDeleteCoupon)

		staff.POST("/orders/:id/status", h.AdminSetOrderStatus)
	}

	return r
}

// fail maps a domain error onto the envelope. Unexpected errors are logged
// and surfaced generically so internals never leak.
func fail(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		response.Error(c, status, "Internal server error")
		return
	}
	response.Error(c, status, err.Error())
}
