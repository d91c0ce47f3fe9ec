package handler

import (
	"net/http"

	"shopmobile/internal/model"
	"shopmobile/internal/order"
	"shopmobile/pkg/response"

	"github.com/gin-gonic/gin"
)

func orderJSON(o *model.Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, gin.H{
			"id":            it.ID,
			"product_id":    it.ProductID,
			"product_name":  it.ProductName,
			"product_price": it.ProductPrice,
			"quantity":      it.Quantity,
			"subtotal":      it.Subtotal(),
		})
	}
	return gin.H{
		"id":                  o.ID,
		"status":              o.Status,
		"payment_method":      o.PaymentMethod,
		"shipping_address_id": o.ShippingAddressID,
		"total_amount":        o.TotalAmount,
		"note":                o.Note,
		"items":               items,
		"created_at":          o.CreatedAt,
	}
}

func (h *Handler) MyOrders(c *gin.Context) {
	orders, err := h.orders.ListByUser(currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderJSON(&orders[i]))
	}
	response.Success(c, out)
}

type placeOrderReq struct {
	AddressID     *uint             `json:"address_id"`
	PaymentMethod string            `json:"payment_method" binding:"required"`
	Note          string            `json:"note"`
	Items         []order.ItemInput `json:"items" binding:"required"`
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	o, err := h.orders.Create(currentUserID(c), req.AddressID, req.PaymentMethod, req.Note, req.Items)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, orderJSON(o))
}

func (h *Handler) OrderDetail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.orders.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	if o.UserID != currentUserID(c) && !c.GetBool("isStaff") {
		response.Error(c, http.StatusNotFound, "order not found")
		return
	}
	response.Success(c, orderJSON(o))
}
