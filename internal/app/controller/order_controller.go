package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// MyOrders returns the caller's orders, newest first
// GET /api/orders/myorders
func (ctrl *OrderController) MyOrders(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.ListForUser(actor.UserID)
	if err != nil {
		apperrors.Respond(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GetOrder GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrder(actor, id)
	if err != nil {
		apperrors.Respond(c, err, "get order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminListOrders GET /api/admin/orders
func (ctrl *OrderController) AdminListOrders(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	orders, err := ctrl.orderService.AdminList(actor)
	if err != nil {
		apperrors.Respond(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// AdminUpdateStatus PUT /api/admin/orders/:id
func (ctrl *OrderController) AdminUpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "Invalid status update")
		return
	}

	order, err := ctrl.orderService.AdminUpdateStatus(actor, id, req.Status)
	if err != nil {
		apperrors.Respond(c, err, "update order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// AdminDeleteOrder DELETE /api/admin/orders/:id
func (ctrl *OrderController) AdminDeleteOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.orderService.AdminDelete(actor, id); err != nil {
		apperrors.Respond(c, err, "delete order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order removed"})
}

// AdminExport streams every order as an XLSX workbook
// GET /api/admin/orders/export
func (ctrl *OrderController) AdminExport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := requireActor(c)
	if !ok {
		return
	}

	file, err := ctrl.orderService.AdminExport(actor)
	if err != nil {
		apperrors.Respond(c, err, "export orders")
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to write order export", err)
	}
}
