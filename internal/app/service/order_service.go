package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/authz"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const orderExportSheet = "Orders"

var orderExportHeader = []interface{}{
	"Order ID", "Checkout ID", "Customer", "Email", "Items", "Total",
	"Payment Method", "Payment Status", "Status", "Paid At", "Delivered", "Delivered At", "Created At",
}

type OrderService interface {
	ListForUser(userID uint) ([]model.Order, error)
	GetOrder(actor authz.Actor, id uint) (*model.Order, error)
	AdminList(actor authz.Actor) ([]model.Order, error)
	AdminUpdateStatus(actor authz.Actor, id uint, status string) (*model.Order, error)
	AdminDelete(actor authz.Actor, id uint) error
	AdminExport(actor authz.Actor) (*excelize.File, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

func (s *orderService) ListForUser(userID uint) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Orders listed", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (s *orderService) GetOrder(actor authz.Actor, id uint) (*model.Order, error) {
	order, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !authz.Can(actor, authz.ActionViewOrder, order) {
		logger.Warn("Order access denied", map[string]interface{}{
			"order_id": id,
			"user_id":  actor.UserID,
		})
		return nil, ErrOrderForbidden
	}
	return order, nil
}

func (s *orderService) AdminList(actor authz.Actor) ([]model.Order, error) {
	if !authz.Can(actor, authz.ActionManageOrders, nil) {
		return nil, ErrAdminOnly
	}
	return s.orderRepo.FindAll()
}

// AdminUpdateStatus sets the order status. An empty status keeps the current
// one. Only Delivered has a side effect: it stamps the delivery.
func (s *orderService) AdminUpdateStatus(actor authz.Actor, id uint, status string) (*model.Order, error) {
	if !authz.Can(actor, authz.ActionManageOrders, nil) {
		return nil, ErrAdminOnly
	}

	order, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if status != "" {
		next, err := parseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		order.ApplyStatus(next, s.now())
	}

	if err := s.orderRepo.Save(order); err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id":  id,
		"status":    order.Status,
		"delivered": order.IsDelivered,
		"admin_id":  actor.UserID,
	})
	return order, nil
}

func (s *orderService) AdminDelete(actor authz.Actor, id uint) error {
	if !authz.Can(actor, authz.ActionManageOrders, nil) {
		return ErrAdminOnly
	}
	if err := s.orderRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	logger.Info("Order deleted", map[string]interface{}{
		"order_id": id,
		"admin_id": actor.UserID,
	})
	return nil
}

// AdminExport writes every order, newest first, to a single-sheet workbook.
// The caller owns the returned file.
func (s *orderService) AdminExport(actor authz.Actor) (*excelize.File, error) {
	orders, err := s.AdminList(actor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), orderExportSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(orderExportSheet, "A1", &orderExportHeader); err != nil {
		f.Close()
		return nil, err
	}

	for i, o := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		row := orderExportRow(o)
		if err := f.SetSheetRow(orderExportSheet, cell, &row); err != nil {
			f.Close()
			return nil, err
		}
	}

	logger.Info("Orders exported", map[string]interface{}{
		"count":    len(orders),
		"admin_id": actor.UserID,
	})
	return f, nil
}

func orderExportRow(o model.Order) []interface{} {
	var name, email string
	if o.User != nil {
		name, email = o.User.Name, o.User.Email
	}

	items := make([]string, 0, len(o.OrderItems))
	for _, item := range o.OrderItems {
		items = append(items, fmt.Sprintf("%s (%s/%s) x%d", item.Name, item.Color, item.Size, item.Quantity))
	}

	total, _ := o.TotalPrice.Float64()
	return []interface{}{
		o.ID,
		o.CheckoutID,
		name,
		email,
		strings.Join(items, "; "),
		total,
		o.PaymentMethod,
		o.PaymentStatus,
		string(o.Status),
		formatExportTime(o.PaidAt),
		o.IsDelivered,
		formatExportTime(o.DeliveredAt),
		o.CreatedAt.Format(time.RFC3339),
	}
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func (s *orderService) find(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return order, nil
}

func parseOrderStatus(status string) (model.OrderStatus, error) {
	switch s := model.OrderStatus(status); s {
	case model.OrderProcessing, model.OrderShipped, model.OrderDelivered, model.OrderCancelled:
		return s, nil
	}
	return "", ErrInvalidOrderStatus
}
