package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/covercraft/covershop/internal/catalog/model"
)

// OrderService owns customers and their orders.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CustomerRequest carries create/update input for a customer.
type CustomerRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

// OrderLineRequest is one cover on an order being created.
type OrderLineRequest struct {
	ModelID         uint     `json:"modelId"`
	MaterialID      uint     `json:"materialId"`
	Colour          *string  `json:"colour"`
	Quantity        int      `json:"quantity"`
	HandleZipper    bool     `json:"handleZipper"`
	TwoInOnePocket  bool     `json:"twoInOnePocket"`
	MusicRestZipper bool     `json:"musicRestZipper"`
	UnitPrice       *float64 `json:"unitPrice"`
}

// OrderRequest carries create input for an order with its lines.
type OrderRequest struct {
	CustomerID             uint               `json:"customerId"`
	Marketplace            *model.Marketplace `json:"marketplace"`
	MarketplaceOrderNumber *string            `json:"marketplaceOrderNumber"`
	OrderDate              *time.Time         `json:"orderDate"`
	Lines                  []OrderLineRequest `json:"lines"`
}

func (s *OrderService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := s.db.WithContext(ctx).Order("name").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *OrderService) GetCustomer(ctx context.Context, id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := s.db.WithContext(ctx).Preload("Orders").First(&customer, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get customer %d: %w", id, err)
	}
	return &customer, nil
}

func (s *OrderService) CreateCustomer(ctx context.Context, req CustomerRequest) (*model.Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("customer name cannot be empty")
	}
	customer := model.Customer{
		Name:    strings.TrimSpace(req.Name),
		Address: req.Address,
		Phone:   req.Phone,
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

func (s *OrderService) UpdateCustomer(ctx context.Context, id uint, req CustomerRequest) (*model.Customer, error) {
	var customer model.Customer
	if err := s.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get customer %d: %w", id, err)
	}
	customer.Name = strings.TrimSpace(req.Name)
	customer.Address = req.Address
	customer.Phone = req.Phone
	if err := s.db.WithContext(ctx).Save(&customer).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return &customer, nil
}

// DeleteCustomer removes the customer; the FK cascade takes their orders and
// order lines with them.
func (s *OrderService) DeleteCustomer(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Customer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("customer %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *OrderService) ListOrders(ctx context.Context, customerID *uint) ([]model.Order, error) {
	query := s.db.WithContext(ctx).Preload("Lines").Order("order_date DESC")
	if customerID != nil {
		query = query.Where("customer_id = ?", *customerID)
	}
	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).Preload("Lines").First(&order, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, nil
}

// CreateOrder persists an order and all its lines in one transaction. Line
// models and materials are checked up front so a bad reference aborts the
// whole order.
func (s *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (*model.Order, error) {
	if len(req.Lines) == 0 {
		return nil, ErrOrderHasNoLines
	}
	for i, line := range req.Lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("line %d: %w", i, ErrInvalidQuantity)
		}
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.Customer{}, req.CustomerID).Error; err != nil {
			return fmt.Errorf("failed to get customer %d: %w", req.CustomerID, err)
		}

		orderDate := time.Now().UTC()
		if req.OrderDate != nil {
			orderDate = *req.OrderDate
		}

		order = &model.Order{
			CustomerID:             req.CustomerID,
			Marketplace:            req.Marketplace,
			MarketplaceOrderNumber: req.MarketplaceOrderNumber,
			OrderDate:              orderDate,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i, lineReq := range req.Lines {
			if err := tx.First(&model.Model{}, lineReq.ModelID).Error; err != nil {
				return fmt.Errorf("line %d: failed to get model %d: %w", i, lineReq.ModelID, err)
			}
			if err := tx.First(&model.Material{}, lineReq.MaterialID).Error; err != nil {
				return fmt.Errorf("line %d: failed to get material %d: %w", i, lineReq.MaterialID, err)
			}

			line := model.OrderLine{
				OrderID:         order.ID,
				ModelID:         lineReq.ModelID,
				MaterialID:      lineReq.MaterialID,
				Colour:          lineReq.Colour,
				Quantity:        lineReq.Quantity,
				HandleZipper:    lineReq.HandleZipper,
				TwoInOnePocket:  lineReq.TwoInOnePocket,
				MusicRestZipper: lineReq.MusicRestZipper,
				UnitPrice:       lineReq.UnitPrice,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("line %d: failed to create order line: %w", i, err)
			}
			order.Lines = append(order.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.First(&order, id).Error; err != nil {
			return fmt.Errorf("failed to get order %d: %w", id, err)
		}
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderLine{}).Error; err != nil {
			return fmt.Errorf("failed to delete order lines: %w", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}
