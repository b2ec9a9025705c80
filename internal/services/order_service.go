package services

import (
	"fmt"
	"log"
	"time"

	"bidmaster/internal/models"
	"bidmaster/internal/repositories"
	"bidmaster/pkg/rabbitmq"
)

// OrderService handles business logic related to orders after creation:
// status transitions, cancellation, and return/exchange requests. It is the
// only writer to the order collection besides the checkout flow; every
// mutation is a load-validate-update cycle guarded by the repository's
// optimistic version check.
type OrderService struct {
	orderRepo repositories.OrderRepository
	mqClient  *rabbitmq.Client
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, mqClient *rabbitmq.Client) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		mqClient:  mqClient,
	}
}

// GetAllOrders retrieves all orders, newest first. Admin surface.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersByUser retrieves a user's orders, newest first.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// UpdateStatus moves an order forward through the fulfillment chain
// (pending -> confirmed -> shipped -> delivered). Intermediate states may
// be skipped, re-applying the current status is a no-op beyond updatedAt,
// and anything else fails with ErrInvalidTransition. DeliveredAt is set the
// first time the order reaches delivered.
func (s *OrderService) UpdateStatus(id string, newStatus models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !order.CanAdvanceTo(newStatus) {
		return nil, fmt.Errorf("order %s cannot move from %s to %s: %w",
			id, order.Status, newStatus, models.ErrInvalidTransition)
	}

	order.Status = newStatus
	if newStatus == models.OrderStatusDelivered && order.DeliveredAt == nil {
		now := time.Now()
		order.DeliveredAt = &now
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	s.publish(rabbitmq.EventOrderStatusUpdated, order, nil)
	return order, nil
}

// Cancel cancels an order with a reason, recording who cancelled it.
// Delivered and already-cancelled orders cannot be cancelled.
func (s *OrderService) Cancel(id, reason string, cancelledBy models.Actor) (*models.Order, error) {
	if reason == "" {
		return nil, models.NewValidationError("reason", "cancellation reason is required")
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !order.Cancellable() {
		return nil, fmt.Errorf("order %s in status %s cannot be cancelled: %w",
			id, order.Status, models.ErrInvalidTransition)
	}

	now := time.Now()
	order.Status = models.OrderStatusCancelled
	order.CancellationReason = reason
	order.CancelledAt = &now
	order.CancelledBy = cancelledBy

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to cancel order %s: %w", id, err)
	}

	s.publish(rabbitmq.EventOrderCancelled, order, map[string]interface{}{
		"reason":      reason,
		"cancelledBy": cancelledBy,
	})
	return order, nil
}

// RequestReturn attaches a return or exchange request to a delivered order.
// Only one request may ever be attached.
func (s *OrderService) RequestReturn(id string, returnType models.ReturnType, reason string) (*models.Order, error) {
	if returnType != models.ReturnTypeReturn && returnType != models.ReturnTypeExchange {
		return nil, models.NewValidationError("type", "request type must be return or exchange")
	}
	if reason == "" {
		return nil, models.NewValidationError("reason", "return reason is required")
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusDelivered {
		return nil, fmt.Errorf("order %s is not delivered: %w", id, models.ErrInvalidTransition)
	}
	if order.ReturnRequest != nil {
		return nil, fmt.Errorf("order %s already has a return request: %w", id, models.ErrInvalidTransition)
	}

	order.ReturnRequest = &models.ReturnRequest{
		Type:        returnType,
		Reason:      reason,
		Status:      models.ReturnStatusPending,
		RequestedAt: time.Now(),
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to attach return request to order %s: %w", id, err)
	}

	s.publish(rabbitmq.EventOrderReturnRequested, order, map[string]interface{}{
		"type":   returnType,
		"reason": reason,
	})
	return order, nil
}

// ResolveReturn approves or rejects a pending return/exchange request.
func (s *OrderService) ResolveReturn(id string, decision models.ReturnStatus) (*models.Order, error) {
	if decision != models.ReturnStatusApproved && decision != models.ReturnStatusRejected {
		return nil, models.NewValidationError("decision", "decision must be approved or rejected")
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if order.ReturnRequest == nil || order.ReturnRequest.Status != models.ReturnStatusPending {
		return nil, fmt.Errorf("order %s has no pending return request: %w", id, models.ErrInvalidTransition)
	}

	order.ReturnRequest.Status = decision

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to resolve return request for order %s: %w", id, err)
	}

	s.publish(rabbitmq.EventOrderReturnResolved, order, map[string]interface{}{
		"decision": decision,
	})
	return order, nil
}

// publish emits an order lifecycle event, best-effort.
func (s *OrderService) publish(event string, order *models.Order, extra map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	payload := map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"status":  order.Status,
	}
	for k, v := range extra {
		payload[k] = v
	}
	if err := s.mqClient.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}
