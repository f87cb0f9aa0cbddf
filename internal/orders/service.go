package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/internal/inventory"
	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db"
	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/enums"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/pagination"
)

// AdminListInput holds back office order listing filters.
type AdminListInput struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	Number        string
	Page          pagination.Params
}

// Service exposes customer order history and back office order management.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID, locale string, page pagination.Params) (*OrderListResult, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID, locale string) (*OrderDTO, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID, locale string) (*OrderDTO, error)

	AdminList(ctx context.Context, input AdminListInput) (*AdminOrderListResult, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*AdminOrderDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actorID uuid.UUID, note *string) (*AdminOrderDTO, error)
	AdminUpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, next enums.PaymentStatus, actorID uuid.UUID) (*AdminOrderDTO, error)
	AdminUpdateNotes(ctx context.Context, orderID uuid.UUID, notes *string) (*AdminOrderDTO, error)

	SetNotifier(notifier inventory.RestockNotifier)
}

// stockApplier restores stock inside the cancellation transaction.
type stockApplier interface {
	Apply(ctx context.Context, tx *gorm.DB, input inventory.ApplyInput) (*models.InventoryLevel, error)
}

type service struct {
	repo     *Repository
	stock    stockApplier
	notifier inventory.RestockNotifier
	dbClient *db.Client
	logg     *logger.Logger
	places   int
}

// NewService constructs an orders service instance.
func NewService(repo *Repository, stock stockApplier, dbClient *db.Client, logg *logger.Logger, cfg config.CurrencyConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock applier required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		stock:    stock,
		dbClient: dbClient,
		logg:     logg,
		places:   cfg.DecimalPlaces,
	}, nil
}

// SetNotifier registers the back-in-stock hook fired when a cancellation
// brings a sold-out product back.
func (s *service) SetNotifier(notifier inventory.RestockNotifier) {
	s.notifier = notifier
}

// ListMine pages the customer's own orders, newest first.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID, locale string, page pagination.Params) (*OrderListResult, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(page.Limit)

	ords, err := s.repo.List(ctx, ListFilter{UserID: &userID}, cursor, pagination.LimitWithBuffer(page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &OrderListResult{Items: make([]OrderDTO, 0, len(ords))}
	for i := range ords {
		if i == limit {
			last := ords[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			break
		}
		result.Items = append(result.Items, *NewOrderDTO(&ords[i], locale, s.places))
	}
	return result, nil
}

// GetMine loads one order, enforcing ownership.
func (s *service) GetMine(ctx context.Context, userID, orderID uuid.UUID, locale string) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order, locale, s.places), nil
}

// Cancel lets the customer abort an order that has not shipped. Stock moves
// back through cancellation ledger entries in the same transaction that flips
// the status.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID, locale string) (*OrderDTO, error) {
	if _, err := s.loadOwned(ctx, userID, orderID); err != nil {
		return nil, err
	}

	actor := userID
	err := s.transition(ctx, orderID, enums.OrderStatusCancelled, &actor, nil, func(order *models.Order) error {
		if order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusProcessing {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
				WithDetails(map[string]any{"status": order.Status.String()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetMine(ctx, userID, orderID, locale)
}

// AdminList pages all orders with optional filters.
func (s *service) AdminList(ctx context.Context, input AdminListInput) (*AdminOrderListResult, error) {
	cursor, err := pagination.ParseCursor(input.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Page.Limit)

	filter := ListFilter{
		Status:        input.Status,
		PaymentStatus: input.PaymentStatus,
		Number:        input.Number,
	}
	ords, err := s.repo.List(ctx, filter, cursor, pagination.LimitWithBuffer(input.Page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &AdminOrderListResult{Items: make([]AdminOrderDTO, 0, len(ords))}
	for i := range ords {
		if i == limit {
			last := ords[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			break
		}
		result.Items = append(result.Items, *toAdminDTO(&ords[i], s.places))
	}
	return result, nil
}

// AdminGet loads the full order with audit history.
func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (*AdminOrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return toAdminDTO(order, s.places), nil
}

// AdminUpdateStatus moves an order along the fulfillment path. Cancelling
// restores stock.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actorID uuid.UUID, note *string) (*AdminOrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if err := s.transition(ctx, orderID, next, &actorID, note, nil); err != nil {
		return nil, err
	}
	return s.AdminGet(ctx, orderID)
}

// AdminUpdatePaymentStatus moves the payment state machine.
func (s *service) AdminUpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, next enums.PaymentStatus, actorID uuid.UUID) (*AdminOrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.PaymentStatus == next {
			return nil
		}
		if !order.PaymentStatus.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment status transition not allowed").
				WithDetails(map[string]any{"from": order.PaymentStatus.String(), "to": next.String()})
		}
		order.PaymentStatus = next
		return repo.Save(ctx, order)
	})
	if err != nil {
		return nil, s.mapTxError(err, "update payment status")
	}

	logCtx := s.logg.WithOrderID(ctx, orderID.String())
	s.logg.Info(logCtx, "order.payment_status_updated")
	return s.AdminGet(ctx, orderID)
}

// AdminUpdateNotes replaces the free-form note on an order.
func (s *service) AdminUpdateNotes(ctx context.Context, orderID uuid.UUID, notes *string) (*AdminOrderDTO, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		order.Notes = notes
		return repo.Save(ctx, order)
	})
	if err != nil {
		return nil, s.mapTxError(err, "update order notes")
	}
	return s.AdminGet(ctx, orderID)
}

// transition applies one status change with its audit row. The extra guard
// runs after the row lock, so checks see the current state.
func (s *service) transition(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus, actorID *uuid.UUID, note *string, guard func(*models.Order) error) error {
	var from enums.OrderStatus
	var restocked []uuid.UUID
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if guard != nil {
			if guardErr := guard(order); guardErr != nil {
				return guardErr
			}
		}
		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
				WithDetails(map[string]any{"from": order.Status.String(), "to": next.String()})
		}

		from = order.Status
		if next == enums.OrderStatusCancelled {
			ids, restoreErr := s.restoreStock(ctx, tx, order, actorID)
			if restoreErr != nil {
				return restoreErr
			}
			restocked = ids
		}

		order.Status = next
		if err := repo.Save(ctx, order); err != nil {
			return err
		}
		return repo.CreateStatusEvent(ctx, &models.OrderStatusEvent{
			OrderID:    orderID,
			FromStatus: from,
			ToStatus:   next,
			ActorID:    actorID,
			Note:       note,
		})
	})
	if err != nil {
		return s.mapTxError(err, "update order status")
	}

	s.notifyRestocked(ctx, restocked)

	logCtx := s.logg.WithOrderID(ctx, orderID.String())
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"from": from.String(),
		"to":   next.String(),
	})
	s.logg.Info(logCtx, "order.status_updated")
	return nil
}

// restoreStock writes cancellation ledger entries for every line and reports
// which products the restore took from zero back to positive.
func (s *service) restoreStock(ctx context.Context, tx *gorm.DB, order *models.Order, actorID *uuid.UUID) ([]uuid.UUID, error) {
	items, err := s.repo.WithTx(tx).FindItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	var restocked []uuid.UUID
	for i := range items {
		item := &items[i]
		level, err := s.stock.Apply(ctx, tx, inventory.ApplyInput{
			ProductID: item.ProductID,
			Type:      enums.InventoryTransactionCancellation,
			Delta:     item.Quantity,
			OrderID:   &order.ID,
			ActorID:   actorID,
		})
		if err != nil {
			return nil, err
		}
		if inventory.CrossedIntoStock(level, item.Quantity) {
			restocked = append(restocked, item.ProductID)
		}
	}
	return restocked, nil
}

// notifyRestocked runs after the cancellation commits, mirroring the restock
// path: waiting customers only hear about stock that exists.
func (s *service) notifyRestocked(ctx context.Context, productIDs []uuid.UUID) {
	if s.notifier == nil {
		return
	}
	for _, productID := range productIDs {
		s.notifier.ProductRestocked(ctx, productID)
	}
}

func (s *service) loadOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) mapTxError(err error, action string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
