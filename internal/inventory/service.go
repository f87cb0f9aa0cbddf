package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/pkg/db"
	"github.com/mazraaty/backend/pkg/db/models"
	"github.com/mazraaty/backend/pkg/enums"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/pagination"
)

// LevelDTO is the back office view of current stock for a product.
type LevelDTO struct {
	ProductID         uuid.UUID `json:"product_id"`
	OnHand            int       `json:"on_hand"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
}

// TransactionDTO is one ledger entry.
type TransactionDTO struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"product_id"`
	Type      string     `json:"type"`
	Delta     int        `json:"delta"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TransactionListResult is one ledger page plus the next cursor.
type TransactionListResult struct {
	Items      []TransactionDTO `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ReconcileResult reports one product's ledger replay outcome.
type ReconcileResult struct {
	ProductID uuid.UUID `json:"product_id"`
	LedgerSum int       `json:"ledger_sum"`
	CachedQty int       `json:"cached_qty"`
	Drifted   bool      `json:"drifted"`
	Repaired  bool      `json:"repaired"`
}

// ApplyInput describes one stock movement. Delta is signed: sales and
// negative adjustments subtract, restocks and returns add.
type ApplyInput struct {
	ProductID uuid.UUID
	Type      enums.InventoryTransactionType
	Delta     int
	OrderID   *uuid.UUID
	ActorID   *uuid.UUID
	Reason    *string
}

// RestockNotifier is told when a product moves from zero to positive stock so
// waiting customers can be emailed. Set after construction to break the cycle
// between inventory and notification wiring.
type RestockNotifier interface {
	ProductRestocked(ctx context.Context, productID uuid.UUID)
}

// CrossedIntoStock reports whether a movement took the product from zero to
// positive. level is the post-apply row, so the prior quantity was
// OnHand - delta.
func CrossedIntoStock(level *models.InventoryLevel, delta int) bool {
	return level != nil && delta > 0 && level.OnHand == delta
}

// Service exposes stock movements, reads, and ledger reconciliation.
type Service interface {
	Apply(ctx context.Context, tx *gorm.DB, input ApplyInput) (*models.InventoryLevel, error)
	InitializeProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, initial, lowStockThreshold int, actorID *uuid.UUID) error
	Restock(ctx context.Context, productID uuid.UUID, quantity int, actorID uuid.UUID, reason string) (*LevelDTO, error)
	Adjust(ctx context.Context, productID uuid.UUID, delta int, actorID uuid.UUID, reason string) (*LevelDTO, error)
	GetLevel(ctx context.Context, productID uuid.UUID) (*LevelDTO, error)
	ListTransactions(ctx context.Context, productID uuid.UUID, page pagination.Params) (*TransactionListResult, error)
	Reconcile(ctx context.Context, productID uuid.UUID) (*ReconcileResult, error)
	ReconcileAll(ctx context.Context) ([]ReconcileResult, error)
	SetNotifier(notifier RestockNotifier)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
	notifier RestockNotifier
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

// SetNotifier registers the restock notification hook.
func (s *service) SetNotifier(notifier RestockNotifier) {
	s.notifier = notifier
}

// Apply writes the ledger entry and the cached level in the caller's
// transaction. The level row is locked first, so concurrent checkouts
// serialize per product and the cache can never drift from the ledger within
// a committed transaction.
func (s *service) Apply(ctx context.Context, tx *gorm.DB, input ApplyInput) (*models.InventoryLevel, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory apply requires a transaction")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inventory transaction type")
	}
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}

	repo := s.repo.WithTx(tx)
	level, err := repo.GetLevelForUpdate(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product has no inventory record")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock inventory level")
	}

	next := level.OnHand + input.Delta
	if next < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
			WithDetails(map[string]any{"product_id": input.ProductID, "on_hand": level.OnHand, "requested": -input.Delta})
	}

	txn := &models.InventoryTransaction{
		ProductID: input.ProductID,
		Type:      input.Type,
		Delta:     input.Delta,
		OrderID:   input.OrderID,
		ActorID:   input.ActorID,
		Reason:    input.Reason,
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write ledger entry")
	}

	level.OnHand = next
	if err := repo.SaveLevel(ctx, level); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory level")
	}
	return level, nil
}

// InitializeProduct seeds the level and, for non-zero stock, the opening
// ledger entry inside the product creation transaction.
func (s *service) InitializeProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, initial, lowStockThreshold int, actorID *uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "inventory initialize requires a transaction")
	}
	if initial < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "initial stock cannot be negative")
	}

	repo := s.repo.WithTx(tx)
	level := &models.InventoryLevel{
		ProductID:         productID,
		OnHand:            initial,
		LowStockThreshold: lowStockThreshold,
	}
	if err := repo.CreateLevel(ctx, level); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory level")
	}
	if initial == 0 {
		return nil
	}
	txn := &models.InventoryTransaction{
		ProductID: productID,
		Type:      enums.InventoryTransactionRestock,
		Delta:     initial,
		ActorID:   actorID,
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write opening ledger entry")
	}
	return nil
}

// Restock adds stock and fires the back-in-stock hook when the product was
// previously sold out.
func (s *service) Restock(ctx context.Context, productID uuid.UUID, quantity int, actorID uuid.UUID, reason string) (*LevelDTO, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var wasOut bool
	var level *models.InventoryLevel
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var applyErr error
		input := ApplyInput{
			ProductID: productID,
			Type:      enums.InventoryTransactionRestock,
			Delta:     quantity,
			ActorID:   &actorID,
		}
		if reason != "" {
			input.Reason = &reason
		}
		level, applyErr = s.Apply(ctx, tx, input)
		if applyErr != nil {
			return applyErr
		}
		wasOut = CrossedIntoStock(level, quantity)
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restock")
	}

	if wasOut && s.notifier != nil {
		s.notifier.ProductRestocked(ctx, productID)
	}
	return toLevelDTO(level), nil
}

// Adjust applies a signed manual correction. A positive correction that
// brings a sold-out product back fires the back-in-stock hook, same as a
// restock.
func (s *service) Adjust(ctx context.Context, productID uuid.UUID, delta int, actorID uuid.UUID, reason string) (*LevelDTO, error) {
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}

	var wasOut bool
	var level *models.InventoryLevel
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var applyErr error
		input := ApplyInput{
			ProductID: productID,
			Type:      enums.InventoryTransactionAdjustment,
			Delta:     delta,
			ActorID:   &actorID,
		}
		if reason != "" {
			input.Reason = &reason
		}
		level, applyErr = s.Apply(ctx, tx, input)
		if applyErr != nil {
			return applyErr
		}
		wasOut = CrossedIntoStock(level, delta)
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust inventory")
	}

	if wasOut && s.notifier != nil {
		s.notifier.ProductRestocked(ctx, productID)
	}
	return toLevelDTO(level), nil
}

// GetLevel returns the cached stock for a product.
func (s *service) GetLevel(ctx context.Context, productID uuid.UUID) (*LevelDTO, error) {
	level, err := s.repo.GetLevel(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product has no inventory record")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory level")
	}
	return toLevelDTO(level), nil
}

// ListTransactions pages the product's ledger history.
func (s *service) ListTransactions(ctx context.Context, productID uuid.UUID, page pagination.Params) (*TransactionListResult, error) {
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(page.Limit)

	txns, err := s.repo.ListTransactions(ctx, productID, cursor, pagination.LimitWithBuffer(page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ledger entries")
	}

	result := &TransactionListResult{Items: make([]TransactionDTO, 0, len(txns))}
	for i := range txns {
		if i == limit {
			last := txns[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			break
		}
		result.Items = append(result.Items, toTransactionDTO(&txns[i]))
	}
	return result, nil
}

// Reconcile replays the ledger for one product and repairs a drifted cache.
func (s *service) Reconcile(ctx context.Context, productID uuid.UUID) (*ReconcileResult, error) {
	result := &ReconcileResult{ProductID: productID}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		level, err := repo.GetLevelForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		sum, err := repo.SumDeltas(ctx, productID)
		if err != nil {
			return err
		}

		result.LedgerSum = sum
		result.CachedQty = level.OnHand
		if sum == level.OnHand {
			return nil
		}

		result.Drifted = true
		level.OnHand = sum
		if err := repo.SaveLevel(ctx, level); err != nil {
			return err
		}
		result.Repaired = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product has no inventory record")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile inventory")
	}

	if result.Drifted {
		logCtx := s.logg.WithProductID(ctx, productID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"ledger_sum": result.LedgerSum,
			"cached_qty": result.CachedQty,
		})
		s.logg.Warn(logCtx, "inventory.drift_repaired")
	}
	return result, nil
}

// ReconcileAll replays every product's ledger, collecting failures instead of
// stopping at the first one.
func (s *service) ReconcileAll(ctx context.Context) ([]ReconcileResult, error) {
	levels, err := s.repo.ListLevels(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory levels")
	}

	var errs error
	results := make([]ReconcileResult, 0, len(levels))
	for _, level := range levels {
		result, recErr := s.Reconcile(ctx, level.ProductID)
		if recErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("product %s: %w", level.ProductID, recErr))
			continue
		}
		results = append(results, *result)
	}
	return results, errs
}

func toLevelDTO(level *models.InventoryLevel) *LevelDTO {
	return &LevelDTO{
		ProductID:         level.ProductID,
		OnHand:            level.OnHand,
		LowStockThreshold: level.LowStockThreshold,
		LowStock:          level.OnHand > 0 && level.OnHand <= level.LowStockThreshold,
	}
}

func toTransactionDTO(txn *models.InventoryTransaction) TransactionDTO {
	return TransactionDTO{
		ID:        txn.ID,
		ProductID: txn.ProductID,
		Type:      txn.Type.String(),
		Delta:     txn.Delta,
		OrderID:   txn.OrderID,
		ActorID:   txn.ActorID,
		Reason:    txn.Reason,
		CreatedAt: txn.CreatedAt,
	}
}
