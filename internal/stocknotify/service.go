package stocknotify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/pkg/config"
	"github.com/mazraaty/backend/pkg/db"
	"github.com/mazraaty/backend/pkg/db/models"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/mailer"
)

const dispatchTimeout = 2 * time.Minute

// Service manages back-in-stock subscriptions and their delivery.
type Service interface {
	Subscribe(ctx context.Context, productID uuid.UUID, email, locale string) error
	ProductRestocked(ctx context.Context, productID uuid.UUID)
	SweepPending(ctx context.Context) (int, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]SubscriptionDTO, error)
}

// SubscriptionDTO is one waitlist entry as shown to the back office.
type SubscriptionDTO struct {
	ID         uuid.UUID  `json:"id"`
	ProductID  uuid.UUID  `json:"product_id"`
	Email      string     `json:"email"`
	Locale     string     `json:"locale"`
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type productReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products productReader
	mail     mailer.Mailer
	logg     *logger.Logger
	store    config.StoreConfig
}

// NewService constructs a stock notification service instance.
func NewService(repo *Repository, products productReader, mail mailer.Mailer, logg *logger.Logger, store config.StoreConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stocknotify repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if mail == nil {
		return nil, fmt.Errorf("mailer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		products: products,
		mail:     mail,
		logg:     logg,
		store:    store,
	}, nil
}

// Subscribe registers an email for a sold-out product. Subscribing twice is a
// no-op, not an error.
func (s *service) Subscribe(ctx context.Context, productID uuid.UUID, email, locale string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if locale != "ar" {
		locale = "en"
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsPublished {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.InStock() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "product is in stock")
	}

	sub := &models.StockNotification{
		ProductID: productID,
		Email:     email,
		Locale:    locale,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		if db.IsUniqueViolation(err, "idx_stock_notify_product_email") {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
	}
	return nil
}

// ProductRestocked dispatches waiting notifications off the request path. The
// sweep job re-covers anything lost to a crash here.
func (s *service) ProductRestocked(ctx context.Context, productID uuid.UUID) {
	logCtx := s.logg.WithProductID(context.WithoutCancel(ctx), productID.String())
	go func() {
		dispatchCtx, cancel := context.WithTimeout(logCtx, dispatchTimeout)
		defer cancel()
		if _, err := s.dispatch(dispatchCtx, productID); err != nil {
			s.logg.Error(dispatchCtx, "stocknotify.dispatch_failed", err)
		}
	}()
}

// SweepPending re-dispatches notifications for every subscribed product that
// is back in stock.
func (s *service) SweepPending(ctx context.Context) (int, error) {
	ids, err := s.repo.PendingProductIDs(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending products")
	}

	sent := 0
	for _, productID := range ids {
		product, err := s.products.FindProductByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return sent, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if !product.InStock() {
			continue
		}
		count, err := s.dispatch(ctx, productID)
		sent += count
		if err != nil {
			return sent, err
		}
	}
	return sent, nil
}

// ListForProduct returns the waitlist for one product, sent entries included.
func (s *service) ListForProduct(ctx context.Context, productID uuid.UUID) ([]SubscriptionDTO, error) {
	subs, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	out := make([]SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		out = append(out, SubscriptionDTO{
			ID:         sub.ID,
			ProductID:  sub.ProductID,
			Email:      sub.Email,
			Locale:     sub.Locale,
			NotifiedAt: sub.NotifiedAt,
			CreatedAt:  sub.CreatedAt,
		})
	}
	return out, nil
}

// dispatch emails every waiting subscriber and stamps each one as notified.
// A send failure skips the stamp, so the next sweep retries that subscriber.
func (s *service) dispatch(ctx context.Context, productID uuid.UUID) (int, error) {
	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	subs, err := s.repo.ListPendingByProduct(ctx, productID)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range subs {
		sub := &subs[i]
		subject, body := s.compose(product, sub.Locale)
		if err := s.mail.Send(ctx, sub.Email, subject, body); err != nil {
			logCtx := s.logg.WithProductID(ctx, productID.String())
			s.logg.Error(logCtx, "stocknotify.send_failed", err)
			continue
		}
		if err := s.repo.MarkNotified(ctx, sub.ID, time.Now()); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *service) compose(product *models.Product, locale string) (string, string) {
	name := product.Name.Resolve(locale)
	if locale == "ar" {
		subject := fmt.Sprintf("%s متوفر الآن في %s", name, s.store.NameAR)
		body := fmt.Sprintf(
			"مرحباً،\n\nالمنتج %s الذي طلبت إشعاراً عنه أصبح متوفراً الآن.\n\n%s",
			name, s.store.NameAR,
		)
		return subject, body
	}
	subject := fmt.Sprintf("%s is back in stock at %s", name, s.store.NameEN)
	body := fmt.Sprintf(
		"Hello,\n\n%s you asked to be notified about is available again.\n\n%s",
		name, s.store.NameEN,
	)
	return subject, body
}
