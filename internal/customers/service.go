package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/internal/users"
	"github.com/mazraaty/backend/pkg/db/models"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/logger"
	"github.com/mazraaty/backend/pkg/pagination"
)

// CustomerDTO is the back office view of one storefront account.
type CustomerDTO struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Phone           *string    `json:"phone,omitempty"`
	PreferredLocale string     `json:"preferred_locale"`
	IsActive        bool       `json:"is_active"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	OrderCount      int64      `json:"order_count"`
	TotalSpent      string     `json:"total_spent"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CustomerListResult is one page plus the next cursor.
type CustomerListResult struct {
	Items      []CustomerDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ListInput holds back office customer listing filters.
type ListInput struct {
	Search     string
	ActiveOnly bool
	Page       pagination.Params
}

// Service exposes back office customer management.
type Service interface {
	List(ctx context.Context, input ListInput) (*CustomerListResult, error)
	Get(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error)
	SetActive(ctx context.Context, customerID uuid.UUID, active bool) (*CustomerDTO, error)
}

type service struct {
	repo *users.Repository
	logg *logger.Logger
}

// NewService constructs a customers service instance.
func NewService(repo *users.Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// List pages customer accounts. The listing stays cheap: purchase stats are
// loaded on the detail view only.
func (s *service) List(ctx context.Context, input ListInput) (*CustomerListResult, error) {
	cursor, err := pagination.ParseCursor(input.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Page.Limit)

	filter := users.ListFilter{Search: input.Search, ActiveOnly: input.ActiveOnly}
	accounts, err := s.repo.List(ctx, filter, cursor, pagination.LimitWithBuffer(input.Page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	result := &CustomerListResult{Items: make([]CustomerDTO, 0, len(accounts))}
	for i := range accounts {
		if i == limit {
			last := accounts[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			break
		}
		result.Items = append(result.Items, toDTO(&accounts[i], nil))
	}
	return result, nil
}

// Get loads one customer with purchase stats.
func (s *service) Get(ctx context.Context, customerID uuid.UUID) (*CustomerDTO, error) {
	account, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	stats, err := s.repo.StatsFor(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer stats")
	}
	dto := toDTO(account, stats)
	return &dto, nil
}

// SetActive enables or disables sign-in for an account.
func (s *service) SetActive(ctx context.Context, customerID uuid.UUID, active bool) (*CustomerDTO, error) {
	account, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if account.IsActive != active {
		account.IsActive = active
		if err := s.repo.Save(ctx, account); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save customer")
		}
		logCtx := s.logg.WithUserID(ctx, customerID.String())
		logCtx = s.logg.WithField(logCtx, "active", active)
		s.logg.Info(logCtx, "customer.active_changed")
	}
	dto := toDTO(account, nil)
	return &dto, nil
}

func (s *service) load(ctx context.Context, customerID uuid.UUID) (*models.User, error) {
	account, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if account.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return account, nil
}

func toDTO(account *models.User, stats *users.OrderStats) CustomerDTO {
	dto := CustomerDTO{
		ID:              account.ID,
		Email:           account.Email,
		FirstName:       account.FirstName,
		LastName:        account.LastName,
		Phone:           account.Phone,
		PreferredLocale: account.PreferredLocale,
		IsActive:        account.IsActive,
		LastLoginAt:     account.LastLoginAt,
		TotalSpent:      "0",
		CreatedAt:       account.CreatedAt,
	}
	if stats != nil {
		dto.OrderCount = stats.OrderCount
		dto.TotalSpent = stats.TotalSpent
	}
	return dto
}
