package addresses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mazraaty/backend/pkg/db"
	"github.com/mazraaty/backend/pkg/db/models"
	pkgerrors "github.com/mazraaty/backend/pkg/errors"
	"github.com/mazraaty/backend/pkg/types"
)

const maxAddressesPerUser = 20

// AddressDTO is one saved shipping destination.
type AddressDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Line1      string    `json:"line1"`
	Line2      *string   `json:"line2,omitempty"`
	City       string    `json:"city"`
	Region     string    `json:"region"`
	PostalCode *string   `json:"postal_code,omitempty"`
	Country    string    `json:"country"`
	Phone      string    `json:"phone"`
	IsDefault  bool      `json:"is_default"`
}

// Input holds the payload to create or update an address.
type Input struct {
	Name       string
	Line1      string
	Line2      *string
	City       string
	Region     string
	PostalCode *string
	Country    string
	Phone      string
	IsDefault  bool
}

// Service exposes saved address management for signed-in customers.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Get(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input Input) (*AddressDTO, error)
	Update(ctx context.Context, userID, addressID uuid.UUID, input Input) (*AddressDTO, error)
	Delete(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error)
	SaveSnapshot(ctx context.Context, userID uuid.UUID, snapshot types.AddressSnapshot) error
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs an addresses service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("addresses repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// List returns the user's addresses, default first.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	addrs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	dtos := make([]AddressDTO, 0, len(addrs))
	for i := range addrs {
		dtos = append(dtos, toDTO(&addrs[i]))
	}
	return dtos, nil
}

// Get loads one address owned by the user.
func (s *service) Get(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	addr, err := s.repo.FindByID(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	dto := toDTO(addr)
	return &dto, nil
}

// Create saves a new address. The user's first address becomes the default
// automatically; an explicit default displaces the current one in the same
// transaction.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*AddressDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count addresses")
	}
	if count >= maxAddressesPerUser {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "address book is full")
	}

	addr := fromInput(userID, input)
	addr.IsDefault = input.IsDefault || count == 0

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if addr.IsDefault {
			if clearErr := repo.ClearDefault(ctx, userID); clearErr != nil {
				return clearErr
			}
		}
		return repo.Create(ctx, addr)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	dto := toDTO(addr)
	return &dto, nil
}

// Update rewrites an address in place.
func (s *service) Update(ctx context.Context, userID, addressID uuid.UUID, input Input) (*AddressDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	addr, err := s.repo.FindByID(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}

	wasDefault := addr.IsDefault
	applyInput(addr, input)
	addr.IsDefault = wasDefault || input.IsDefault

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault && !wasDefault {
			if clearErr := repo.ClearDefault(ctx, userID); clearErr != nil {
				return clearErr
			}
		}
		return repo.Save(ctx, addr)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
	}
	dto := toDTO(addr)
	return &dto, nil
}

// Delete removes an address. Deleting the default promotes the newest
// remaining address so the customer always has one preselected.
func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	addr, err := s.repo.FindByID(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if delErr := repo.Delete(ctx, userID, addressID); delErr != nil {
			return delErr
		}
		if !addr.IsDefault {
			return nil
		}
		remaining, listErr := repo.ListByUser(ctx, userID)
		if listErr != nil {
			return listErr
		}
		if len(remaining) == 0 {
			return nil
		}
		next := remaining[0]
		next.IsDefault = true
		return repo.Save(ctx, &next)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return nil
}

// SetDefault marks one address as the default and unsets the rest.
func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressDTO, error) {
	addr, err := s.repo.FindByID(ctx, userID, addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	if addr.IsDefault {
		dto := toDTO(addr)
		return &dto, nil
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if clearErr := repo.ClearDefault(ctx, userID); clearErr != nil {
			return clearErr
		}
		addr.IsDefault = true
		return repo.Save(ctx, addr)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default address")
	}
	dto := toDTO(addr)
	return &dto, nil
}

// SaveSnapshot stores a checkout shipping address into the user's address
// book. Skipped silently when the book already holds an identical entry.
func (s *service) SaveSnapshot(ctx context.Context, userID uuid.UUID, snapshot types.AddressSnapshot) error {
	addrs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	for i := range addrs {
		if matchesSnapshot(&addrs[i], snapshot) {
			return nil
		}
	}
	if len(addrs) >= maxAddressesPerUser {
		return pkgerrors.New(pkgerrors.CodeConflict, "address book is full")
	}

	input := Input{
		Name:    snapshot.Name,
		Line1:   snapshot.Line1,
		City:    snapshot.City,
		Region:  snapshot.Region,
		Country: snapshot.Country,
		Phone:   snapshot.Phone,
	}
	if snapshot.Line2 != "" {
		line2 := snapshot.Line2
		input.Line2 = &line2
	}
	if snapshot.PostalCode != "" {
		postal := snapshot.PostalCode
		input.PostalCode = &postal
	}
	_, err = s.Create(ctx, userID, input)
	return err
}

func validateInput(input Input) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case strings.TrimSpace(input.Line1) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "line1 is required")
	case strings.TrimSpace(input.City) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	case strings.TrimSpace(input.Phone) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	return nil
}

func fromInput(userID uuid.UUID, input Input) *models.Address {
	addr := &models.Address{UserID: userID}
	applyInput(addr, input)
	return addr
}

func applyInput(addr *models.Address, input Input) {
	addr.Name = strings.TrimSpace(input.Name)
	addr.Line1 = strings.TrimSpace(input.Line1)
	addr.Line2 = input.Line2
	addr.City = strings.TrimSpace(input.City)
	addr.Region = strings.TrimSpace(input.Region)
	addr.PostalCode = input.PostalCode
	addr.Phone = strings.TrimSpace(input.Phone)
	if country := strings.TrimSpace(input.Country); country != "" {
		addr.Country = strings.ToUpper(country)
	} else if addr.Country == "" {
		addr.Country = "OM"
	}
}

func matchesSnapshot(addr *models.Address, snapshot types.AddressSnapshot) bool {
	return strings.EqualFold(addr.Name, snapshot.Name) &&
		strings.EqualFold(addr.Line1, snapshot.Line1) &&
		strings.EqualFold(addr.City, snapshot.City) &&
		strings.EqualFold(addr.Phone, snapshot.Phone)
}

func toDTO(addr *models.Address) AddressDTO {
	return AddressDTO{
		ID:         addr.ID,
		Name:       addr.Name,
		Line1:      addr.Line1,
		Line2:      addr.Line2,
		City:       addr.City,
		Region:     addr.Region,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
		Phone:      addr.Phone,
		IsDefault:  addr.IsDefault,
	}
}
