package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/invoiced/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClientServiceParam bundles the client service dependencies.
type ClientServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

// ClientStore implements domain.ClientService.
type ClientStore struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

// NewClientService builds the client service.
func NewClientService(p ClientServiceParam) domain.ClientService {
	return &ClientStore{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
	}
}

func (s *ClientStore) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return domain.Client{}, domain.ErrInvalidRequest
	}

	client := domain.Client{
		ID:    s.genID.Generate(),
		Name:  name,
		Email: email,
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *ClientStore) Update(ctx context.Context, id snowflake.ID, req domain.UpdateClientRequest) (domain.Client, error) {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return domain.Client{}, domain.ErrInvalidRequest
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		if strings.TrimSpace(*req.Email) == "" {
			return domain.Client{}, domain.ErrInvalidRequest
		}
		updates["email"] = strings.TrimSpace(*req.Email)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&domain.Client{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return domain.Client{}, err
		}
	}
	return s.GetByID(ctx, client.ID)
}

func (s *ClientStore) GetByID(ctx context.Context, id snowflake.ID) (domain.Client, error) {
	var client domain.Client
	err := s.db.WithContext(ctx).First(&client, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Client{}, domain.NewNotFound("client", id.String())
	}
	if err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *ClientStore) List(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := s.db.WithContext(ctx).Order("name asc").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// Delete removes a client with no invoices. Clients referenced by invoices
// are kept; the caller gets a validation failure.
func (s *ClientStore) Delete(ctx context.Context, id snowflake.ID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Invoice{}).Where("client_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrInvalidRequest
	}

	return s.db.WithContext(ctx).Delete(&domain.Client{}, "id = ?", id).Error
}
