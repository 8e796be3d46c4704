// Package billing contains the application services for commission rate
// configuration and settlement.
package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/billing"
	"github.com/orderhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RateConfigService manages commission rate configurations
type RateConfigService struct {
	configs   billing.RateConfigRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewRateConfigService creates a new RateConfigService
func NewRateConfigService(configs billing.RateConfigRepository, publisher shared.EventPublisher, logger *zap.Logger) *RateConfigService {
	return &RateConfigService{
		configs:   configs,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates an inactive rate config. Configs take part in rate
// resolution only after activation.
func (s *RateConfigService) Create(ctx context.Context, req CreateRateConfigRequest) (*RateConfigResponse, error) {
	config, err := billing.NewRateConfig(req.SupplierID, req.Name, req.BaseRate, req.MinFee, req.MaxFee, req.EffectiveFrom, req.EffectiveTo)
	if err != nil {
		return nil, err
	}

	if err := s.configs.Save(ctx, config); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, config)

	s.logger.Info("rate config created",
		zap.String("config_id", config.ID.String()),
		zap.String("name", config.Name),
		zap.Bool("platform_default", config.SupplierID == nil),
	)

	resp := ToRateConfigResponse(config)
	return &resp, nil
}

// GetByID returns a rate config by ID
func (s *RateConfigService) GetByID(ctx context.Context, id uuid.UUID) (*RateConfigResponse, error) {
	config, err := s.configs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRateConfigResponse(config)
	return &resp, nil
}

// List returns rate configs: a supplier's configs, or the platform
// defaults when no supplier is given
func (s *RateConfigService) List(ctx context.Context, filter RateConfigListFilter) (*shared.Paginated[RateConfigResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}

	var (
		configs []billing.RateConfig
		total   int64
		err     error
	)
	if filter.SupplierID != nil {
		configs, total, err = s.configs.FindBySupplier(ctx, *filter.SupplierID, f)
	} else {
		configs, total, err = s.configs.FindPlatformDefaults(ctx, f)
	}
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToRateConfigResponses(configs), total, f.Page, f.PageSize)
	return &result, nil
}

// AddTier adds a GMV band to a config
func (s *RateConfigService) AddTier(ctx context.Context, configID uuid.UUID, req AddTierRequest) (*RateConfigResponse, error) {
	return s.transition(ctx, configID, func(config *billing.RateConfig) error {
		_, err := config.AddTier(req.MinGMV, req.MaxGMV, req.Rate)
		return err
	})
}

// RemoveTier removes a GMV band from a config
func (s *RateConfigService) RemoveTier(ctx context.Context, configID, tierID uuid.UUID) (*RateConfigResponse, error) {
	return s.transition(ctx, configID, func(config *billing.RateConfig) error {
		return config.RemoveTier(tierID)
	})
}

// SetPromo sets a promotional rate window on a config
func (s *RateConfigService) SetPromo(ctx context.Context, configID uuid.UUID, req SetPromoRequest) (*RateConfigResponse, error) {
	return s.transition(ctx, configID, func(config *billing.RateConfig) error {
		return config.SetPromo(req.Rate, req.From, req.To)
	})
}

// ClearPromo removes the promotional rate from a config
func (s *RateConfigService) ClearPromo(ctx context.Context, configID uuid.UUID) (*RateConfigResponse, error) {
	return s.transition(ctx, configID, func(config *billing.RateConfig) error {
		config.ClearPromo()
		return nil
	})
}

// Activate makes the config eligible for rate resolution
func (s *RateConfigService) Activate(ctx context.Context, configID uuid.UUID) (*RateConfigResponse, error) {
	return s.transition(ctx, configID, (*billing.RateConfig).Activate)
}

// Deactivate withdraws the config from rate resolution
func (s *RateConfigService) Deactivate(ctx context.Context, configID uuid.UUID) (*RateConfigResponse, error) {
	return s.transition(ctx, configID, (*billing.RateConfig).Deactivate)
}

func (s *RateConfigService) transition(ctx context.Context, configID uuid.UUID, apply func(*billing.RateConfig) error) (*RateConfigResponse, error) {
	config, err := s.configs.FindByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	if err := apply(config); err != nil {
		return nil, err
	}
	if err := s.configs.Save(ctx, config); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, config)

	resp := ToRateConfigResponse(config)
	return &resp, nil
}

func (s *RateConfigService) publishEvents(ctx context.Context, config *billing.RateConfig) {
	events := config.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish rate config events",
			zap.String("config_id", config.ID.String()),
			zap.Error(err),
		)
	}
	config.ClearDomainEvents()
}
