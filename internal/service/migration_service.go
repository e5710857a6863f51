package service

import (
	"context"
	"fmt"

	"github.com/shemaparfait19/centurysoapv2/internal/dto"
	"github.com/shemaparfait19/centurysoapv2/internal/model"
	"github.com/shemaparfait19/centurysoapv2/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// legacyPhoneSentinel marks customers synthesized from the old free-text
// client name field, which carried no phone number.
const legacyPhoneSentinel = "N/A"

// MigrationService rewrites sale records stored in the old single-product
// shape into the current items-array shape.
type MigrationService interface {
	// MigrateLegacySales is idempotent: records that already carry items are
	// never selected, so a second run finds nothing to do.
	MigrateLegacySales(ctx context.Context) (*dto.MigrateResponse, error)
}

type migrationService struct {
	repo repository.SaleRepository
}

func NewMigrationService(repo repository.SaleRepository) MigrationService {
	return &migrationService{repo: repo}
}

func (s *migrationService) MigrateLegacySales(ctx context.Context) (*dto.MigrateResponse, error) {
	legacy, err := s.repo.ListLegacy(ctx)
	if err != nil {
		return nil, err
	}

	migrated := 0
	for i := range legacy {
		sale := &legacy[i]

		item := &model.SaleItem{SaleID: sale.ID}
		if sale.LegacyProduct != nil {
			item.Product = *sale.LegacyProduct
		}
		if sale.LegacySize != nil {
			item.Size = *sale.LegacySize
		}
		if sale.LegacyQuantity != nil {
			item.Quantity = *sale.LegacyQuantity
		}
		if sale.LegacyUnitPrice != nil {
			item.UnitPrice = *sale.LegacyUnitPrice
		}
		if sale.LegacyTotal != nil {
			item.Total = *sale.LegacyTotal
		}

		sale.CustomerName = "Legacy Customer"
		if sale.LegacyClient != nil && *sale.LegacyClient != "" {
			sale.CustomerName = *sale.LegacyClient
		}
		sale.CustomerPhone = legacyPhoneSentinel
		sale.GrandTotal = decimal.Zero
		if sale.LegacyTotal != nil {
			sale.GrandTotal = *sale.LegacyTotal
		}

		if err := s.repo.SaveMigrated(ctx, sale, item); err != nil {
			// Keep sweeping: a failed record stays legacy and is retried
			// on the next run.
			log.Error().Err(err).Str("sale_id", sale.ID.String()).
				Msg("legacy sale migration failed")
			continue
		}
		migrated++
	}

	return &dto.MigrateResponse{
		Found:    len(legacy),
		Migrated: migrated,
		Message:  fmt.Sprintf("Successfully migrated %d legacy sales.", migrated),
	}, nil
}
