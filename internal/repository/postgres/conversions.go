package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
)

type conversionEventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewConversionEventRepository creates a new conversion event repository.
// The journal is an audit copy of the analytics the webhook already
// receives; writes that fail are logged and the error surfaces to the
// caller, which swallows it.
func NewConversionEventRepository(db *sql.DB, logger *zap.Logger) *conversionEventRepository {
	return &conversionEventRepository{
		db:     db,
		logger: logger,
	}
}

func (r *conversionEventRepository) Create(ctx context.Context, event *domain.ConversionEvent) error {
	query := `
		INSERT INTO conversion_events
			(id, tryon_id, session_id, store_id, conversion_type,
			 revenue_amount, clothing_id, variant_id, tryon_result_url,
			 device_info, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	deviceJSON, err := json.Marshal(event.Device)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		uuid.New(),
		event.TryOnID,
		event.SessionID,
		event.StoreID,
		event.ConversionType,
		event.RevenueAmount,
		event.ClothingID,
		event.VariantID,
		event.ResultImageURL,
		deviceJSON,
		event.Timestamp,
	)

	if err != nil {
		r.logger.Error("Failed to journal conversion event",
			zap.String("conversion_type", event.ConversionType),
			zap.Error(err))
		return err
	}

	return nil
}
