package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tablewiselabs/tablewise/internal/payment/domain"
	"gorm.io/gorm"
)

type recordRepo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Insert(ctx context.Context, db *gorm.DB, record *domain.PaymentRecord) error {
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(record).Error
}

func (r *recordRepo) FindByGatewayPaymentID(ctx context.Context, db *gorm.DB, gatewayPaymentID string) (*domain.PaymentRecord, error) {
	if db == nil {
		db = r.db
	}
	var record domain.PaymentRecord
	if err := db.WithContext(ctx).
		Where("gateway_payment_id = ?", gatewayPaymentID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *recordRepo) FindCompletedByOrderID(ctx context.Context, db *gorm.DB, orderID snowflake.ID) (*domain.PaymentRecord, error) {
	if db == nil {
		db = r.db
	}
	var record domain.PaymentRecord
	if err := db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, domain.RecordStatusCompleted).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *recordRepo) ListByOrderID(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]domain.PaymentRecord, error) {
	if db == nil {
		db = r.db
	}
	var records []domain.PaymentRecord
	if err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
