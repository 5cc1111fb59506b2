package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/course-platform/internal/admin"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) admin.RepositoryAPI {
	return &Repository{
		db: db,
	}
}

func (r *Repository) RevenueByItemType() ([]admin.RevenueLine, error) {
	var lines []admin.RevenueLine
	err := r.db.Model(&orderDatamodel.PendingOrder{}).
		Select("item_type, currency, COUNT(*) AS orders, COALESCE(SUM(amount), 0) AS revenue").
		Where("status = ?", orderDatamodel.StatusPaid).
		Group("item_type, currency").
		Scan(&lines).Error
	return lines, err
}

func (r *Repository) CountOrdersByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&orderDatamodel.PendingOrder{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *Repository) ListOrders(status string, limit int) ([]orderDatamodel.PendingOrder, error) {
	var orders []orderDatamodel.PendingOrder
	q := r.db.Order("created_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&orders).Error
	return orders, err
}

func (r *Repository) CountUnnotifiedPaidOrders() (int64, error) {
	var count int64
	err := r.db.Model(&orderDatamodel.PendingOrder{}).
		Where("status = ? AND notified = ?", orderDatamodel.StatusPaid, false).
		Count(&count).Error
	return count, err
}
