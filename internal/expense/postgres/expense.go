package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal"
	expenseDatamodel "github.com/corpotravel/trip-management/internal/core/datamodel/expense"
	"github.com/corpotravel/trip-management/internal/expense"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateExpense(ctx context.Context, e *expense.Expense) (*expense.Expense, error) {
	model := expense.ToDataModel(e)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return nil, err
	}
	return expense.FromDataModel(model), nil
}

func (r *Repository) GetExpenseByID(ctx context.Context, expenseID int64) (*expense.Expense, error) {
	var model expenseDatamodel.Expense
	if err := r.db.WithContext(ctx).Where("id = ?", expenseID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&model), nil
}

func (r *Repository) ListExpensesByTrip(ctx context.Context, tripID int64) ([]*expense.Expense, error) {
	var models []expenseDatamodel.Expense
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID).
		Order("expense_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	expenses := make([]*expense.Expense, 0, len(models))
	for i := range models {
		expenses = append(expenses, expense.FromDataModel(&models[i]))
	}
	return expenses, nil
}

func (r *Repository) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	model := expense.ToDataModel(e)
	result := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"expense_type":     model.Type,
			"amount_cents":     model.AmountCents,
			"expense_date":     model.ExpenseDate,
			"description":      model.Description,
			"receipt_url":      model.ReceiptURL,
			"receipt_filename": model.ReceiptFileName,
			"status":           model.Status,
			"rejection_reason": model.RejectionReason,
			"reviewed_by":      model.ReviewedBy,
			"reviewed_at":      model.ReviewedAt,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}

// ReviewExpense guards the decision on the stored status. The WHERE clause
// carries the pendente check so two concurrent reviewers cannot both
// apply a decision.
func (r *Repository) ReviewExpense(ctx context.Context, expenseID int64, status string, reason *string, reviewerID int64, reviewedAt time.Time) (*expense.Expense, error) {
	result := r.db.WithContext(ctx).
		Model(&expenseDatamodel.Expense{}).
		Where("id = ? AND status = ?", expenseID, expense.StatusPendente).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
			"reviewed_by":      reviewerID,
			"reviewed_at":      reviewedAt,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&expenseDatamodel.Expense{}).
			Where("id = ?", expenseID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, internal.NewConflictError(
			"expense was already reviewed",
			internal.ErrCodeInvalidStatus)
	}

	return r.GetExpenseByID(ctx, expenseID)
}

func (r *Repository) DeleteExpense(ctx context.Context, expenseID int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", expenseID).Delete(&expenseDatamodel.Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrExpenseNotFound
	}
	return nil
}
