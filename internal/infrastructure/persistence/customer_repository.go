package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
	"github.com/customerhub/backend/internal/infrastructure/persistence/models"
)

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db, now: time.Now}
}

// WithClock returns a copy of the repository that validates loaded rows against now
func (r *GormCustomerRepository) WithClock(now func() time.Time) *GormCustomerRepository {
	return &GormCustomerRepository{db: r.db, now: now}
}

// Create inserts a new customer. A missing ID is generated.
func (r *GormCustomerRepository) Create(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	model := models.NewCustomerModel(c)
	if model.ID == uuid.Nil {
		model.ID = uuid.New()
	}
	now := r.now().UTC()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now.Truncate(time.Microsecond)
	}
	if model.UpdatedAt.IsZero() {
		model.UpdatedAt = model.CreatedAt
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, r.uniqueViolation(ctx, model, uuid.Nil)
		}
		return nil, err
	}
	return model.ToDomain(now)
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByEmail finds a customer by normalized email
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", valueobject.NormalizeEmail(email)))
}

// FindByFullNameAndDateOfBirth finds a customer by case-insensitive name and date of birth
func (r *GormCustomerRepository) FindByFullNameAndDateOfBirth(ctx context.Context, firstName, lastName string, dob time.Time) (*customer.Customer, error) {
	return r.first(r.personScope(r.db.WithContext(ctx), firstName, lastName, dob))
}

// FindMany returns customers ordered by creation time, newest first
func (r *GormCustomerRepository) FindMany(ctx context.Context, limit, offset *int) ([]*customer.Customer, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit != nil {
		query = query.Limit(*limit)
	}
	if offset != nil && *offset > 0 {
		query = query.Offset(*offset)
	}

	var rows []models.CustomerModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	now := r.now()
	result := make([]*customer.Customer, 0, len(rows))
	for i := range rows {
		c, err := rows[i].ToDomain(now)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

// Count returns the total number of customers
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update writes every mutable column of c
func (r *GormCustomerRepository) Update(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	model := models.NewCustomerModel(c)
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", model.ID).
		Updates(model.UpdateColumns())
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, r.uniqueViolation(ctx, model, model.ID)
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, shared.ErrNotFound
	}
	return model.ToDomain(r.now())
}

// Delete removes a customer by ID
func (r *GormCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByEmail returns true if a customer uses the email
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("email = ?", valueobject.NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByFullNameAndDateOfBirth returns true if a customer has the name and date of birth
func (r *GormCustomerRepository) ExistsByFullNameAndDateOfBirth(ctx context.Context, firstName, lastName string, dob time.Time) (bool, error) {
	var count int64
	err := r.personScope(r.db.WithContext(ctx).Model(&models.CustomerModel{}), firstName, lastName, dob).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormCustomerRepository) personScope(db *gorm.DB, firstName, lastName string, dob time.Time) *gorm.DB {
	return db.Where("LOWER(first_name) = LOWER(?) AND LOWER(last_name) = LOWER(?) AND date_of_birth = ?",
		customer.NormalizeName(firstName), customer.NormalizeName(lastName), customer.DateOnly(dob))
}

func (r *GormCustomerRepository) first(query *gorm.DB) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(r.now())
}

// uniqueViolation tells which unique key a rejected write collided with.
// Concurrent writers can pass the application checks and still meet here.
func (r *GormCustomerRepository) uniqueViolation(ctx context.Context, model *models.CustomerModel, self uuid.UUID) error {
	var other models.CustomerModel
	err := r.db.WithContext(ctx).
		Select("id").
		Where("email = ?", model.Email).
		First(&other).Error
	switch {
	case err == nil && other.ID != self:
		return customer.ErrEmailTaken()
	case err == nil, errors.Is(err, gorm.ErrRecordNotFound):
		return customer.ErrDuplicatePerson()
	default:
		return fmt.Errorf("failed to resolve unique violation: %w", err)
	}
}

var _ customer.Repository = (*GormCustomerRepository)(nil)
