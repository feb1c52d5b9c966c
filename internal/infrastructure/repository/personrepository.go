package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/infrastructure/persistence/mappers"
	"nmqueue/internal/infrastructure/persistence/models"
	db "nmqueue/internal/shared/db"
	"nmqueue/internal/shared/logger"
)

// allowedPersonOrderByFields defines the whitelist of allowed ORDER BY fields
// to prevent SQL injection attacks.
var allowedPersonOrderByFields = map[string]bool{
	"id":             true,
	"uid":            true,
	"email":          true,
	"status":         true,
	"status_changed": true,
	"created_at":     true,
}

type PersonRepository struct {
	db     *gorm.DB
	mapper mappers.PersonMapper
}

func NewPersonRepository(gdb *gorm.DB) *PersonRepository {
	return &PersonRepository{
		db:     gdb,
		mapper: mappers.NewPersonMapper(),
	}
}

func (r *PersonRepository) Create(ctx context.Context, p *person.Person) error {
	model := r.mapper.ToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}

	return p.SetID(model.ID)
}

func (r *PersonRepository) GetByID(ctx context.Context, id uint) (*person.Person, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *PersonRepository) GetByUID(ctx context.Context, uid string) (*person.Person, error) {
	return r.getOne(ctx, "uid = ?", uid)
}

func (r *PersonRepository) GetByEmail(ctx context.Context, email string) (*person.Person, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *PersonRepository) GetByFingerprint(ctx context.Context, fpr string) (*person.Person, error) {
	return r.getOne(ctx, "fingerprint = ?", fpr)
}

func (r *PersonRepository) getOne(ctx context.Context, query string, arg any) (*person.Person, error) {
	var model models.PersonModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(query, arg).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find person: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *PersonRepository) Update(ctx context.Context, p *person.Person) error {
	model := r.mapper.ToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	// Select("*") so cleared nullable columns (expires, pending_nonce) are
	// written back as NULL rather than skipped as zero values.
	result := tx.
		Model(&models.PersonModel{}).
		Where("id = ?", model.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)

	if result.Error != nil {
		return fmt.Errorf("failed to update person: %w", result.Error)
	}

	return nil
}

func (r *PersonRepository) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Delete(&models.PersonModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete person: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("person not found")
	}
	return nil
}

func (r *PersonRepository) List(ctx context.Context, filter person.ListFilter) ([]*person.Person, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.PersonModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UID != "" {
		query = query.Where("uid = ?", filter.UID)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count persons: %w", err)
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	orderBy := strings.ToLower(filter.OrderBy)
	if orderBy != "" && allowedPersonOrderByFields[orderBy] {
		order := strings.ToUpper(filter.Order)
		if order != "ASC" && order != "DESC" {
			order = "DESC"
		}
		query = query.Order(orderBy + " " + order)
	} else {
		query = query.Order("created_at DESC")
	}

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	var personModels []models.PersonModel
	if err := query.Find(&personModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list persons: %w", err)
	}

	people, err := r.toDomainSlice(personModels)
	if err != nil {
		return nil, 0, err
	}
	return people, total, nil
}

func (r *PersonRepository) ListWithFingerprint(ctx context.Context) ([]*person.Person, error) {
	return r.listWhere(ctx, "fingerprint IS NOT NULL")
}

func (r *PersonRepository) ListWithUID(ctx context.Context) ([]*person.Person, error) {
	return r.listWhere(ctx, "uid IS NOT NULL")
}

func (r *PersonRepository) ListByStatus(ctx context.Context, statuses ...membership.Status) ([]*person.Person, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = s.String()
	}
	return r.listWhere(ctx, "status IN ?", values)
}

func (r *PersonRepository) ListExpiredBefore(ctx context.Context, cutoff time.Time) ([]*person.Person, error) {
	return r.listWhere(ctx, "expires IS NOT NULL AND expires < ?", cutoff.UnixMilli())
}

func (r *PersonRepository) listWhere(ctx context.Context, query string, args ...any) ([]*person.Person, error) {
	var personModels []models.PersonModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(query, args...).Order("id ASC").Find(&personModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}

	return r.toDomainSlice(personModels)
}

func (r *PersonRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Model(&models.PersonModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check person email: %w", err)
	}

	return count > 0, nil
}

// toDomainSlice drops rows the domain model rejects, such as a status tag
// outside the taxonomy. A single bad row must not fail every list scan that
// touches it; the reconciliation run logs the skip and keeps going.
func (r *PersonRepository) toDomainSlice(personModels []models.PersonModel) ([]*person.Person, error) {
	people := make([]*person.Person, 0, len(personModels))
	for i := range personModels {
		p, err := r.mapper.ToDomain(&personModels[i])
		if err != nil {
			logger.Warn("skipping unmappable person row",
				"person_id", personModels[i].ID, "error", err)
			continue
		}
		people = append(people, p)
	}
	return people, nil
}
