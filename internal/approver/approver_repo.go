package approver

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=approver_repo.go -destination=mock/approver_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, a *Approver) error
	FindAll(ctx context.Context) ([]Approver, error)
	FindByID(ctx context.Context, id string) (*Approver, error)
	FindByRole(ctx context.Context, role string) ([]Approver, error)
	Update(ctx context.Context, a *Approver) error
	Count(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Approver) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Approver, error) {
	var approvers []Approver
	err := r.db.WithContext(ctx).
		Order("role ASC, name ASC").
		Find(&approvers).Error
	return approvers, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Approver, error) {
	var a Approver
	err := r.db.WithContext(ctx).
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindByRole(ctx context.Context, role string) ([]Approver, error) {
	var approvers []Approver
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("name ASC").
		Find(&approvers).Error
	return approvers, err
}

func (r *repository) Update(ctx context.Context, a *Approver) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Approver{}).
		Count(&count).Error
	return count, err
}
