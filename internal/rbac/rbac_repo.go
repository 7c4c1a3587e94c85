package rbac

import (
	"gorm.io/gorm"
)

type ApproverRole struct {
	ApproverID string
	Role       string
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetApproverRoles() ([]ApproverRole, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetApproverRoles() ([]ApproverRole, error) {
	var roles []ApproverRole
	err := r.db.
		Table("approvers").
		Select("id AS approver_id", "role").
		Where("deleted_at IS NULL").
		Scan(&roles).Error
	return roles, err
}
