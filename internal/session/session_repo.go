package session

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=session_repo.go -destination=mock/session_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateSession(ctx context.Context, s *OffboardingSession) error
	FindAll(ctx context.Context) ([]OffboardingSession, error)
	FindByID(ctx context.Context, id string) (*OffboardingSession, error)
	UpdateSession(ctx context.Context, s *OffboardingSession) error
	FindTask(ctx context.Context, sessionID, taskID string) (*OffboardingTask, error)
	UpdateTask(ctx context.Context, t *OffboardingTask) error
	CountOpenTasks(ctx context.Context, sessionID string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) CreateSession(ctx context.Context, s *OffboardingSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindAll(ctx context.Context) ([]OffboardingSession, error) {
	var sessions []OffboardingSession
	err := r.db.WithContext(ctx).
		Preload("Tasks").
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*OffboardingSession, error) {
	var s OffboardingSession
	err := r.db.WithContext(ctx).
		Preload("Tasks").
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) UpdateSession(ctx context.Context, s *OffboardingSession) error {
	return r.db.WithContext(ctx).Omit("Tasks").Save(s).Error
}

func (r *repository) FindTask(ctx context.Context, sessionID, taskID string) (*OffboardingTask, error) {
	var t OffboardingTask
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&t, "id = ?", taskID).Error
	return &t, err
}

func (r *repository) UpdateTask(ctx context.Context, t *OffboardingTask) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *repository) CountOpenTasks(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&OffboardingTask{}).
		Where("session_id = ?", sessionID).
		Where("status NOT IN ?", []string{TaskStatusCompleted, TaskStatusRejected}).
		Count(&count).Error
	return count, err
}
