package approver

import (
	"errors"
	"strings"

	approvererrors "go-offboard/internal/approver/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return approvererrors.ErrApproverNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_approver_email" {
			return approvererrors.ErrApproverAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_approver_email") {
		return approvererrors.ErrApproverAlreadyExists
	}

	return err
}
