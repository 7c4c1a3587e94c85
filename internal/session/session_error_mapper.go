package session

import (
	"errors"
	"strings"

	sessionerrors "go-offboard/internal/session/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapSessionError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sessionerrors.ErrSessionNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_sessions_employee_active" {
			return sessionerrors.ErrSessionAlreadyActive
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_sessions_employee_active") {
		return sessionerrors.ErrSessionAlreadyActive
	}

	return err
}
