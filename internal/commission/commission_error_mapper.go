package commission

import (
	"errors"
	"strings"

	commissionerrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/commission/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepoError translates driver-level errors into domain errors. The unique
// index on (driver_id, month, year) surfaces as SQLSTATE 23505 when two
// requests race to create the same month.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "idx_driver_month") {
			return commissionerrors.ErrMonthlyOrderExists
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return commissionerrors.ErrMonthlyOrderNotFound
	}

	return err
}
