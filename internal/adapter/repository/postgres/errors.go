package postgres

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cafehenola/ledger/internal/domain"
)

// PostgreSQL error class 08 covers connection exceptions.
const pgClassConnection = "08"

// wrapConnectivity maps storage-unreachable failures to
// domain.ErrStorageUnavailable so the transport layer can answer 503 instead
// of 500. Anything else passes through untouched.
func wrapConnectivity(err error) error {
	if err == nil {
		return nil
	}

	if isConnectivity(err) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	return err
}

func isConnectivity(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, pgClassConnection) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
