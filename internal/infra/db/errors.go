// Package db holds helpers shared by the SQL repositories.
package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/bryanwahyu/safe-space/internal/domain/shared"
)

// IsConnectivity reports whether err means the database could not be reached
// (as opposed to a rejected statement).
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Unavailable wraps err with shared.ErrStoreUnavailable.
func Unavailable(err error) error {
	return fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
}
