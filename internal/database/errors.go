package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"dadaocheng/exploration/packages/response"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrStoreUnavailable 数据库不可达
	ErrStoreUnavailable = response.NewBusinessError(
		response.WithErrorCode(response.StoreUnavailable),
		response.WithErrorMessage("database unavailable"),
	)
	// ErrConstraintViolation 约束冲突或语句错误
	ErrConstraintViolation = response.NewBusinessError(
		response.WithErrorCode(response.ConstraintViolation),
		response.WithErrorMessage("constraint violation"),
	)
)

// PostgreSQL SQLSTATE
const (
	codeUniqueViolation = "23505"
	classIntegrity      = "23"
	classConnection     = "08"
	classOperator       = "57P" // admin_shutdown, crash_shutdown, cannot_connect_now
)

// ConstraintError 携带 PostgreSQL 错误码与约束名
type ConstraintError struct {
	Code       string
	Constraint string
	Message    string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint %s violated (%s): %s", e.Constraint, e.Code, e.Message)
	}
	return fmt.Sprintf("statement failed (%s): %s", e.Code, e.Message)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// Is 与 ErrConstraintViolation 匹配
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraintViolation
}

// Classify 将驱动错误归类为 ErrStoreUnavailable 或 ConstraintError
// 其他错误（包括业务错误、记录不存在）原样返回
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var be *response.BusinessError
	if errors.As(err, &be) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, classConnection) || strings.HasPrefix(pgErr.Code, classOperator) {
			return ErrStoreUnavailable.Wrap(err)
		}
		return &ConstraintError{
			Code:       pgErr.Code,
			Constraint: pgErr.ConstraintName,
			Message:    pgErr.Message,
			Err:        err,
		}
	}

	if isConnectionError(err) {
		return ErrStoreUnavailable.Wrap(err)
	}
	return err
}

func isConnectionError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded)
}

// IsUniqueViolation 是否为指定约束上的唯一键冲突，constraint 为空时匹配任意约束
func IsUniqueViolation(err error, constraint string) bool {
	var ce *ConstraintError
	if !errors.As(err, &ce) {
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) {
			return false
		}
		ce = &ConstraintError{Code: pgErr.Code, Constraint: pgErr.ConstraintName}
	}
	if ce.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || ce.Constraint == constraint
}

// IsIntegrityViolation SQLSTATE 23 类错误
func IsIntegrityViolation(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && strings.HasPrefix(ce.Code, classIntegrity)
}
