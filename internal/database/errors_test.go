package database

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"dadaocheng/exploration/packages/response"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "idx_submissions_group_id", Message: "duplicate key"}
	syntax := &pgconn.PgError{Code: "42601", Message: "syntax error"}
	shutdown := &pgconn.PgError{Code: "57P01", Message: "terminating connection"}

	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
		wantConstraint  bool
	}{
		{name: "nil", err: nil},
		{name: "唯一键冲突", err: unique, wantConstraint: true},
		{name: "包装后的唯一键冲突", err: fmt.Errorf("insert: %w", unique), wantConstraint: true},
		{name: "语法错误", err: syntax, wantConstraint: true},
		{name: "服务端关闭连接", err: shutdown, wantUnavailable: true},
		{name: "坏连接", err: driver.ErrBadConn, wantUnavailable: true},
		{name: "记录不存在原样返回", err: gorm.ErrRecordNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.wantUnavailable, errors.Is(got, ErrStoreUnavailable))
			assert.Equal(t, tt.wantConstraint, errors.Is(got, ErrConstraintViolation))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_KeepsBusinessError(t *testing.T) {
	be := response.NewBusinessError(response.WithErrorCode(response.InvalidGroup))
	assert.Same(t, be, Classify(be))
}

func TestIsUniqueViolation(t *testing.T) {
	err := Classify(&pgconn.PgError{Code: "23505", ConstraintName: "idx_submissions_group_id"})

	assert.True(t, IsUniqueViolation(err, "idx_submissions_group_id"))
	assert.True(t, IsUniqueViolation(err, ""))
	assert.False(t, IsUniqueViolation(err, "idx_groups_group_number"))
	assert.True(t, IsIntegrityViolation(err))

	raw := &pgconn.PgError{Code: "23505", ConstraintName: "idx_submissions_group_id"}
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", raw), "idx_submissions_group_id"))

	fk := Classify(&pgconn.PgError{Code: "23503", ConstraintName: "fk_submissions_group"})
	assert.False(t, IsUniqueViolation(fk, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "SELECT 1", truncate("SELECT 1", 50))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "第5", truncate("第5組", 2))
}
