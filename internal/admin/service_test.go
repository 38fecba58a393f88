package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/dto"
	adminModel "dadaocheng/exploration/internal/model/admin"
	submissionModel "dadaocheng/exploration/internal/model/submission"
	"dadaocheng/exploration/internal/testutils"
	"dadaocheng/exploration/packages/authsdk"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "admin-test-secret"

func setupAdminService(t *testing.T) (*AdminService, *gorm.DB) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	service := NewAdminService(database.NewStore(db, zap.NewNop()), testSecret, time.Hour, zap.NewNop())
	return service, db
}

func strPtr(s string) *string { return &s }

func TestLogin_Integration(t *testing.T) {
	service, db := setupAdminService(t)
	ctx := context.Background()

	a := testutils.CreateTestAdmin(db, "correct-horse", testutils.WithAdminRole(adminModel.RoleSuperAdmin))
	inactive := testutils.CreateTestAdmin(db, "correct-horse", testutils.WithAdminInactive())

	t.Run("登录成功", func(t *testing.T) {
		resp, err := service.Login(ctx, &LoginRequest{Username: a.Username, Password: "correct-horse"})
		require.NoError(t, err)

		assert.Equal(t, a.ID, resp.User.ID)
		assert.Equal(t, a.Email, resp.User.Email)
		assert.Equal(t, adminModel.RoleSuperAdmin, resp.User.Role)

		user, err := authsdk.ParseToken(resp.Token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, a.ID, user.UserID)
		assert.Equal(t, a.Username, user.Username)

		var reloaded adminModel.Admin
		require.NoError(t, db.First(&reloaded, a.ID).Error)
		assert.NotNil(t, reloaded.LastLogin)
	})

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "密码错误", username: a.Username, password: "wrong"},
		{name: "用户不存在", username: "nobody_here", password: "correct-horse"},
		{name: "已停用", username: inactive.Username, password: "correct-horse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(ctx, &LoginRequest{Username: tt.username, Password: tt.password})
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestUpdateStatus_Integration(t *testing.T) {
	service, db := setupAdminService(t)
	ctx := context.Background()

	moderator := testutils.CreateTestAdmin(db, "pw")
	g := testutils.EnsureGroup(db, 17)
	tk := testutils.EnsureTask(db, "task1")
	sub := testutils.CreateTestSubmission(db, g, tk, testutils.WithExtraData(map[string]any{"note": "kept"}))

	approved, err := service.UpdateStatus(ctx, sub.ID, &UpdateStatusRequest{
		Status: submissionModel.StatusApproved,
		Reason: strPtr("well documented"),
	}, moderator)
	require.NoError(t, err)
	assert.Equal(t, submissionModel.StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, moderator.Username, *approved.ApprovedBy)
	assert.Equal(t, "well documented", approved.ExtraData["admin_reason"])
	assert.Equal(t, "kept", approved.ExtraData["note"])

	// approved -> rejected 允许，理由被覆盖，审核信息保留
	rejected, err := service.UpdateStatus(ctx, sub.ID, &UpdateStatusRequest{
		Status: submissionModel.StatusRejected,
		Reason: strPtr("blurry photos"),
	}, moderator)
	require.NoError(t, err)
	assert.Equal(t, submissionModel.StatusRejected, rejected.Status)
	assert.Equal(t, "blurry photos", rejected.ExtraData["admin_reason"])
	assert.NotNil(t, rejected.ApprovedAt)

	// 不带理由时保留原理由
	pending, err := service.UpdateStatus(ctx, sub.ID, &UpdateStatusRequest{Status: submissionModel.StatusPending}, moderator)
	require.NoError(t, err)
	assert.Equal(t, submissionModel.StatusPending, pending.Status)
	assert.Equal(t, "blurry photos", pending.ExtraData["admin_reason"])

	_, err = service.UpdateStatus(ctx, 999999, &UpdateStatusRequest{Status: submissionModel.StatusApproved}, moderator)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestListAndDashboard_Integration(t *testing.T) {
	service, db := setupAdminService(t)
	ctx := context.Background()

	require.NoError(t, db.Exec("DELETE FROM submissions").Error)

	tk := testutils.EnsureTask(db, "task5")
	s1 := testutils.CreateTestSubmission(db, testutils.EnsureGroup(db, 18), tk, testutils.WithStatus(submissionModel.StatusApproved))
	testutils.CreateTestSubmission(db, testutils.EnsureGroup(db, 19), tk)
	testutils.CreateTestSubmission(db, testutils.EnsureGroup(db, 20), tk, testutils.WithStatus(submissionModel.StatusRejected))
	testutils.CreateTestFile(db, s1.ID, testutils.WithSize(100))
	testutils.CreateTestFile(db, s1.ID, testutils.WithMime("image/jpeg"), testutils.WithSize(300))

	page := dto.Page{Page: 1, Limit: 20}

	rows, p, err := service.ListSubmissions(ctx, "", page)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, int64(3), p.Total)

	rows, p, err = service.ListSubmissions(ctx, submissionModel.StatusApproved, page)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), p.Total)
	assert.Equal(t, s1.ID, rows[0].ID)
	assert.Equal(t, int64(2), rows[0].FileCount)
	assert.Equal(t, 18, rows[0].GroupNumber)

	rows, _, err = service.ListSubmissions(ctx, "bogus", page)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	d, err := service.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardOverview{
		TotalSubmissions:    3,
		PendingCount:        1,
		ApprovedCount:       1,
		RejectedCount:       1,
		ParticipatingGroups: 3,
	}, d.Overview)

	for _, ts := range d.TaskBreakdown {
		if ts.TaskKey == "task5" {
			assert.Equal(t, int64(3), ts.SubmissionCount)
			assert.Equal(t, int64(1), ts.ApprovedCount)
		}
	}
	assert.ElementsMatch(t, []FileStat{
		{FileType: "document", FileCount: 1, TotalSize: 100},
		{FileType: "image", FileCount: 1, TotalSize: 300},
	}, d.FileStats)
	assert.Len(t, d.RecentSubmissions, 3)
}

func TestAdminRoutes_Integration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service, db := setupAdminService(t)

	a := testutils.CreateTestAdmin(db, "pw-123")
	sub := testutils.CreateTestSubmission(db, testutils.EnsureGroup(db, 21), testutils.EnsureTask(db, "task2"))

	r := gin.New()
	RegisterRoutes(r.Group("/api"), service, testSecret)

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/api/admin/login", "", `{"username":"`+a.Username+`","password":"pw-123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	token := login.Data.Token

	w = do(http.MethodPost, "/api/admin/login", "", `{"username":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username is required")

	w = do(http.MethodPut, "/api/admin/submissions/1/status", "", `{"status":"approved"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Access token required")

	w = do(http.MethodPut, "/api/admin/submissions/1/status", "garbage", `{"status":"approved"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	path := "/api/admin/submissions/" + strconv.FormatUint(uint64(sub.ID), 10) + "/status"
	w = do(http.MethodPut, path, token, `{"status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")

	w = do(http.MethodPut, path, token, `{"status":"approved","reason":"`+strings.Repeat("r", 501)+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Reason too long")

	w = do(http.MethodPut, path, token, `{"status":"approved","reason":"well documented"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Submission approved successfully")

	w = do(http.MethodGet, "/api/admin/dashboard", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEnsureDefaultAdmin_Integration(t *testing.T) {
	service, db := setupAdminService(t)
	ctx := context.Background()

	username := "default_admin_test"
	email := "default_admin_test@example.com"

	created, err := service.EnsureDefaultAdmin(ctx, username, email, "first-pass")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = service.EnsureDefaultAdmin(ctx, username, "other@example.com", "second-pass")
	require.NoError(t, err)
	assert.False(t, created)

	var a adminModel.Admin
	require.NoError(t, db.Where("username = ?", username).First(&a).Error)
	assert.Equal(t, adminModel.RoleSuperAdmin, a.Role)
	assert.True(t, a.IsActive)

	resp, err := service.Login(ctx, &LoginRequest{Username: username, Password: "first-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}
