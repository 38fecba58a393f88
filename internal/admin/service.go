package admin

import (
	"context"
	"time"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/dto"
	adminModel "dadaocheng/exploration/internal/model/admin"
	submissionModel "dadaocheng/exploration/internal/model/submission"
	"dadaocheng/exploration/packages/authsdk"
	"dadaocheng/exploration/packages/response"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost 默认管理员密码的 bcrypt 成本
const passwordCost = 12

var (
	ErrInvalidCredentials = response.NewBusinessError(
		response.WithErrorCode(response.Unauthorized),
		response.WithErrorMessage("Invalid credentials"),
	)
	ErrSubmissionNotFound = response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage("Submission not found"),
	)
)

type AdminService struct {
	repo      *AdminRepository
	jwtSecret string
	tokenTTL  time.Duration
	log       *zap.Logger
}

func NewAdminService(store *database.Store, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *AdminService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminService{
		repo:      NewAdminRepository(store),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// FindActiveByID 供认证中间件使用
func (s *AdminService) FindActiveByID(ctx context.Context, id uint) (*adminModel.Admin, error) {
	return s.repo.FindActiveByID(ctx, id)
}

// Login 校验用户名密码并签发令牌
// 用户不存在与密码错误返回同一个错误
func (s *AdminService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	a, err := s.repo.FindActiveByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Info("管理员密码错误", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	token, err := authsdk.GenerateToken(authsdk.UserContext{
		UserID:   a.ID,
		Username: a.Username,
		Role:     a.Role,
	}, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.TouchLastLogin(ctx, a.ID, time.Now()); err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token: token,
		User: AdminUser{
			ID:       a.ID,
			Username: a.Username,
			Email:    a.Email,
			Role:     a.Role,
		},
	}, nil
}

// ListSubmissions 所有状态的投稿，status 非法时忽略过滤
func (s *AdminService) ListSubmissions(ctx context.Context, status string, page dto.Page) ([]AdminSubmission, *response.Pagination, error) {
	if !submissionModel.IsValidStatus(status) {
		status = ""
	}
	rows, total, err := s.repo.ListSubmissions(ctx, status, page.Offset(), page.Limit)
	if err != nil {
		return nil, nil, err
	}
	if rows == nil {
		rows = []AdminSubmission{}
	}
	return rows, page.Result(total), nil
}

// UpdateStatus 任意状态之间均可切换
func (s *AdminService) UpdateStatus(ctx context.Context, id uint, req *UpdateStatusRequest, by *adminModel.Admin) (*submissionModel.Submission, error) {
	sub, err := s.repo.UpdateStatus(ctx, id, req.Status, by.Username, req.Reason)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}

	s.log.Info("投稿状态已更新",
		zap.Uint("submission_id", id),
		zap.String("status", req.Status),
		zap.String("admin", by.Username),
	)
	return sub, nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	overview, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.repo.TaskStats(ctx)
	if err != nil {
		return nil, err
	}
	files, err := s.repo.FileStats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentSubmissions(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Overview:          *overview,
		TaskBreakdown:     tasks,
		FileStats:         files,
		RecentSubmissions: recent,
	}
	if d.TaskBreakdown == nil {
		d.TaskBreakdown = []TaskStat{}
	}
	if d.FileStats == nil {
		d.FileStats = []FileStat{}
	}
	if d.RecentSubmissions == nil {
		d.RecentSubmissions = []RecentSubmission{}
	}
	return d, nil
}

// EnsureDefaultAdmin 创建 super_admin，用户名或邮箱已存在时跳过并返回 false
func (s *AdminService) EnsureDefaultAdmin(ctx context.Context, username, email, password string) (bool, error) {
	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return false, err
	}
	err = s.repo.Create(ctx, &adminModel.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         adminModel.RoleSuperAdmin,
		IsActive:     true,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
