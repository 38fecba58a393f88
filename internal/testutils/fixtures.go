package testutils

import (
	"fmt"
	"strings"
	"time"

	"dadaocheng/exploration/internal/model"
	"dadaocheng/exploration/internal/model/admin"
	"dadaocheng/exploration/internal/model/file"
	"dadaocheng/exploration/internal/model/group"
	"dadaocheng/exploration/internal/model/submission"
	"dadaocheng/exploration/internal/model/task"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureGroup returns an active group with the given number and no submission.
// Group numbers are unique, so an existing row is reused.
func EnsureGroup(db *gorm.DB, number int, opts ...GroupOption) *group.Group {
	g := &group.Group{}
	err := db.Where(group.Group{GroupNumber: number}).
		Attrs(group.Group{GroupName: group.DisplayName(number), IsActive: true}).
		FirstOrCreate(g).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to ensure test group: %v", err))
	}

	g.IsActive = true
	for _, opt := range opts {
		opt(g)
	}
	if err := db.Save(g).Error; err != nil {
		panic(fmt.Sprintf("Failed to update test group: %v", err))
	}

	if err := db.Where("group_id = ?", g.ID).Delete(&submission.Submission{}).Error; err != nil {
		panic(fmt.Sprintf("Failed to clear group submission: %v", err))
	}
	return g
}

// GroupOption configures test group
type GroupOption func(*group.Group)

// WithInactive marks the group inactive
func WithInactive() GroupOption {
	return func(g *group.Group) {
		g.IsActive = false
	}
}

// EnsureTask returns the active task with the given key, created from seed data if missing
func EnsureTask(db *gorm.DB, key string) *task.Task {
	t := &task.Task{}
	attrs := task.Task{TitleZh: key, TitleEn: key, IsActive: true}
	for _, seed := range model.SeedTasks {
		if seed.TaskKey == key {
			attrs = seed
			attrs.IsActive = true
		}
	}
	attrs.TaskKey = ""

	err := db.Where(task.Task{TaskKey: key}).Attrs(attrs).FirstOrCreate(t).Error
	if err != nil {
		panic(fmt.Sprintf("Failed to ensure test task: %v", err))
	}
	if !t.IsActive {
		t.IsActive = true
		db.Save(t)
	}
	return t
}

// CreateTestSubmission creates a pending submission for the group
func CreateTestSubmission(db *gorm.DB, g *group.Group, tk *task.Task, opts ...SubmissionOption) *submission.Submission {
	s := &submission.Submission{
		GroupID:     g.ID,
		TaskID:      tk.ID,
		Title:       fmt.Sprintf("第%d組 - %s 成果", g.GroupNumber, strings.ToUpper(tk.TaskKey)),
		Description: strings.Repeat("探", 60),
		Status:      submission.StatusPending,
		SubmittedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := db.Omit("Group", "Task", "Files").Create(s).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test submission: %v", err))
	}
	return s
}

// SubmissionOption configures test submission
type SubmissionOption func(*submission.Submission)

// WithStatus sets the submission status
func WithStatus(status string) SubmissionOption {
	return func(s *submission.Submission) {
		s.Status = status
	}
}

// WithExtraData sets the extra data bag
func WithExtraData(data map[string]any) SubmissionOption {
	return func(s *submission.Submission) {
		s.ExtraData = datatypes.JSONMap(data)
	}
}

// WithSubmittedAt sets the submission time
func WithSubmittedAt(at time.Time) SubmissionOption {
	return func(s *submission.Submission) {
		s.SubmittedAt = at
	}
}

// CreateTestFile creates a file row; the path is not written to disk
func CreateTestFile(db *gorm.DB, submissionID uint, opts ...FileOption) *file.File {
	stored := uuid.New().String() + ".pdf"
	f := &file.File{
		SubmissionID:     submissionID,
		OriginalFilename: "report.pdf",
		StoredFilename:   stored,
		FilePath:         "uploads/documents/" + stored,
		FileSize:         1024,
		MimeType:         "application/pdf",
		FileType:         file.CategoryDocument,
		UploadedAt:       time.Now(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if err := db.Create(f).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test file: %v", err))
	}
	return f
}

// FileOption configures test file
type FileOption func(*file.File)

// WithFilePath sets the relative path and stored name
func WithFilePath(relPath string) FileOption {
	return func(f *file.File) {
		f.FilePath = relPath
		f.StoredFilename = relPath[strings.LastIndex(relPath, "/")+1:]
	}
}

// WithMime sets the MIME type and derived category
func WithMime(mime string) FileOption {
	return func(f *file.File) {
		f.MimeType = mime
		f.FileType = file.CategoryOf(mime)
	}
}

// WithSize sets the file size
func WithSize(size int64) FileOption {
	return func(f *file.File) {
		f.FileSize = size
	}
}

// CreateTestAdmin creates an admin with a unique username and the given password
func CreateTestAdmin(db *gorm.DB, password string, opts ...AdminOption) *admin.Admin {
	uniqueID := uuid.New().String()[:8]
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("Failed to hash password: %v", err))
	}

	a := &admin.Admin{
		Username:     "test_admin_" + uniqueID,
		Email:        "admin_" + uniqueID + "@example.com",
		PasswordHash: string(hash),
		Role:         admin.RoleAdmin,
		IsActive:     true,
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := db.Create(a).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test admin: %v", err))
	}
	return a
}

// AdminOption configures test admin
type AdminOption func(*admin.Admin)

// WithAdminInactive deactivates the admin
func WithAdminInactive() AdminOption {
	return func(a *admin.Admin) {
		a.IsActive = false
	}
}

// WithAdminRole sets the role
func WithAdminRole(role string) AdminOption {
	return func(a *admin.Admin) {
		a.Role = role
	}
}
