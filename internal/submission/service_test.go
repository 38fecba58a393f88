package submission

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"

	"dadaocheng/exploration/internal/database"
	"dadaocheng/exploration/internal/dto"
	fileModel "dadaocheng/exploration/internal/model/file"
	groupModel "dadaocheng/exploration/internal/model/group"
	submissionModel "dadaocheng/exploration/internal/model/submission"
	taskModel "dadaocheng/exploration/internal/model/task"
	"dadaocheng/exploration/internal/notify"
	"dadaocheng/exploration/internal/storage"
	"dadaocheng/exploration/internal/testutils"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recordingNotifier 记录收到的事件
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.SubmissionEvent
}

func (n *recordingNotifier) SubmissionCreated(ev notify.SubmissionEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 50 {
		img.Set(x, x%h, color.RGBA{G: 180, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// setupSubmissionService 在回滚事务上创建服务
func setupSubmissionService(t *testing.T) (*SubmissionService, *gorm.DB, *storage.Storage, string, *recordingNotifier) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	base := t.TempDir()
	st := storage.New(base, 50<<20, nil)
	notifier := &recordingNotifier{}
	service := NewSubmissionService(database.NewStore(db, zap.NewNop()), st, notifier, zap.NewNop())
	return service, db, st, base, notifier
}

func saveFile(t *testing.T, st *storage.Storage, name, mime string, body []byte) *storage.StoredFile {
	t.Helper()
	sf, err := st.Save(bytes.NewReader(body), name, mime)
	require.NoError(t, err)
	return sf
}

func validRequest(groupNumber int, task string) *CreateRequest {
	return &CreateRequest{
		GroupNumber: groupNumber,
		Task:        task,
		Description: strings.Repeat("探", 50),
	}
}

func TestCreate_Integration(t *testing.T) {
	service, db, st, base, notifier := setupSubmissionService(t)
	ctx := context.Background()

	g := testutils.EnsureGroup(db, 5)
	testutils.EnsureTask(db, "task2")

	files := []*storage.StoredFile{
		saveFile(t, st, "harbor.png", "image/png", pngBytes(t, 3000, 2000)),
		saveFile(t, st, "report.pdf", "application/pdf", []byte("%PDF-1.4 test")),
	}

	req := validRequest(5, "task2")
	req.YoutubeLink = "https://youtu.be/abc"

	result, err := service.Create(ctx, req, files)
	require.NoError(t, err)

	assert.Equal(t, 5, result.GroupNumber)
	assert.Equal(t, "task2", result.Task)
	assert.Equal(t, 2, result.FileCount)

	var sub submissionModel.Submission
	require.NoError(t, db.First(&sub, result.SubmissionID).Error)
	assert.Equal(t, g.ID, sub.GroupID)
	assert.Equal(t, submissionModel.StatusPending, sub.Status)
	assert.Equal(t, "第5組 - TASK2 成果", sub.Title)
	require.NotNil(t, sub.YoutubeLink)
	assert.Equal(t, "https://youtu.be/abc", *sub.YoutubeLink)

	var rows []fileModel.File
	require.NoError(t, db.Where("submission_id = ?", sub.ID).Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)

	img := rows[0]
	assert.Equal(t, "harbor.png", img.OriginalFilename)
	assert.Equal(t, "image/jpeg", img.MimeType)
	assert.Equal(t, fileModel.CategoryImage, img.FileType)
	assert.True(t, strings.HasSuffix(img.FilePath, "_processed.jpg"), img.FilePath)
	assert.True(t, strings.HasPrefix(img.FilePath, "uploads/images/"), img.FilePath)

	f, info, err := st.Open(img.FilePath)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), img.FileSize)
	decoded, err := imaging.Decode(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, 1620, decoded.Bounds().Dx())
	assert.Equal(t, 1080, decoded.Bounds().Dy())

	assert.Equal(t, fileModel.CategoryDocument, rows[1].FileType)
	assert.True(t, st.Exists(rows[1].FilePath))

	// 原图已被替换
	assert.False(t, st.Exists(files[0].RelativePath))
	assert.Equal(t, 2, countFiles(t, base))

	require.Len(t, notifier.events, 1)
	assert.Equal(t, result.SubmissionID, notifier.events[0].SubmissionID)
	assert.Equal(t, 2, notifier.events[0].FileCount)
}

func TestCreate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(db *gorm.DB) *CreateRequest
		wantErr error
	}{
		{
			name: "组别已提交",
			prepare: func(db *gorm.DB) *CreateRequest {
				g := testutils.EnsureGroup(db, 6)
				tk := testutils.EnsureTask(db, "task1")
				testutils.CreateTestSubmission(db, g, tk)
				return validRequest(6, "task1")
			},
			wantErr: ErrDuplicateSubmission,
		},
		{
			name: "组别已停用",
			prepare: func(db *gorm.DB) *CreateRequest {
				testutils.EnsureGroup(db, 7, testutils.WithInactive())
				testutils.EnsureTask(db, "task1")
				return validRequest(7, "task1")
			},
			wantErr: ErrInvalidGroup,
		},
		{
			name: "组别不存在",
			prepare: func(db *gorm.DB) *CreateRequest {
				db.Where("group_number = ?", 8).Delete(&groupModel.Group{})
				return validRequest(8, "task1")
			},
			wantErr: ErrInvalidGroup,
		},
		{
			name: "任务不存在",
			prepare: func(db *gorm.DB) *CreateRequest {
				testutils.EnsureGroup(db, 9)
				db.Where("task_key = ?", "task5").Delete(&taskModel.Task{})
				return validRequest(9, "task5")
			},
			wantErr: ErrInvalidTask,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, db, st, base, notifier := setupSubmissionService(t)
			req := tt.prepare(db)

			var before int64
			db.Model(&submissionModel.Submission{}).Count(&before)
			var filesBefore int64
			db.Model(&fileModel.File{}).Count(&filesBefore)

			files := []*storage.StoredFile{
				saveFile(t, st, "harbor.png", "image/png", pngBytes(t, 2400, 1600)),
				saveFile(t, st, "report.pdf", "application/pdf", []byte("%PDF")),
			}

			_, err := service.Create(context.Background(), req, files)
			assert.ErrorIs(t, err, tt.wantErr)

			var after int64
			db.Model(&submissionModel.Submission{}).Count(&after)
			var filesAfter int64
			db.Model(&fileModel.File{}).Count(&filesAfter)
			assert.Equal(t, before, after)
			assert.Equal(t, filesBefore, filesAfter)

			assert.Equal(t, 0, countFiles(t, base))
			assert.Empty(t, notifier.events)
		})
	}
}

func TestCreate_ImageProcessingFailureKeepsOriginal(t *testing.T) {
	service, db, st, _, _ := setupSubmissionService(t)

	testutils.EnsureGroup(db, 10)
	testutils.EnsureTask(db, "task3")

	broken := saveFile(t, st, "broken.png", "image/png", []byte("not really a png"))

	result, err := service.Create(context.Background(), validRequest(10, "task3"), []*storage.StoredFile{broken})
	require.NoError(t, err)
	assert.Equal(t, 1, result.FileCount)

	var row fileModel.File
	require.NoError(t, db.Where("submission_id = ?", result.SubmissionID).First(&row).Error)
	assert.Equal(t, broken.RelativePath, row.FilePath)
	assert.Equal(t, "image/png", row.MimeType)
	assert.True(t, st.Exists(row.FilePath))
}

func TestReadAPIs_Integration(t *testing.T) {
	service, db, _, _, _ := setupSubmissionService(t)
	ctx := context.Background()

	// 只保留本测试的数据
	require.NoError(t, db.Exec("DELETE FROM submissions").Error)
	require.NoError(t, db.Model(&groupModel.Group{}).Where("1 = 1").Update("is_active", false).Error)

	tk := testutils.EnsureTask(db, "task2")
	g2 := testutils.EnsureGroup(db, 2)
	g3 := testutils.EnsureGroup(db, 3)
	g4 := testutils.EnsureGroup(db, 4)
	testutils.EnsureGroup(db, 11)

	approved := testutils.CreateTestSubmission(db, g2, tk, testutils.WithStatus(submissionModel.StatusApproved))
	pending := testutils.CreateTestSubmission(db, g3, tk)
	rejected := testutils.CreateTestSubmission(db, g4, tk, testutils.WithStatus(submissionModel.StatusRejected))
	testutils.CreateTestFile(db, pending.ID)

	t.Run("List 只返回 approved 与 pending", func(t *testing.T) {
		views, p, err := service.List(ctx, dto.Page{Page: 1, Limit: dto.DefaultPageSize})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, int64(2), p.Total)

		ids := []uint{views[0].ID, views[1].ID}
		assert.ElementsMatch(t, []uint{approved.ID, pending.ID}, ids)

		for _, v := range views {
			assert.Equal(t, "task2", v.TaskKey)
			if v.ID == pending.ID {
				require.Len(t, v.Files, 1)
				assert.Equal(t, 3, v.GroupNumber)
				assert.Contains(t, v.Files[0].DownloadURL, "/api/files/")
			}
		}
	})

	t.Run("Get 返回任意状态", func(t *testing.T) {
		view, err := service.Get(ctx, rejected.ID)
		require.NoError(t, err)
		assert.Equal(t, submissionModel.StatusRejected, view.Status)
		assert.Equal(t, 4, view.GroupNumber)

		_, err = service.Get(ctx, 999999)
		assert.True(t, errors.Is(err, ErrSubmissionNotFound))
	})

	t.Run("Statistics", func(t *testing.T) {
		stats, err := service.Statistics(ctx)
		require.NoError(t, err)

		assert.Equal(t, int64(3), stats.Overview.TotalSubmissions)
		assert.Equal(t, int64(1), stats.Overview.ApprovedSubmissions)
		assert.Equal(t, int64(1), stats.Overview.PendingSubmissions)
		assert.Equal(t, int64(3), stats.Overview.ParticipatingGroups)
		assert.Equal(t, int64(1), stats.Overview.AvailableGroups)

		var task2 *TaskCount
		for i := range stats.TaskBreakdown {
			if stats.TaskBreakdown[i].TaskKey == "task2" {
				task2 = &stats.TaskBreakdown[i]
			}
		}
		require.NotNil(t, task2)
		assert.Equal(t, int64(3), task2.SubmissionCount)
	})
}

// TestCreate_ConcurrentSameGroup 同一组别并发提交，只有一个成功
// 使用真实提交的事务，结束时清理
func TestCreate_ConcurrentSameGroup(t *testing.T) {
	db := testutils.OpenTestDB(t)
	ctx := context.Background()

	const groupNumber = 24
	g := testutils.EnsureGroup(db, groupNumber)
	testutils.EnsureTask(db, "task4")
	t.Cleanup(func() {
		db.Where("group_id = ?", g.ID).Delete(&submissionModel.Submission{})
	})

	base := t.TempDir()
	st := storage.New(base, 1<<20, nil)
	service := NewSubmissionService(database.NewStore(db, zap.NewNop()), st, nil, zap.NewNop())

	const workers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		dupes     int
		others    []error
	)
	for i := 0; i < workers; i++ {
		sf := saveFile(t, st, "report.pdf", "application/pdf", []byte("%PDF"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Create(ctx, validRequest(groupNumber, "task4"), []*storage.StoredFile{sf})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrDuplicateSubmission):
				dupes++
			default:
				others = append(others, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, others)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, dupes)

	var count int64
	db.Model(&submissionModel.Submission{}).Where("group_id = ?", g.ID).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, countFiles(t, base))
}
