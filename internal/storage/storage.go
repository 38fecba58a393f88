// Package storage 附件磁盘存储
// 目录结构为 uploads/{images|videos|documents}/<uuid><ext>，数据库只保存相对路径
package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"dadaocheng/exploration/internal/model/file"
	"dadaocheng/exploration/packages/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadsDir 所有附件的根目录名
const UploadsDir = "uploads"

var (
	ErrFileTooLarge = response.NewBusinessError(
		response.WithErrorCode(response.PayloadTooLarge),
		response.WithErrorMessage("File too large"),
	)
	ErrNotFound = response.NewBusinessError(
		response.WithErrorCode(response.NotFound),
		response.WithErrorMessage("File not found"),
	)
)

// StoredFile 已写入磁盘的文件
type StoredFile struct {
	OriginalName string
	StoredName   string
	RelativePath string // 相对 baseDir，使用 / 分隔
	Size         int64
	MimeType     string
	Category     string
}

// Storage 本地磁盘存储
type Storage struct {
	baseDir string
	maxSize int64
	log     *zap.Logger
}

// New 创建存储，目录在首次写入时创建
func New(baseDir string, maxSize int64, log *zap.Logger) *Storage {
	if log == nil {
		log = zap.NewNop()
	}
	return &Storage{baseDir: baseDir, maxSize: maxSize, log: log}
}

// Save 将 r 流式写入分类目录，超过 maxSize 时删除已写部分并返回 ErrFileTooLarge
func (s *Storage) Save(r io.Reader, originalName, mimeType string) (*StoredFile, error) {
	br := bufio.NewReaderSize(r, 512)
	mimeType = detectMime(br, originalName, mimeType)
	category := file.CategoryOf(mimeType)

	dir := filepath.Join(s.baseDir, UploadsDir, file.Dir(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(originalName))
	absPath := filepath.Join(dir, storedName)

	out, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("创建文件失败: %w", err)
	}

	var src io.Reader = br
	if s.maxSize > 0 {
		src = io.LimitReader(br, s.maxSize+1)
	}
	written, copyErr := io.Copy(out, src)
	closeErr := out.Close()

	switch {
	case copyErr != nil:
		os.Remove(absPath)
		return nil, fmt.Errorf("写入文件失败: %w", copyErr)
	case closeErr != nil:
		os.Remove(absPath)
		return nil, fmt.Errorf("写入文件失败: %w", closeErr)
	case s.maxSize > 0 && written > s.maxSize:
		os.Remove(absPath)
		return nil, ErrFileTooLarge
	}

	return &StoredFile{
		OriginalName: originalName,
		StoredName:   storedName,
		RelativePath: relPath(category, storedName),
		Size:         written,
		MimeType:     mimeType,
		Category:     category,
	}, nil
}

// Open 打开相对路径对应的文件
// 路径越界或文件不存在均返回 ErrNotFound，原因保留在错误链中
func (s *Storage) Open(rel string) (*os.File, os.FileInfo, error) {
	abs, err := s.resolve(rel)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNotFound.Wrap(err)
		}
		return nil, nil, fmt.Errorf("打开文件失败: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("读取文件信息失败: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, ErrNotFound.Wrap(fmt.Errorf("%s is a directory", rel))
	}
	return f, info, nil
}

// Exists 文件是否存在于磁盘
func (s *Storage) Exists(rel string) bool {
	abs, err := s.resolve(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// Remove 尽力删除，错误只记录日志
func (s *Storage) Remove(rels ...string) {
	for _, rel := range rels {
		abs, err := s.resolve(rel)
		if err != nil {
			continue
		}
		if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("清理文件失败", zap.String("path", rel), zap.Error(err))
		}
	}
}

// resolve 相对路径转绝对路径，拒绝越出 uploads 目录的路径
func (s *Storage) resolve(rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", ErrNotFound.Wrap(fmt.Errorf("invalid path %q", rel))
	}
	root := filepath.Join(s.baseDir, UploadsDir)
	abs := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	if !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", ErrNotFound.Wrap(fmt.Errorf("path %q escapes upload root", rel))
	}
	return abs, nil
}

func relPath(category, storedName string) string {
	return UploadsDir + "/" + file.Dir(category) + "/" + storedName
}

// detectMime 依次使用请求头、扩展名、内容嗅探判断 MIME
func detectMime(br *bufio.Reader, name, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	head, _ := br.Peek(512)
	return http.DetectContentType(head)
}
