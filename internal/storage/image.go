package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	// 注册 webp 解码器
	_ "github.com/chai2010/webp"
)

// 图片缩放上限与 JPEG 质量
const (
	MaxImageWidth  = 1920
	MaxImageHeight = 1080
	JPEGQuality    = 85
)

// Downsample 将图片等比缩小到 1920x1080 以内并重新编码为 JPEG，删除原文件
// 输出为 baseline JPEG：image/jpeg 与 imaging 均不支持渐进式编码
// 返回新文件信息；原文件保持不变时返回错误
func (s *Storage) Downsample(sf *StoredFile) (*StoredFile, error) {
	srcAbs, err := s.resolve(sf.RelativePath)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(srcAbs, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("解码图片失败: %w", err)
	}

	img = imaging.Fit(img, MaxImageWidth, MaxImageHeight, imaging.Lanczos)

	base := strings.TrimSuffix(sf.StoredName, filepath.Ext(sf.StoredName))
	newName := base + "_processed.jpg"
	dstAbs := filepath.Join(filepath.Dir(srcAbs), newName)

	if err := imaging.Save(img, dstAbs, imaging.JPEGQuality(JPEGQuality)); err != nil {
		os.Remove(dstAbs)
		return nil, fmt.Errorf("编码图片失败: %w", err)
	}

	info, err := os.Stat(dstAbs)
	if err != nil {
		os.Remove(dstAbs)
		return nil, fmt.Errorf("读取图片信息失败: %w", err)
	}

	if err := os.Remove(srcAbs); err != nil {
		s.log.Warn("删除原图失败", zap.String("path", sf.RelativePath), zap.Error(err))
	}

	return &StoredFile{
		OriginalName: sf.OriginalName,
		StoredName:   newName,
		RelativePath: relPath(sf.Category, newName),
		Size:         info.Size(),
		MimeType:     "image/jpeg",
		Category:     sf.Category,
	}, nil
}
