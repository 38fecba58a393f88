package submission

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"dadaocheng/exploration/config"
	"dadaocheng/exploration/internal/dto"
	"dadaocheng/exploration/internal/storage"
	"dadaocheng/exploration/packages/response"

	"github.com/gin-gonic/gin/binding"
)

// 表单字段名
const (
	fieldGroupNumber = "groupNumber"
	fieldTask        = "task"
	fieldDescription = "description"
	fieldYoutubeLink = "youtubeLink"
	fieldFiles       = "files"
)

// maxFieldSize 单个文本字段读取上限
const maxFieldSize = 64 << 10

// multipartSlack 请求体中除文件外的余量
const multipartSlack = 1 << 20

var fieldMessages = map[string]string{
	fieldTask:        "Invalid task selection",
	fieldDescription: "Description must be between 50 and 2000 characters",
	fieldYoutubeLink: "Invalid YouTube URL",
}

var errMalformedForm = response.NewBusinessError(
	response.WithErrorCode(response.ParseError),
	response.WithErrorMessage("Invalid multipart form"),
)

// ValidationError 表单字段验证失败
type ValidationError struct {
	Details []dto.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Details[0].Message
}

// UploadForm 解析完成的投稿表单，Files 已写入磁盘
type UploadForm struct {
	Request CreateRequest
	Files   []*storage.StoredFile
}

// FormParser 流式解析 multipart 投稿表单
// 第一个文件之前出现的文本字段在写入任何文件前完成校验
type FormParser struct {
	storage  *storage.Storage
	upload   config.UploadConfig
	minGroup int
	maxGroup int
	allowed  map[string]bool
}

func NewFormParser(st *storage.Storage, upload config.UploadConfig, sub config.SubmissionConfig) *FormParser {
	allowed := make(map[string]bool, len(upload.AllowedTypes))
	for _, ext := range upload.AllowedTypes {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &FormParser{
		storage:  st,
		upload:   upload,
		minGroup: sub.MinGroup,
		maxGroup: sub.MaxGroup,
		allowed:  allowed,
	}
}

// Parse 读取请求体；返回错误时已写入的文件均已删除
func (p *FormParser) Parse(w http.ResponseWriter, r *http.Request) (*UploadForm, error) {
	if p.upload.MaxFileSize > 0 && p.upload.MaxFiles > 0 {
		limit := p.upload.MaxFileSize*int64(p.upload.MaxFiles) + multipartSlack
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, errMalformedForm.Wrap(err)
	}

	form := &UploadForm{}
	fields := make(map[string]string, 4)
	checked := false

	fail := func(err error) (*UploadForm, error) {
		p.cleanup(form.Files)
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(p.readError(err))
		}

		name := part.FormName()
		if part.FileName() == "" {
			if isTextField(name) {
				value, err := io.ReadAll(io.LimitReader(part, maxFieldSize))
				if err != nil {
					part.Close()
					return fail(p.readError(err))
				}
				fields[name] = string(value)
			}
			part.Close()
			continue
		}

		if name != fieldFiles {
			part.Close()
			continue
		}

		if !checked {
			if _, err := p.validate(fields); err != nil {
				part.Close()
				return fail(err)
			}
			checked = true
		}

		if err := p.checkFile(part.FileName(), len(form.Files)); err != nil {
			part.Close()
			return fail(err)
		}

		sf, err := p.storage.Save(part, part.FileName(), part.Header.Get("Content-Type"))
		part.Close()
		if err != nil {
			return fail(p.saveError(err))
		}
		form.Files = append(form.Files, sf)
	}

	// 文件之后的字段可能覆盖先前的值，整体再校验一次
	req, err := p.validate(fields)
	if err != nil {
		return fail(err)
	}
	form.Request = *req
	return form, nil
}

// Cleanup 删除表单中已写入的文件
func (p *FormParser) Cleanup(form *UploadForm) {
	if form != nil {
		p.cleanup(form.Files)
	}
}

func (p *FormParser) cleanup(files []*storage.StoredFile) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.RelativePath)
	}
	p.storage.Remove(paths...)
}

// validate 校验文本字段
func (p *FormParser) validate(fields map[string]string) (*CreateRequest, error) {
	var details []dto.FieldError

	groupNumber, err := strconv.Atoi(strings.TrimSpace(fields[fieldGroupNumber]))
	if err != nil || groupNumber < p.minGroup || groupNumber > p.maxGroup {
		details = append(details, dto.FieldError{
			Field:   fieldGroupNumber,
			Message: fmt.Sprintf("Group number must be between %d and %d", p.minGroup, p.maxGroup),
		})
	}

	req := &CreateRequest{
		GroupNumber: groupNumber,
		Task:        strings.TrimSpace(fields[fieldTask]),
		Description: strings.TrimSpace(fields[fieldDescription]),
		YoutubeLink: strings.TrimSpace(fields[fieldYoutubeLink]),
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		fieldErrs, ok := dto.FieldErrors(err, fieldMessages)
		if !ok {
			return nil, err
		}
		details = append(details, fieldErrs...)
	}

	if len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}
	return req, nil
}

// checkFile 检查扩展名与数量，count 为已接受的文件数
func (p *FormParser) checkFile(name string, count int) error {
	if p.upload.MaxFiles > 0 && count >= p.upload.MaxFiles {
		return &ValidationError{Details: []dto.FieldError{{
			Field:   fieldFiles,
			Message: fmt.Sprintf("Too many files. Maximum is %d", p.upload.MaxFiles),
		}}}
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if !p.allowed[ext] {
		return &ValidationError{Details: []dto.FieldError{{
			Field: fieldFiles,
			Message: fmt.Sprintf("File type .%s is not allowed. Allowed types: %s",
				ext, strings.Join(p.upload.AllowedTypes, ", ")),
		}}}
	}
	return nil
}

// readError 读取请求体失败，超限映射为 ErrFileTooLarge，其余视为格式错误
func (p *FormParser) readError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return storage.ErrFileTooLarge
	}
	return errMalformedForm.Wrap(err)
}

// saveError 写入文件失败，磁盘错误原样返回
func (p *FormParser) saveError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, storage.ErrFileTooLarge):
		return storage.ErrFileTooLarge
	case errors.Is(err, io.ErrUnexpectedEOF):
		return errMalformedForm.Wrap(err)
	}
	return err
}

func isTextField(name string) bool {
	switch name {
	case fieldGroupNumber, fieldTask, fieldDescription, fieldYoutubeLink:
		return true
	}
	return false
}
