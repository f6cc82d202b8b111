package storage

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"taskBoard/internal/logger"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// RefPrefix — префикс публичных ссылок на файлы; сами файлы лежат в Dir.
const RefPrefix = "/uploads/"

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var ErrEmptyFile = errors.New("файл пустой")
var ErrFileNotFound = errors.New("файл не найден")

// AttachmentStore хранит файлы на диске под именем, производным от
// исходного. Повторная загрузка с тем же именем ПЕРЕЗАПИСЫВАЕТ прежний
// файл — унаследованное поведение, не исправляем молча.
type AttachmentStore struct {
	dir string
}

func New(dir string) (*AttachmentStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error("Storage: Не удалось создать каталог загрузок", err, zap.String("dir", dir))
		return nil, fmt.Errorf("создание каталога загрузок: %w", err)
	}

	logger.Info("Storage: Каталог загрузок готов", zap.String("dir", dir))
	return &AttachmentStore{dir: dir}, nil
}

// Store пишет данные и возвращает ссылку вида /uploads/<имя>.
func (s *AttachmentStore) Store(data []byte, originalFilename string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}

	name := sanitizeName(originalFilename)
	if name == "" {
		return "", fmt.Errorf("недопустимое имя файла %q", originalFilename)
	}

	target := filepath.Join(s.dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		logger.Error("Storage: Не удалось записать файл", err, zap.String("file", name))
		return "", fmt.Errorf("запись файла: %w", err)
	}

	logger.Info("Storage: Файл сохранён",
		zap.String("file", name),
		zap.Int("size", len(data)))

	return RefPrefix + name, nil
}

// расширения, которых нет во встроенной таблице Go, но которые влияют
// на disposition
var extraTypes = map[string]string{
	".docx": docxMime,
	".doc":  "application/msword",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
}

// ResolveContentType определяет MIME-тип: сначала по расширению, затем по
// содержимому файла, иначе octet-stream.
func (s *AttachmentStore) ResolveContentType(ref string) string {
	name := refToName(ref)

	ext := strings.ToLower(path.Ext(name))
	if ct, ok := extraTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}

	if mt, err := mimetype.DetectFile(filepath.Join(s.dir, name)); err == nil {
		return mt.String()
	}

	return "application/octet-stream"
}

// Serve возвращает содержимое, MIME-тип и заголовок Content-Disposition:
// inline для видео, изображений, pdf и docx, иначе принудительное скачивание.
func (s *AttachmentStore) Serve(ref string) ([]byte, string, string, error) {
	name := refToName(ref)
	if name == "" {
		return nil, "", "", ErrFileNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", "", ErrFileNotFound
		}
		logger.Error("Storage: Не удалось прочитать файл", err, zap.String("file", name))
		return nil, "", "", fmt.Errorf("чтение файла: %w", err)
	}

	contentType := s.ResolveContentType(ref)
	return data, contentType, dispositionFor(contentType, name), nil
}

func dispositionFor(contentType, name string) string {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch {
	case strings.HasPrefix(mediaType, "video/"),
		strings.HasPrefix(mediaType, "image/"),
		mediaType == "application/pdf",
		mediaType == docxMime:
		return "inline"
	}
	return fmt.Sprintf("attachment; filename=%q", name)
}

// sanitizeName сводит исходное имя к базовому, отрезая пути — ссылка не
// должна выводить за пределы каталога загрузок.
func sanitizeName(originalFilename string) string {
	name := filepath.Base(strings.TrimSpace(originalFilename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return ""
	}
	return name
}

func refToName(ref string) string {
	return sanitizeName(strings.TrimPrefix(ref, RefPrefix))
}
