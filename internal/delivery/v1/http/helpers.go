package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/araddon/dateparse"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	dateLayout = "2006-01-02"
	// сколько multipart-данных держим в памяти, остальное уходит во временные файлы
	maxMultipartMemory = 32 << 20
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string, err error) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
		Error:   err.Error(),
	}
}

// ToHTTPResponse сопоставляет вид ошибки статусу ответа.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrValidation):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, e.ErrDuplicateName):
		return http.StatusConflict, e.ErrDuplicateName.Error()
	case errors.Is(err, e.ErrDuplicateBatch):
		return http.StatusConflict, e.ErrDuplicateBatch.Error()
	case errors.Is(err, e.ErrConflict):
		return http.StatusConflict, e.ErrConflict.Error()
	case errors.Is(err, e.ErrReferenced):
		return http.StatusConflict, e.ErrReferenced.Error()
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrNotFound.Error()
	case errors.Is(err, e.ErrDependency):
		return http.StatusServiceUnavailable, e.ErrDependency.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	resp := NewErrorResponse(code, msg, err)
	// Внутренние подробности клиенту не отдаём
	if code == http.StatusInternalServerError {
		resp.Error = msg
	}
	WriteSuccess(w, code, resp)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func WriteMessage(w http.ResponseWriter, message string) {
	WriteSuccess(w, http.StatusOK, MessageResponse{Message: message})
}

// decodeJSON читает тело запроса в dst. Неизвестные поля отклоняются.
func decodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	return nil
}

// pathID читает положительный числовой параметр пути.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(name+"="+raw, e.ErrInvalidID)
	}
	return id, nil
}

// queryInt читает необязательный целочисленный параметр запроса не больше upper. Пустое значение даёт 0.
func queryInt(r *http.Request, name string, upper int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v > upper {
		return 0, e.Wrap(name+"="+raw, e.ErrStatusBadRequest)
	}
	return v, nil
}

func queryID(r *http.Request, name string) (*int64, error) {
	return optionalID(name, r.URL.Query().Get(name))
}

// optionalID разбирает необязательный положительный id. Пустое значение даёт nil.
func optionalID(name, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, e.Wrap(name+"="+raw, e.ErrInvalidID)
	}
	return &id, nil
}

// queryIDs разбирает список вида ids=1,2,3.
func queryIDs(r *http.Request, name string) ([]int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, e.ErrNoProducts
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, e.Wrap(name+"="+part, e.ErrInvalidID)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, e.ErrNoProducts
	}
	return ids, nil
}

func queryDate(r *http.Request, name string) (*time.Time, error) {
	return parseDate(r.URL.Query().Get(name))
}

// parseDate принимает YYYY-MM-DD и другие распространённые записи даты. Пустая строка даёт nil.
func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil, e.Wrap("date "+raw, e.ErrStatusBadRequest)
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	return nil
}

// parseImages читает файлы изображений. Пустой список допустим, его проверяет вызывающий.
func parseImages(files []*multipart.FileHeader, maxImages int, maxFileSize int64) ([]usecase.ProductImage, error) {
	if maxImages > 0 && len(files) > maxImages {
		return nil, e.ErrTooManyImages
	}

	images := make([]usecase.ProductImage, 0, len(files))
	for _, fh := range files {
		data, mimeType, err := readFile(fh, maxFileSize)
		if err != nil {
			return nil, err
		}
		images = append(images, *usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename))
	}
	return images, nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	if maxSize > 0 && fh.Size > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.Wrap(whereami.WhereAmI(), err)
	}
	if len(data) == 0 {
		return nil, "", e.Wrap(fh.Filename, e.ErrEmptyImage)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}
