package infrastructure

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// ImageObjectKey строит ключ объекта вида <prefix>/<imageID>.<ext>.
// Расширение берётся из MIME-типа, неподдерживаемый тип даёт e.ErrUnsupportedMediaType.
func ImageObjectKey(prefix, imageID, mime string) (string, error) {
	ext, ok := domain.SupportedImageTypes[strings.ToLower(mime)]
	if !ok {
		return "", e.ErrUnsupportedMediaType
	}

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fmt.Sprintf("%s.%s", imageID, ext), nil
	}
	return fmt.Sprintf("%s/%s.%s", prefix, imageID, ext), nil
}
