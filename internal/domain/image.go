package domain

// Image описывает изображение товара, которое хранится в S3
type Image struct {
	ID       string // uuid
	URL      string
	FileName string // ключ объекта в хранилище
}

func NewImage(id, url, fileName string) *Image {
	return &Image{
		ID:       id,
		URL:      url,
		FileName: fileName,
	}
}

// SupportedImageTypes сопоставляет MIME-тип изображения расширению файла.
var SupportedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// IsSupportedImageType сообщает, можно ли хранить изображение такого типа.
func IsSupportedImageType(mime string) bool {
	_, ok := SupportedImageTypes[mime]
	return ok
}
