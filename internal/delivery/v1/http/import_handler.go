package http

import (
	"io"
	"net/http"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

// ImportParser превращает загруженный файл в строки импорта.
type ImportParser interface {
	Parse(r io.Reader) ([]usecase.ImportRow, error)
}

type ImportHandler struct {
	importUsecase usecase.ImportUC
	parser        ImportParser
	maxFileSize   int64
}

func NewImportHandler(importUsecase usecase.ImportUC, parser ImportParser, maxFileSize int64) *ImportHandler {
	return &ImportHandler{importUsecase: importUsecase, parser: parser, maxFileSize: maxFileSize}
}

// importExcel
//
//	@Summary		Импорт остатков из Excel
//	@Description	Каждая строка файла становится строкой одной закупки. Строки с неизвестным брендом или категорией пропускаются
//	@Tags			import
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file		formData	file	true	"xlsx-файл"
//	@Param			currencyId	formData	int		false	"Валюта закупки"
//	@Success		200			{object}	ImportResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/import/excel [post]
func (i *ImportHandler) importExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, i.maxFileSize+1<<20)
	if err := ensureMultipartForm(r, maxMultipartMemory); err != nil {
		WriteError(w, err)
		return
	}

	currencyID, err := optionalID("currencyId", r.FormValue("currencyId"))
	if err != nil {
		WriteError(w, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, e.Wrap("file", e.ErrStatusBadRequest))
		return
	}
	defer file.Close()
	if i.maxFileSize > 0 && header.Size > i.maxFileSize {
		WriteError(w, e.Wrap(header.Filename, e.ErrFileTooLarge))
		return
	}

	rows, err := i.parser.Parse(file)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := i.importUsecase.Import(r.Context(), &usecase.ImportReq{Rows: rows, CurrencyID: currencyID})
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, ImportResponse{
		Imported:    res.Imported,
		Skipped:     res.Skipped,
		PurchaseID:  res.PurchaseID,
		OrderNumber: res.OrderNumber,
	})
}
