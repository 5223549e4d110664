package e

import (
	"errors"
	"fmt"
)

// Виды ошибок, которые различает граница сервиса.
var (
	ErrValidation     = errors.New("validation error")
	ErrDuplicateName  = errors.New("duplicate name")
	ErrDuplicateBatch = errors.New("duplicate batch")
	ErrNotFound       = errors.New("not found")
	ErrDependency     = errors.New("dependency failure")
	ErrConflict       = errors.New("concurrent modification")
	ErrReferenced     = errors.New("entity is still referenced")
)

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("%w: bad request", ErrValidation)
	ErrExpectedMultipart    = fmt.Errorf("%w: expected multipart/form-data", ErrValidation)
	ErrInvalidID            = fmt.Errorf("%w: invalid id", ErrValidation)
	ErrInvalidPrice         = fmt.Errorf("%w: invalid price", ErrValidation)
	ErrInvalidQuantity      = fmt.Errorf("%w: quantity must be positive", ErrValidation)
	ErrNegativeQuantity     = fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	ErrInvalidProductID     = fmt.Errorf("%w: product id is required", ErrValidation)
	ErrInvalidVariant       = fmt.Errorf("%w: variant type must be color or size", ErrValidation)
	ErrUnknownDictionary    = fmt.Errorf("%w: unknown dictionary", ErrValidation)
	ErrInvalidExchangeRate  = fmt.Errorf("%w: exchange rate must be positive", ErrValidation)
	ErrNameRequired         = fmt.Errorf("%w: name is required", ErrValidation)
	ErrImagesMalformed      = fmt.Errorf("%w: images must be a list of files", ErrValidation)
	ErrEmptyImage           = fmt.Errorf("%w: image is empty", ErrValidation)
	ErrTooManyImages        = fmt.Errorf("%w: too many images", ErrValidation)
	ErrFileTooLarge         = fmt.Errorf("%w: file too large", ErrValidation)
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported media type", ErrValidation)
	ErrEmptyPurchaseLines   = fmt.Errorf("%w: purchase lines are empty", ErrValidation)
	ErrEmptyImport          = fmt.Errorf("%w: import file has no rows", ErrValidation)
	ErrImportMalformed      = fmt.Errorf("%w: import file is not a valid xlsx workbook", ErrValidation)
	ErrImportHeader         = fmt.Errorf("%w: import header must contain Name and Qty columns", ErrValidation)
	ErrNoProducts           = fmt.Errorf("%w: no product ids", ErrValidation)

	// 404 Not Found
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrBatchNotFound    = fmt.Errorf("batch %w", ErrNotFound)
	ErrImageNotFound    = fmt.Errorf("image %w", ErrNotFound)
	ErrPurchaseNotFound = fmt.Errorf("purchase %w", ErrNotFound)
	ErrCurrencyNotFound = fmt.Errorf("currency %w", ErrNotFound)
	ErrEntityNotFound   = fmt.Errorf("entity %w", ErrNotFound)

	// 409 Conflict
	ErrDuplicateOrderNumber = fmt.Errorf("%w: order number", ErrConflict)

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// Dependency помечает ошибку внешней зависимости (БД, S3, кэш), сохраняя исходную причину.
func Dependency(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrDependency, err)
}
