package domain

import "time"

// DictionaryKind определяет справочник каталога.
type DictionaryKind string

const (
	KindBrand    DictionaryKind = "brands"
	KindCategory DictionaryKind = "categories"
	KindCurrency DictionaryKind = "currencies"
)

// Dictionary описывает запись справочника: бренд, категорию или валюту.
type Dictionary struct {
	ID          int64
	Kind        DictionaryKind
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func NewDictionary(kind DictionaryKind, name, description string) *Dictionary {
	return &Dictionary{
		Kind:        kind,
		Name:        name,
		Description: description,
	}
}

// Valid сообщает, известен ли справочник.
func (k DictionaryKind) Valid() bool {
	switch k {
	case KindBrand, KindCategory, KindCurrency:
		return true
	default:
		return false
	}
}
