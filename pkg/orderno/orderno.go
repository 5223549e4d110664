// Package orderno генерирует номера заказов на закупку.
package orderno

import (
	"fmt"
	"time"
)

// Prefix — постоянный префикс номера заказа на закупку.
const Prefix = "PO"

// Generate возвращает номер вида PO-ddmmyy-HHMMSS-mmm.
// Миллисекунды уменьшают вероятность коллизий внутри одной секунды,
// окончательная уникальность обеспечивается индексом и повтором на стороне вызывающего.
func Generate(now time.Time) string {
	return fmt.Sprintf("%s-%s-%s-%03d",
		Prefix,
		now.Format("020106"),
		now.Format("150405"),
		now.Nanosecond()/int(time.Millisecond),
	)
}
