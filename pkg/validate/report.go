package validate

import (
	"fmt"
	"io"
	"slices"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// maxReportedErrors — сколько ошибок по записям хранится в отчёте.
const maxReportedErrors = 20

// RecordError — ошибка валидации записи. Record — номер строки JSONL или позиция в JSON-массиве (с 1).
type RecordError struct {
	Record int
	Err    error
}

// Report — итог проверки выгрузки.
type Report struct {
	Valid    int
	Invalid  int
	Statuses map[string]int // валидные заказы по статусам
	Errors   []RecordError  // первые maxReportedErrors ошибок
}

func (r *Report) accept(o *domain.Order) {
	r.Valid++
	if r.Statuses == nil {
		r.Statuses = make(map[string]int)
	}
	r.Statuses[o.Status]++
}

func (r *Report) reject(record int, err error) {
	r.Invalid++
	if len(r.Errors) < maxReportedErrors {
		r.Errors = append(r.Errors, RecordError{Record: record, Err: err})
	}
}

func (r Report) String() string {
	return fmt.Sprintf("%d valid / %d invalid", r.Valid, r.Invalid)
}

// WriteDetails — разбивка по статусам и ошибки записей, построчно.
func (r Report) WriteDetails(w io.Writer) error {
	statuses := make([]string, 0, len(r.Statuses))
	for s := range r.Statuses {
		statuses = append(statuses, s)
	}
	slices.Sort(statuses)

	for _, s := range statuses {
		if _, err := fmt.Fprintf(w, "status %s: %d\n", s, r.Statuses[s]); err != nil {
			return err
		}
	}
	for _, e := range r.Errors {
		if _, err := fmt.Fprintf(w, "record %d: %v\n", e.Record, e.Err); err != nil {
			return err
		}
	}
	if skipped := r.Invalid - len(r.Errors); skipped > 0 {
		if _, err := fmt.Fprintf(w, "... and %d more invalid records\n", skipped); err != nil {
			return err
		}
	}
	return nil
}
