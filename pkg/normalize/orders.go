// Package normalize приводит ответы API витрины к доменным типам.
// Форма ответа может «плыть», поэтому разбор мягкий: неизвестная форма
// даёт пустой список, а не ошибку.
package normalize

import (
	"bytes"
	"encoding/json"

	"github.com/Gunvolt24/storefront-prefetch/internal/domain"
)

// Orders — список заказов из массива или объекта {"results": [...]}.
// Элементы, не являющиеся объектами, пропускаются.
func Orders(raw []byte) []domain.Order {
	doc, err := decode(raw)
	if err != nil {
		return []domain.Order{}
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		if results, ok := v["results"].([]any); ok {
			items = results
		}
	}

	out := make([]domain.Order, 0, len(items))
	for _, it := range items {
		if rec, ok := it.(map[string]any); ok {
			out = append(out, Order(rec))
		}
	}
	return out
}

// Order — заказ из одной записи с запасными именами полей.
func Order(rec map[string]any) domain.Order {
	o := domain.Order{
		ID:      str(rec["id"]),
		Status:  lower(str(rec["status"])),
		Urgency: num(first(rec, "urgency", "urgency_score")),
		Price:   num(first(rec, "price", "total_price", "amount")),
	}

	o.Code = str(first(rec, "code", "order_code", "number"))
	if o.Code == "" && o.ID != "" {
		o.Code = "#" + o.ID
	}

	o.Service = service(rec["service"])
	o.Addresses = addresses(rec)
	o.Timestamps = domain.Timestamps{
		CreatedAt:   timestamp(rec["created_at"]),
		UpdatedAt:   timestamp(rec["updated_at"]),
		ScheduledAt: timestamp(rec["scheduled_at"]),
	}
	o.User = user(rec["user"])

	return o
}

// Object — разбор одной JSON-записи (числа сохраняются как json.Number).
func Object(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var rec map[string]any
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errTrailingData
	}
	return rec, nil
}

func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
