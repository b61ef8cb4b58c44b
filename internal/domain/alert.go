package domain

import "time"

// Channel — канал, через который ушло уведомление о новом заказе.
type Channel string

const (
	ChannelSound   Channel = "sound"
	ChannelSystem  Channel = "system"
	ChannelJournal Channel = "journal"
	ChannelLog     Channel = "log"
)

// Alert — уведомление о впервые увиденном заказе в статусе из списка наблюдения.
type Alert struct {
	OrderID    string    `json:"order_id"`
	OrderCode  string    `json:"order_code"`
	Status     string    `json:"status"`
	Service    string    `json:"service"`
	Price      float64   `json:"price"`
	DetectedAt time.Time `json:"detected_at"`
	Channels   []Channel `json:"channels,omitempty"`
}

// NewAlert — собирает уведомление из заказа.
func NewAlert(o *Order, at time.Time) Alert {
	return Alert{
		OrderID:    o.ID,
		OrderCode:  o.Code,
		Status:     o.Status,
		Service:    o.Service.Name,
		Price:      o.Price,
		DetectedAt: at,
	}
}
