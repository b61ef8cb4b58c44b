package domain

import "time"

// Статусы заказа, которые встречаются в ответах API витрины.
const (
	StatusRequested  = "requested"
	StatusAccepted   = "accepted"
	StatusInProgress = "in_progress"
	StatusReady      = "ready"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Order — нормализованный заказ, который видит UI.
type Order struct {
	ID         string     `json:"id"`
	Code       string     `json:"code"`
	Status     string     `json:"status"`
	Urgency    float64    `json:"urgency"`
	Service    Service    `json:"service"`
	Addresses  Addresses  `json:"addresses"`
	Price      float64    `json:"price"`
	Timestamps Timestamps `json:"timestamps"`
	User       User       `json:"user"`
}

type Service struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type Addresses struct {
	Pickup   string `json:"pickup,omitempty"`
	Delivery string `json:"delivery,omitempty"`
}

type Timestamps struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}
