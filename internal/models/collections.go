package models

import (
	"slices"
	"time"
)

// Имена коллекций, синхронизируемых клиентом
const (
	CollectionOrders   = "orders"
	CollectionClients  = "clients"
	CollectionServices = "services"
	CollectionWorkers  = "workers"
)

// Collections returns every collection name known to the client and the server.
func Collections() []string {
	return []string{CollectionOrders, CollectionClients, CollectionServices, CollectionWorkers}
}

// IsCollection reports whether name is a known collection.
func IsCollection(name string) bool {
	return slices.Contains(Collections(), name)
}

// Order статусы
const (
	OrderStatusNew        = "new"
	OrderStatusScheduled  = "scheduled"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order представляет заказ-наряд (work order)
type Order struct {
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id,omitempty"`
	ClientID    string    `json:"client_id,omitempty"`
	WorkerID    string    `json:"worker_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Total       float64   `json:"total,omitempty"`
}

func (o Order) GetID() string { return o.ID }

func (o Order) WithID(id string) Order {
	o.ID = id
	return o
}

// Client представляет заказчика
type Client struct {
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

func (c Client) GetID() string { return c.ID }

func (c Client) WithID(id string) Client {
	c.ID = id
	return c
}

// Service представляет услугу из прайс-листа подрядчика
type Service struct {
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	Price       float64   `json:"price,omitempty"`
	Active      bool      `json:"active"`
}

func (s Service) GetID() string { return s.ID }

func (s Service) WithID(id string) Service {
	s.ID = id
	return s
}

// Worker представляет исполнителя (сотрудника подрядчика)
type Worker struct {
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role,omitempty"`
	Active    bool      `json:"active"`
}

func (w Worker) GetID() string { return w.ID }

func (w Worker) WithID(id string) Worker {
	w.ID = id
	return w
}
