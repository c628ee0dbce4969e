package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prices are integer cents throughout; the payments provider takes the
// same unit, so checkout never rounds.

type Product struct {
	ID          uuid.UUID    `gorm:"primaryKey"    json:"id"`
	Title       string       `gorm:"not null"      json:"title"`
	Description string       `json:"description"`
	Price       int64        `gorm:"not null"      json:"price"`
	Discount    uint         `gorm:"default:0"     json:"discount"`
	Quantity    int64        `gorm:"not null"      json:"quantity"`
	Images      StringList   `gorm:"type:jsonb"    json:"images"`
	Specs       SpecMap      `gorm:"type:jsonb"    json:"specs"`
	Info        InfoPairList `gorm:"type:jsonb"    json:"info"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectivePrice is the unit price after the discount percent is applied.
func (p *Product) EffectivePrice() int64 {
	if p.Discount == 0 {
		return p.Price
	}
	return p.Price * int64(100-p.Discount) / 100
}

type User struct {
	ID           uuid.UUID `gorm:"primaryKey"       json:"id"`
	Email        string    `gorm:"unique;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"         json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	AvatarURL    string    `json:"avatar_url"`
	Role         string    `gorm:"not null"         json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"       json:"id"`
	JTI       string    `gorm:"unique;not null"  json:"jti"`
	UserID    uuid.UUID `gorm:"index;not null"   json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"         json:"expires_at"`
	Revoked   bool      `gorm:"default:false"    json:"revoked"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                             json:"id"`
	UserID    uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_user_product;not null"  json:"product_id"`
	Title     string    `gorm:"not null"                               json:"title"`
	UnitPrice int64     `gorm:"not null"                               json:"unit_price"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"             json:"quantity"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string { return "cart_items" }

const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              uuid.UUID   `gorm:"primaryKey"       json:"id"`
	UserID          uuid.UUID   `gorm:"index;not null"   json:"user_id"`
	Email           string      `gorm:"not null"         json:"email"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount     int64       `gorm:"not null"         json:"total_amount"`
	Status          string      `gorm:"not null"         json:"status"`
	PaymentIntentID string      `gorm:"uniqueIndex;not null" json:"payment_intent_id"`
	CreatedAt       time.Time   `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem is a snapshot of a cart line at checkout; later product edits
// never touch recorded orders.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	OrderID   uuid.UUID `gorm:"index;not null"  json:"order_id"`
	ProductID uuid.UUID `gorm:"not null"        json:"product_id"`
	Title     string    `gorm:"not null"        json:"title"`
	UnitPrice int64     `gorm:"not null"        json:"unit_price"`
	Quantity  uint      `gorm:"not null"        json:"quantity"`
	LineTotal int64     `gorm:"not null"        json:"line_total"`
}
