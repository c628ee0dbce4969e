package transport

import (
	"github.com/google/uuid"

	"github.com/dmarochkin/keebshop/internal/models"
)

type CreateProductRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Price       int64             `json:"price"`
	Discount    uint              `json:"discount"`
	Quantity    int64             `json:"quantity"`
	Images      []string          `json:"images"`
	Specs       map[string]string `json:"specs"`
	Info        []models.InfoPair `json:"info"`
}

type PatchProductRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Price       *int64             `json:"price"`
	Discount    *uint              `json:"discount"`
	Quantity    *int64             `json:"quantity"`
	Images      *[]string          `json:"images"`
	Specs       *map[string]string `json:"specs"`
	Info        *[]models.InfoPair `json:"info"`
}

type ListMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductListResponse struct {
	Data []models.Product `json:"data"`
	Meta ListMeta         `json:"meta"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  uint      `json:"quantity"`
}

// Quantity is signed on purpose: zero or negative means "remove the line".
type SetCartQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type RemoveCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

type CartResponse struct {
	Items      []models.CartItem `json:"items"`
	TotalItems uint              `json:"total_items"`
	TotalPrice int64             `json:"total_price"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IsAdmin      bool   `json:"is_admin"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

type CreateIntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type CompleteCheckoutRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
	Email           string `json:"email"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
