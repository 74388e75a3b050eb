package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	IsAvailable bool            `json:"is_available"`
	CategoryID  int64           `json:"category_id"`
}

// ProductInput is the form behind create and edit product screens.
type ProductInput struct {
	Name        string
	Price       string
	Description string
	CategoryID  int64
	IsAvailable bool
	Image       []byte // optional, any format image.Decode understands
}

type Profile struct {
	BusinessName string `json:"business_name"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	LogoURL      string `json:"logo_url,omitempty"`
}

// Agent is a collection point operator created by the merchant.
type Agent struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"agent_name"`
	Email        string  `json:"agent_email"`
	Phone        string  `json:"agent_phone"`
	Password     string  `json:"agent_password,omitempty"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	LocationName string  `json:"location_name"`
}

type Review struct {
	ID           int64     `json:"id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token      string `json:"token"`
	IsMerchant bool   `json:"isMerchant"`
	UserType   string `json:"user_type,omitempty"`
}

type Registration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone"`
	BusinessName string `json:"business_name"`
	Description  string `json:"description"`
	Address      string `json:"address"`
	UserType     string `json:"user_type"`
}

// Message is the generic {"message": ...} body the backend answers with.
type Message struct {
	Message string `json:"message"`
}
