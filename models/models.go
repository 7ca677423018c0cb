package models

import (
	"time"

	_ "github.com/lib/pq"
)

// Contractor is the tenant: one painting business with its own users,
// products, schemes and quotes.
type Contractor struct {
	ID          int       `json:"id" example:"1"`
	CompanyName string    `json:"company_name" example:"Fresh Coat Painting LLC"`
	Email       string    `json:"email" example:"office@freshcoat.example"`
	PhoneNo     string    `json:"phone_no" example:"4155550133"`
	Address     string    `json:"address" example:"123 Main St"`
	City        string    `json:"city" example:"San Francisco"`
	State       string    `json:"state" example:"CA"`
	ZipCode     string    `json:"zip_code" example:"94117"`
	Suspended   bool      `json:"suspended" example:"false"`
	CreatedAt   time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt   time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

type User struct {
	ID           int       `json:"id" example:"1"`
	ContractorID int       `json:"contractor_id" example:"1"`
	Email        string    `json:"email" example:"user@example.com"`
	Password     string    `json:"password,omitempty" example:""`
	FirstName    string    `json:"first_name" example:"John"`
	LastName     string    `json:"last_name" example:"Doe"`
	IsAdmin      bool      `json:"is_admin" example:"false"`
	Suspended    bool      `json:"suspended" example:"false"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
	LastAccess   time.Time `json:"last_access,omitempty" example:"2024-01-15T10:30:00Z"`
}

// Customer is a homeowner/client of a contractor; portal quotes are shared
// with them by token.
type Customer struct {
	ID           int       `json:"id" example:"1"`
	ContractorID int       `json:"contractor_id" example:"1"`
	FirstName    string    `json:"first_name" example:"Maria"`
	LastName     string    `json:"last_name" example:"Garcia"`
	Email        string    `json:"email" example:"maria@example.com"`
	PhoneNo      string    `json:"phone_no" example:"4155550177"`
	Address      string    `json:"address" example:"44 Elm St"`
	City         string    `json:"city" example:"San Francisco"`
	State        string    `json:"state" example:"CA"`
	ZipCode      string    `json:"zip_code" example:"94117"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt    time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
}

type Session struct {
	UserID                int       `json:"user_id"`
	SessionID             string    `json:"session_id"`
	HostName              string    `json:"host_name"`
	IPAddress             string    `json:"ip_address"`
	Timestamp             time.Time `json:"timestp"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty"`
}

type ActivityLog struct {
	ID           int       `json:"id" example:"1"`
	CreatedAt    time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UserName     string    `json:"user_name" example:"John Doe"`
	HostName     string    `json:"host_name" example:"workstation-01"`
	EventContext string    `json:"event_context" example:"quote"`
	IPAddress    string    `json:"ip_address" example:"192.168.1.1"`
	Description  string    `json:"description" example:"Created quote Q-AB12345"`
	EventName    string    `json:"event_name" example:"create"`
	ContractorID int       `json:"contractor_id" example:"1"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid input"`
	Details string `json:"details,omitempty" example:""`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"user@example.com"`
	Password string `json:"password" binding:"required" example:""`
	IP       string `json:"ip" example:"192.168.1.1"`
}

type LoginResponse struct {
	Message      string `json:"message" example:"Login successful"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
	User         User   `json:"user"`
}
