package models

import "time"

// TokenResponse is returned by login, refresh and SSO callback.
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresIn    int       `json:"expiresIn"`
	RefreshToken string    `json:"refreshToken"`
	TokenID      string    `json:"tokenID"`
	IssuedAt     time.Time `json:"issuedAt"`
	User         *User     `json:"user,omitempty"`
}

// RefreshRecord is what the token store keeps per refresh token hash.
type RefreshRecord struct {
	UserID     string    `json:"userID"`
	CustomerID string    `json:"customerID"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// SSOState binds an in-flight SSO redirect to a customer and provider.
type SSOState struct {
	CustomerID string `json:"customerID"`
	Provider   string `json:"provider"`
	Nonce      string `json:"nonce"`
}
