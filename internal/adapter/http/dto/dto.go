package dto

// RegisterRequest is the request body for participant registration.
type RegisterRequest struct {
	Username    string  `json:"username" binding:"required,min=3,max=50"`
	Password    string  `json:"password" binding:"required,min=8,max=128"`
	DisplayName string  `json:"display_name" binding:"required,min=1,max=100"`
	WebhookURL  *string `json:"webhook_url,omitempty" binding:"omitempty,safe_url"`
}

// LoginRequest is the request body for participant login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	ParticipantID string `json:"participant_id"`
	WebhookSecret string `json:"webhook_secret"` // shown only once
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// OnboardRequest is the request body for batch beneficiary onboarding.
type OnboardRequest struct {
	Accounts []string `json:"accounts" binding:"required,min=1,max=500,dive,uuid"`
}

// OnboardResponse reports how many accounts were newly onboarded.
type OnboardResponse struct {
	Requested int `json:"requested"`
	Added     int `json:"added"`
}

// RegisterVendorRequest is the request body for vendor registration.
type RegisterVendorRequest struct {
	Account  string `json:"account" binding:"required,uuid"`
	Category string `json:"category" binding:"required"`
}

// DistributeRequest is the request body for an aid distribution.
type DistributeRequest struct {
	Beneficiary string `json:"beneficiary" binding:"required,uuid"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	ReferenceID string `json:"reference_id" binding:"required,max=100,safe_id"`
}

// TransferRequest is the request body for a transfer.
type TransferRequest struct {
	Recipient   string `json:"recipient" binding:"required,uuid"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	ReferenceID string `json:"reference_id" binding:"required,max=100,safe_id"`
}

// TransferResponse is the response body for transfer and distribution results.
type TransferResponse struct {
	ID          string  `json:"id"`
	ReferenceID string  `json:"reference_id"`
	Kind        string  `json:"kind"`
	FromAccount *string `json:"from_account,omitempty"`
	ToAccount   string  `json:"to_account"`
	Amount      int64   `json:"amount"`
	Category    string  `json:"category"`
	DayIndex    int64   `json:"day_index"`
	CreatedAt   string  `json:"created_at"`
}

// TransferListResponse wraps a paginated transfer list.
type TransferListResponse struct {
	Items      []TransferResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

// SpentTodayResponse is the response for a daily-spend query.
type SpentTodayResponse struct {
	AccountID  string `json:"account_id"`
	SpentToday int64  `json:"spent_today"`
	DailyLimit int64  `json:"daily_limit"`
}

// AidViewResponse is the combined per-beneficiary dashboard view.
type AidViewResponse struct {
	AccountID  string `json:"account_id"`
	Balance    int64  `json:"balance"`
	SpentToday int64  `json:"spent_today"`
	DailyLimit int64  `json:"daily_limit"`
	DayIndex   int64  `json:"day_index"`
}

// CategoryTotalResponse is one category's cumulative vendor spend.
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// BeneficiaryStatusResponse reports registry membership for an account.
type BeneficiaryStatusResponse struct {
	AccountID string `json:"account_id"`
	Onboarded bool   `json:"onboarded"`
}

// VendorResponse describes a registered vendor.
type VendorResponse struct {
	AccountID string `json:"account_id"`
	Category  string `json:"category"`
}

// ProgramInfoResponse exposes the program parameters.
type ProgramInfoResponse struct {
	DailyLimit       int64    `json:"daily_limit"`
	DayLengthSeconds int64    `json:"day_length_seconds"`
	Categories       []string `json:"categories"`
}

// UpdateWebhookRequest is the request body for webhook URL updates.
type UpdateWebhookRequest struct {
	WebhookURL *string `json:"webhook_url" binding:"omitempty,safe_url"`
}

// ProfileResponse is the authenticated participant's own profile.
type ProfileResponse struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	WebhookURL  *string `json:"webhook_url,omitempty"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
}

// RotateSecretResponse carries the new webhook secret. It is shown once;
// only the encrypted form is stored.
type RotateSecretResponse struct {
	WebhookSecret string `json:"webhook_secret"`
}
