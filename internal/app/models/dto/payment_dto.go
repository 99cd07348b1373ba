package dto

// InitializePaymentRequest starts a payment for a fee
type InitializePaymentRequest struct {
	FeeID int64 `json:"feeId" binding:"required,min=1"`
}

// InitializePaymentResponse carries the gateway checkout URL. The client
// redirects the student to AuthorizationURL to complete payment.
type InitializePaymentResponse struct {
	AuthorizationURL string `json:"authorizationUrl"`
	Reference        string `json:"reference"`
}

// WebhookEvent is the Paystack webhook envelope. Only the fields we act on
// are decoded; the raw body is what the signature covers.
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

// WebhookData is the transaction payload inside a webhook event
type WebhookData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}
