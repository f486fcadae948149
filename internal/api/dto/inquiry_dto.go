package dto

import "time"

// InquiryRequest submits interest in a property.
type InquiryRequest struct {
	Text string `json:"inquiry_text" form:"inquiry_text" validate:"max=2000"`
}

// DashboardActionRequest is a dashboard form post.
type DashboardActionRequest struct {
	Action    string `json:"action" form:"action" validate:"required,oneof=buy cancel process"`
	RequestID string `json:"request_id" form:"request_id"`
}

// TransactionUpdateRequest changes the agent of a deal.
type TransactionUpdateRequest struct {
	AgentID *string `json:"agent_id"`
}

// InquiryResponse response.
type InquiryResponse struct {
	ID          string            `json:"id"`
	PropertyID  string            `json:"property_id"`
	BuyerID     string            `json:"buyer_id"`
	AgentID     *string           `json:"agent_id"`
	InquiryText string            `json:"inquiry_text"`
	State       string            `json:"state"`
	CreatedAt   time.Time         `json:"created_at"`
	Property    *PropertyResponse `json:"property,omitempty"`
	Buyer       *ClientResponse   `json:"buyer,omitempty"`
	Agent       *EmployeeResponse `json:"agent,omitempty"`
}

// TransactionResponse response.
type TransactionResponse struct {
	ID              string            `json:"id"`
	PropertyID      string            `json:"property_id"`
	BuyerID         *string           `json:"buyer_id"`
	AgentID         *string           `json:"agent_id"`
	ContractDate    time.Time         `json:"contract_date"`
	TransactionDate time.Time         `json:"transaction_date"`
	TotalAmount     string            `json:"total_amount"`
	Property        *PropertyResponse `json:"property,omitempty"`
	Buyer           *ClientResponse   `json:"buyer,omitempty"`
	Agent           *EmployeeResponse `json:"agent,omitempty"`
}

// ResolutionResponse is the outcome of a dashboard action.
type ResolutionResponse struct {
	Inquiry     InquiryResponse      `json:"inquiry"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
	Message     string               `json:"message"`
}
