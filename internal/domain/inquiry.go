package domain

import "time"

// InquiryState enumerates lifecycle states for inquiries.
type InquiryState string

const (
	InquiryStatePending    InquiryState = "pending"
	InquiryStateProcessing InquiryState = "processing"
	InquiryStateCompleted  InquiryState = "completed"
)

// ActiveInquiryStates count towards an agent's load.
var ActiveInquiryStates = []InquiryState{InquiryStatePending, InquiryStateProcessing}

// InquiryAction is a resolution request against an inquiry.
type InquiryAction string

const (
	InquiryActionBuy     InquiryAction = "buy"
	InquiryActionCancel  InquiryAction = "cancel"
	InquiryActionProcess InquiryAction = "process"
)

var allowedInquiryTransitions = map[InquiryState][]InquiryState{
	InquiryStatePending:    {InquiryStateProcessing, InquiryStateCompleted},
	InquiryStateProcessing: {InquiryStateCompleted},
	InquiryStateCompleted:  {},
}

// CanTransition reports whether current may move to next.
func CanTransition(current, next InquiryState) bool {
	for _, candidate := range allowedInquiryTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Target returns the state an action leads to.
func (a InquiryAction) Target() (InquiryState, bool) {
	switch a {
	case InquiryActionBuy, InquiryActionCancel:
		return InquiryStateCompleted, true
	case InquiryActionProcess:
		return InquiryStateProcessing, true
	}
	return "", false
}

// PropertyInquiry records a client's interest in a property.
type PropertyInquiry struct {
	ID          string
	PropertyID  string
	BuyerID     string
	AgentID     *string
	InquiryText string
	State       InquiryState
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Property *Property
	Buyer    *Client
	Agent    *Employee
}

// IsActive reports whether the inquiry still awaits resolution.
func (i *PropertyInquiry) IsActive() bool {
	return i.State == InquiryStatePending || i.State == InquiryStateProcessing
}

// AgentWorkload is an employee with the count of its active inquiries.
type AgentWorkload struct {
	Employee    Employee
	ActiveCount int
}
