package approver

type CreateApproverRequest struct {
	Name       string  `json:"name" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Role       string  `json:"role" binding:"required,oneof=HR IT Legal Finance Manager Executive"`
	DelegateTo *string `json:"delegate_to"`
}

type ApproverResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	DelegateTo *string `json:"delegate_to,omitempty"`
}
