package request

type CreatePaymentIntentRequest struct {
	CardNumber  string `json:"cardNumber" validate:"required,numeric,min=12,max=16"`
	ExpiryDate  string `json:"expiryDate" validate:"required,len=5"` // MM/YY
	CVV         string `json:"cvv" validate:"required,numeric,min=3,max=4"`
	PhoneNumber string `json:"phoneNumber" validate:"required,numeric,min=7,max=15"`
}

type PaymentCallbackRequest struct {
	Reference string `json:"reference" validate:"required"`
	Outcome   string `json:"outcome" validate:"required,oneof=succeeded failed"`
}
