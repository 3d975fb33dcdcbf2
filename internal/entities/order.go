package entities

type PaymentMethod string

const (
	PaymentUnset PaymentMethod = ""
	PaymentCard  PaymentMethod = "card"
	PaymentCash  PaymentMethod = "cash"
)

func (m PaymentMethod) Known() bool {
	return m == PaymentCard || m == PaymentCash
}

// Draft field names, also used as keys in ValidationErrors.
const (
	FieldPayment = "payment"
	FieldAddress = "address"
	FieldEmail   = "email"
	FieldPhone   = "phone"
)

// OrderRequest is assembled once at submission time and never mutated.
type OrderRequest struct {
	Payment PaymentMethod
	Email   string
	Phone   string
	Address string
	Total   int
	Items   []string
}

// OrderConfirmation is the transport collaborator's response.
type OrderConfirmation struct {
	ID    string
	Total int
}
