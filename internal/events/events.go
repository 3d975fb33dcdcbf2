package events

import "github.com/weblarek/storefront/internal/entities"

// Kind names an event. Payloads are tagged variants: one struct per kind,
// so subscribers never have to guess what a publisher sent.
type Kind string

// Model events.
const (
	KindProductsChanged   Kind = "products:changed"
	KindProductSelected   Kind = "product:selected"
	KindCartChanged       Kind = "cart:changed"
	KindDraftFieldChanged Kind = "draft:field-changed"
	KindDraftReset        Kind = "draft:reset"
)

// UI events.
const (
	KindCardSelected          Kind = "card:select"
	KindCardAdded             Kind = "card:add"
	KindCardRemoved           Kind = "card:remove"
	KindCartLineRemoved       Kind = "cart:line-removed"
	KindCartOpened            Kind = "cart:open"
	KindCheckoutRequested     Kind = "cart:checkout"
	KindOrderStepSubmitted    Kind = "order:submit"
	KindContactsStepSubmitted Kind = "contacts:submit"
	KindModalClosed           Kind = "modal:close"
	KindSuccessAcknowledged   Kind = "success:close"
)

type Event interface {
	Kind() Kind
}

// ProductsChanged is published when the catalog is replaced wholesale.
type ProductsChanged struct {
	Products []entities.Product
}

func (ProductsChanged) Kind() Kind { return KindProductsChanged }

// ProductSelected is published when a product becomes the inspected one.
type ProductSelected struct {
	Product entities.Product
}

func (ProductSelected) Kind() Kind { return KindProductSelected }

// CartChanged carries a snapshot of the cart after any mutation.
type CartChanged struct {
	Items []entities.Product
	Total int
}

func (CartChanged) Kind() Kind { return KindCartChanged }

// DraftFieldChanged is scoped to a single overwritten draft field.
type DraftFieldChanged struct {
	Field string
	Value string
}

func (DraftFieldChanged) Kind() Kind { return KindDraftFieldChanged }

type DraftReset struct{}

func (DraftReset) Kind() Kind { return KindDraftReset }

// CardSelected: the user clicked a catalog card.
type CardSelected struct {
	ID string
}

func (CardSelected) Kind() Kind { return KindCardSelected }

// CardAdded: the user pressed "buy" on the preview.
type CardAdded struct {
	ID string
}

func (CardAdded) Kind() Kind { return KindCardAdded }

// CardRemoved: the user pressed "remove" on the preview.
type CardRemoved struct {
	ID string
}

func (CardRemoved) Kind() Kind { return KindCardRemoved }

// CartLineRemoved: the user removed a line from the open cart.
type CartLineRemoved struct {
	ID string
}

func (CartLineRemoved) Kind() Kind { return KindCartLineRemoved }

type CartOpened struct{}

func (CartOpened) Kind() Kind { return KindCartOpened }

type CheckoutRequested struct{}

func (CheckoutRequested) Kind() Kind { return KindCheckoutRequested }

// OrderStepSubmitted carries the payment/address step form values.
type OrderStepSubmitted struct {
	Payment entities.PaymentMethod
	Address string
}

func (OrderStepSubmitted) Kind() Kind { return KindOrderStepSubmitted }

// ContactsStepSubmitted carries the contacts step form values.
type ContactsStepSubmitted struct {
	Email string
	Phone string
}

func (ContactsStepSubmitted) Kind() Kind { return KindContactsStepSubmitted }

type ModalClosed struct{}

func (ModalClosed) Kind() Kind { return KindModalClosed }

type SuccessAcknowledged struct{}

func (SuccessAcknowledged) Kind() Kind { return KindSuccessAcknowledged }
