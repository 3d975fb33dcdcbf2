package checkout

import (
	"github.com/weblarek/storefront/internal/entities"
	"github.com/weblarek/storefront/internal/order"
)

// View is an opaque displayable handle produced by the render
// collaborator. The workflow only forwards it to the screen.
type View any

// Renderer builds a displayable unit per view kind. Validity decisions
// never happen here: the workflow computes errors and the ready flag and
// pushes them in.
type Renderer interface {
	CatalogEntry(p entities.Product) View
	Preview(data PreviewData) View
	CartLine(data CartLineData) View
	Cart(data CartData) View
	OrderForm(data FormData) View
	ContactsForm(data FormData) View
	Success(data SuccessData) View
}

// Screen shows what the workflow tells it to: the catalog strip, the
// cart counter and a single modal.
type Screen interface {
	SetCatalog(views []View)
	SetCartCount(count int)
	ShowModal(v View)
	CloseModal()
}

type PreviewData struct {
	Product        entities.Product
	InCart         bool
	ButtonLabel    string
	ButtonDisabled bool
}

type CartLineData struct {
	Index   int
	Product entities.Product
}

type CartData struct {
	Lines       []View
	Total       int
	CanCheckout bool
}

// FormData is pushed to a form step on entry and on every field change.
// Errors holds only the fields relevant to the step; Valid is the
// "ready to proceed" flag; Message surfaces a submission failure.
type FormData struct {
	Draft   order.Data
	Errors  entities.ValidationErrors
	Valid   bool
	Message string
}

type SuccessData struct {
	OrderID string
	Total   int
}
