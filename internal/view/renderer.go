package view

import (
	"strings"

	"github.com/weblarek/storefront/internal/checkout"
	"github.com/weblarek/storefront/internal/entities"
)

const (
	stepOrder    = "order"
	stepContacts = "contacts"
)

// Renderer builds JSON view models from plain workflow data. Image refs
// from the catalog are file names; the renderer resolves them against
// the CDN base URL.
type Renderer struct {
	imageBaseURL string
}

func NewRenderer(imageBaseURL string) *Renderer {
	return &Renderer{imageBaseURL: strings.TrimSuffix(imageBaseURL, "/")}
}

func (r *Renderer) CatalogEntry(p entities.Product) checkout.View {
	return CatalogEntryModel{
		ID:       p.ID,
		Title:    p.Title,
		Image:    r.imageURL(p.Image),
		Category: p.Category,
		Price:    p.Price,
	}
}

func (r *Renderer) Preview(data checkout.PreviewData) checkout.View {
	p := data.Product
	return PreviewModel{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       r.imageURL(p.Image),
		Category:    p.Category,
		Price:       p.Price,
		InCart:      data.InCart,
		Button: ButtonModel{
			Label:    data.ButtonLabel,
			Disabled: data.ButtonDisabled,
		},
	}
}

func (r *Renderer) CartLine(data checkout.CartLineData) checkout.View {
	return CartLineModel{
		Index: data.Index,
		ID:    data.Product.ID,
		Title: data.Product.Title,
		Price: data.Product.Price,
	}
}

func (r *Renderer) Cart(data checkout.CartData) checkout.View {
	lines := make([]any, len(data.Lines))
	for i, l := range data.Lines {
		lines[i] = l
	}
	return CartModel{
		Lines:       lines,
		Total:       data.Total,
		CanCheckout: data.CanCheckout,
	}
}

func (r *Renderer) OrderForm(data checkout.FormData) checkout.View {
	return r.form(stepOrder, data)
}

func (r *Renderer) ContactsForm(data checkout.FormData) checkout.View {
	return r.form(stepContacts, data)
}

func (r *Renderer) Success(data checkout.SuccessData) checkout.View {
	return SuccessModel{OrderID: data.OrderID, Total: data.Total}
}

func (r *Renderer) form(step string, data checkout.FormData) checkout.View {
	return FormModel{
		Step:    step,
		Payment: string(data.Draft.Payment),
		Address: data.Draft.Address,
		Email:   data.Draft.Email,
		Phone:   data.Draft.Phone,
		Errors:  data.Errors,
		Valid:   data.Valid,
		Message: data.Message,
	}
}

func (r *Renderer) imageURL(name string) string {
	if name == "" || r.imageBaseURL == "" {
		return name
	}
	return r.imageBaseURL + "/" + strings.TrimPrefix(name, "/")
}
