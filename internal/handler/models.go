package handler

import (
	"github.com/weblarek/storefront/internal/checkout"
	"github.com/weblarek/storefront/internal/entities"
	"github.com/weblarek/storefront/internal/view"
)

// Product describes a catalog item
// swagger:model Product
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       *int   `json:"price"`
}

// AddItemRequest identifies the product to add to the cart
// swagger:model AddItemRequest
type AddItemRequest struct {
	ID string `json:"id" validate:"required"`
}

// OrderStepRequest carries the payment/address form values
// swagger:model OrderStepRequest
type OrderStepRequest struct {
	Payment string `json:"payment" validate:"omitempty,oneof=card cash"`
	Address string `json:"address"`
}

// ContactsStepRequest carries the contacts form values
// swagger:model ContactsStepRequest
type ContactsStepRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// StateResponse is the screen snapshot plus the workflow state
// swagger:model StateResponse
type StateResponse struct {
	State     checkout.State  `json:"state"`
	CartCount int             `json:"cartCount"`
	ModalOpen bool            `json:"modalOpen"`
	Modal     checkout.View   `json:"modal,omitempty"`
	Catalog   []checkout.View `json:"catalog,omitempty"`
}

func ProductEntityToJSON(p entities.Product) Product {
	return Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
		Price:       p.Price,
	}
}

func StateResponseFrom(state checkout.State, snap view.Snapshot) StateResponse {
	return StateResponse{
		State:     state,
		CartCount: snap.CartCount,
		ModalOpen: snap.ModalOpen,
		Modal:     snap.Modal,
		Catalog:   snap.Catalog,
	}
}
