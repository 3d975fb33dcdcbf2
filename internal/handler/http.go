package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/weblarek/storefront/internal/checkout"
	"github.com/weblarek/storefront/internal/entities"
	"github.com/weblarek/storefront/internal/events"
	"github.com/weblarek/storefront/internal/view"
	"github.com/weblarek/storefront/pkg/utils"
)

// CatalogReader is the part of the catalog the facade exposes directly.
type CatalogReader interface {
	Products() []entities.Product
	Load(ctx context.Context) error
}

type WorkflowReader interface {
	State() checkout.State
}

type ScreenReader interface {
	Snapshot() view.Snapshot
}

// HTTPHandler translates browser requests into broker events and state
// queries. Broker delivery is synchronous, so every action endpoint can
// respond with the already-updated screen snapshot.
type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	broker   *events.Broker
	catalog  CatalogReader
	workflow WorkflowReader
	screen   ScreenReader
}

func NewHTTPHandler(logger *slog.Logger, broker *events.Broker, catalog CatalogReader, workflow WorkflowReader, screen ScreenReader) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		broker:   broker,
		catalog:  catalog,
		workflow: workflow,
		screen:   screen,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Get("/state", h.GetState)
	r.Get("/products", h.ListProducts)
	r.Post("/products/{id}/preview", h.PreviewProduct)
	r.Post("/catalog/reload", h.ReloadCatalog)

	r.Post("/cart/items", h.AddCartItem)
	r.Delete("/cart/items/{id}", h.RemoveCartItem)
	r.Post("/cart/open", h.OpenCart)

	r.Post("/checkout", h.RequestCheckout)
	r.Post("/checkout/order", h.SubmitOrderStep)
	r.Post("/checkout/contacts", h.SubmitContactsStep)
	r.Post("/checkout/ack", h.AcknowledgeSuccess)

	r.Post("/modal/close", h.CloseModal)
}

// GetState returns the current screen snapshot.
// @Summary      Current screen state
// @Tags         state
// @Success      200  {object}  StateResponse
// @Router       /state [get]
func (h *HTTPHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.writeState(w)
}

// ListProducts returns the loaded catalog.
// @Summary      List catalog products
// @Tags         catalog
// @Success      200  {array}  Product
// @Router       /products [get]
func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Products()
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, ProductEntityToJSON(p))
	}
	utils.WriteJSON(w, out, http.StatusOK)
}

// ReloadCatalog re-fetches the product list from the upstream shop.
// @Summary      Reload the catalog
// @Tags         catalog
// @Success      200  {object}  StateResponse
// @Failure      502  {object}  utils.ErrorResponse "Upstream fetch failed"
// @Router       /catalog/reload [post]
func (h *HTTPHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Load(r.Context()); err != nil {
		if errors.Is(err, entities.ErrLoadFailed) {
			utils.WriteError(w, "catalog load failed", http.StatusBadGateway)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to reload catalog", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.writeState(w)
}

// PreviewProduct opens the product preview.
// @Summary      Preview a product
// @Tags         catalog
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  StateResponse
// @Router       /products/{id}/preview [post]
func (h *HTTPHandler) PreviewProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.validate.Var(id, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	h.broker.Publish(events.CardSelected{ID: id})
	h.writeState(w)
}

// AddCartItem adds the previewed product to the cart.
// @Summary      Add a product to the cart
// @Tags         cart
// @Param        request  body      AddItemRequest  true  "Product id"
// @Success      200  {object}  StateResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Router       /cart/items [post]
func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	h.broker.Publish(events.CardAdded{ID: req.ID})
	h.writeState(w)
}

// RemoveCartItem removes every cart line with the given product id.
// @Summary      Remove a product from the cart
// @Tags         cart
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  StateResponse
// @Router       /cart/items/{id} [delete]
func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.validate.Var(id, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	if h.workflow.State() == checkout.StateProductPreview {
		h.broker.Publish(events.CardRemoved{ID: id})
	} else {
		h.broker.Publish(events.CartLineRemoved{ID: id})
	}
	h.writeState(w)
}

// OpenCart opens the cart modal.
// @Summary      Open the cart
// @Tags         cart
// @Success      200  {object}  StateResponse
// @Router       /cart/open [post]
func (h *HTTPHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.broker.Publish(events.CartOpened{})
	h.writeState(w)
}

// RequestCheckout moves from the cart to the order details step.
// @Summary      Start checkout
// @Tags         checkout
// @Success      200  {object}  StateResponse
// @Router       /checkout [post]
func (h *HTTPHandler) RequestCheckout(w http.ResponseWriter, r *http.Request) {
	h.broker.Publish(events.CheckoutRequested{})
	h.writeState(w)
}

// SubmitOrderStep submits the payment/address form.
// @Summary      Submit the order details step
// @Tags         checkout
// @Param        request  body      OrderStepRequest  true  "Form values"
// @Success      200  {object}  StateResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Router       /checkout/order [post]
func (h *HTTPHandler) SubmitOrderStep(w http.ResponseWriter, r *http.Request) {
	var req OrderStepRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}
	h.broker.Publish(events.OrderStepSubmitted{
		Payment: entities.PaymentMethod(req.Payment),
		Address: req.Address,
	})
	h.writeState(w)
}

// SubmitContactsStep submits the contacts form and triggers submission.
// @Summary      Submit the contacts step
// @Tags         checkout
// @Param        request  body      ContactsStepRequest  true  "Form values"
// @Success      200  {object}  StateResponse
// @Router       /checkout/contacts [post]
func (h *HTTPHandler) SubmitContactsStep(w http.ResponseWriter, r *http.Request) {
	var req ContactsStepRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid body", http.StatusBadRequest)
		return
	}
	h.broker.Publish(events.ContactsStepSubmitted{
		Email: req.Email,
		Phone: req.Phone,
	})
	h.writeState(w)
}

// AcknowledgeSuccess closes the success message, clearing cart and draft.
// @Summary      Acknowledge a successful order
// @Tags         checkout
// @Success      200  {object}  StateResponse
// @Router       /checkout/ack [post]
func (h *HTTPHandler) AcknowledgeSuccess(w http.ResponseWriter, r *http.Request) {
	h.broker.Publish(events.SuccessAcknowledged{})
	h.writeState(w)
}

// CloseModal abandons the current modal, keeping cart and draft.
// @Summary      Close the modal
// @Tags         state
// @Success      200  {object}  StateResponse
// @Router       /modal/close [post]
func (h *HTTPHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	h.broker.Publish(events.ModalClosed{})
	h.writeState(w)
}

func (h *HTTPHandler) writeState(w http.ResponseWriter) {
	utils.WriteJSON(w, StateResponseFrom(h.workflow.State(), h.screen.Snapshot()), http.StatusOK)
}
