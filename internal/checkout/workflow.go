package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/weblarek/storefront/internal/cart"
	"github.com/weblarek/storefront/internal/catalog"
	"github.com/weblarek/storefront/internal/entities"
	"github.com/weblarek/storefront/internal/events"
	"github.com/weblarek/storefront/internal/order"
	"github.com/weblarek/storefront/pkg/cache"
)

type State string

const (
	StateIdle           State = "idle"
	StateProductPreview State = "preview"
	StateCartView       State = "cart"
	StateOrderDetails   State = "order"
	StateContactDetails State = "contacts"
	StateSubmitting     State = "submitting"
	StateSuccess        State = "success"
)

const submitTimeout = 30 * time.Second

// User-facing messages surfaced on the current form.
const (
	msgSubmitFailed = "failed to submit the order, please try again"
	msgCartEmpty    = "the cart is empty"
)

const (
	labelAddToCart   = "add to cart"
	labelRemoveLine  = "remove from cart"
	labelUnavailable = "unavailable"
)

// OrderTransport submits an assembled order to the upstream shop.
type OrderTransport interface {
	SubmitOrder(ctx context.Context, req entities.OrderRequest) (entities.OrderConfirmation, error)
}

// Workflow is the checkout presenter: it reacts to UI and model events
// from the broker, drives the catalog/cart/draft models and pushes view
// state to the render collaborators. All transitions run synchronously;
// the only suspension point is the order submission call.
type Workflow struct {
	logger    *slog.Logger
	broker    *events.Broker
	catalog   *catalog.Catalog
	cart      *cart.Cart
	draft     *order.Draft
	renderer  Renderer
	screen    Screen
	transport OrderTransport

	// Rendered catalog entry views, keyed by product id. Products are
	// immutable once loaded, so entries survive catalog reloads.
	entryViews *cache.LRUCache[View]

	mu          sync.Mutex
	state       State
	submitStamp uuid.UUID
	returnState State
}

func New(
	logger *slog.Logger,
	broker *events.Broker,
	ctl *catalog.Catalog,
	crt *cart.Cart,
	drf *order.Draft,
	renderer Renderer,
	screen Screen,
	transport OrderTransport,
	entryViews *cache.LRUCache[View],
) *Workflow {
	w := &Workflow{
		logger:     logger.With(slog.String("component", "checkout")),
		broker:     broker,
		catalog:    ctl,
		cart:       crt,
		draft:      drf,
		renderer:   renderer,
		screen:     screen,
		transport:  transport,
		entryViews: entryViews,
		state:      StateIdle,
	}

	broker.Subscribe(events.KindProductsChanged, func(e events.Event) {
		w.handleProductsChanged(e.(events.ProductsChanged))
	})
	broker.Subscribe(events.KindProductSelected, func(e events.Event) {
		w.handleProductSelected(e.(events.ProductSelected))
	})
	broker.Subscribe(events.KindCartChanged, func(e events.Event) {
		w.handleCartChanged(e.(events.CartChanged))
	})
	broker.Subscribe(events.KindDraftFieldChanged, func(events.Event) {
		w.handleDraftChanged()
	})
	broker.Subscribe(events.KindDraftReset, func(events.Event) {
		w.handleDraftChanged()
	})

	broker.Subscribe(events.KindCardSelected, func(e events.Event) {
		w.handleCardSelected(e.(events.CardSelected))
	})
	broker.Subscribe(events.KindCardAdded, func(e events.Event) {
		w.handleCardAdded(e.(events.CardAdded))
	})
	broker.Subscribe(events.KindCardRemoved, func(e events.Event) {
		w.handleCardRemoved(e.(events.CardRemoved))
	})
	broker.Subscribe(events.KindCartLineRemoved, func(e events.Event) {
		w.handleCartLineRemoved(e.(events.CartLineRemoved))
	})
	broker.Subscribe(events.KindCartOpened, func(events.Event) {
		w.handleCartOpened()
	})
	broker.Subscribe(events.KindCheckoutRequested, func(events.Event) {
		w.handleCheckoutRequested()
	})
	broker.Subscribe(events.KindOrderStepSubmitted, func(e events.Event) {
		w.handleOrderStepSubmitted(e.(events.OrderStepSubmitted))
	})
	broker.Subscribe(events.KindContactsStepSubmitted, func(e events.Event) {
		w.handleContactsStepSubmitted(e.(events.ContactsStepSubmitted))
	})
	broker.Subscribe(events.KindModalClosed, func(events.Event) {
		w.handleModalClosed()
	})
	broker.Subscribe(events.KindSuccessAcknowledged, func(events.Event) {
		w.handleSuccessAcknowledged()
	})

	return w
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workflow) inState(s State) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == s
}

func (w *Workflow) handleProductsChanged(e events.ProductsChanged) {
	views := make([]View, 0, len(e.Products))
	for _, p := range e.Products {
		v, ok := w.entryViews.Get(p.ID)
		if !ok {
			v = w.renderer.CatalogEntry(p)
			w.entryViews.Set(p.ID, v)
		}
		views = append(views, v)
	}
	w.screen.SetCatalog(views)
}

func (w *Workflow) handleCardSelected(e events.CardSelected) {
	if !w.inState(StateIdle) {
		return
	}
	if err := w.catalog.Select(e.ID); err != nil {
		w.logger.Warn("cannot preview product", slog.String("product_id", e.ID), slog.Any("error", err))
	}
}

func (w *Workflow) handleProductSelected(e events.ProductSelected) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return
	}

	p := e.Product
	data := PreviewData{Product: p, InCart: w.cart.Has(p.ID)}
	switch {
	case p.Priceless():
		data.ButtonLabel = labelUnavailable
		data.ButtonDisabled = true
	case data.InCart:
		data.ButtonLabel = labelRemoveLine
	default:
		data.ButtonLabel = labelAddToCart
	}

	w.state = StateProductPreview
	w.screen.ShowModal(w.renderer.Preview(data))
}

func (w *Workflow) handleCardAdded(e events.CardAdded) {
	if !w.inState(StateProductPreview) {
		return
	}
	p, ok := w.catalog.ProductByID(e.ID)
	if !ok {
		w.logger.Warn("cannot add unknown product", slog.String("product_id", e.ID))
		return
	}
	if p.Priceless() {
		w.logger.Warn("ignoring add of priceless product", slog.String("product_id", e.ID))
		return
	}
	w.cart.Add(p)

	w.mu.Lock()
	w.state = StateIdle
	w.mu.Unlock()
	w.catalog.ClearSelection()
	w.screen.CloseModal()
}

func (w *Workflow) handleCardRemoved(e events.CardRemoved) {
	if !w.inState(StateProductPreview) {
		return
	}
	w.cart.Remove(e.ID)

	w.mu.Lock()
	w.state = StateIdle
	w.mu.Unlock()
	w.catalog.ClearSelection()
	w.screen.CloseModal()
}

func (w *Workflow) handleCartChanged(e events.CartChanged) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.screen.SetCartCount(len(e.Items))
	if w.state == StateCartView {
		w.showCartLocked(e.Items, e.Total)
	}
}

func (w *Workflow) handleCartLineRemoved(e events.CartLineRemoved) {
	if !w.inState(StateCartView) {
		return
	}
	// The CartChanged notification re-renders the open cart.
	w.cart.Remove(e.ID)
}

func (w *Workflow) handleCartOpened() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateIdle {
		return
	}
	w.state = StateCartView
	w.showCartLocked(w.cart.Items(), w.cart.Total())
}

func (w *Workflow) handleCheckoutRequested() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateCartView || w.cart.Count() == 0 {
		return
	}
	w.state = StateOrderDetails
	w.showOrderFormLocked("")
}

func (w *Workflow) handleDraftChanged() {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateOrderDetails:
		w.showOrderFormLocked("")
	case StateContactDetails:
		w.showContactsFormLocked("")
	}
}

func (w *Workflow) handleOrderStepSubmitted(e events.OrderStepSubmitted) {
	if !w.inState(StateOrderDetails) {
		return
	}
	w.draft.SetPayment(e.Payment)
	w.draft.SetAddress(e.Address)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateOrderDetails {
		return
	}
	errs := subset(w.draft.Validate(), entities.FieldPayment, entities.FieldAddress)
	if !errs.Valid() {
		w.showOrderFormLocked("")
		return
	}
	w.state = StateContactDetails
	w.showContactsFormLocked("")
}

func (w *Workflow) handleContactsStepSubmitted(e events.ContactsStepSubmitted) {
	w.mu.Lock()
	if w.state != StateContactDetails {
		if w.state == StateSubmitting {
			doubleSubmitRejected.Inc()
			w.logger.Warn("submission already in progress, ignoring trigger")
		}
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.draft.SetEmail(e.Email)
	w.draft.SetPhone(e.Phone)
	w.submit()
}

// submit re-checks the full gate at the moment of submission: the cart
// may have been emptied while the forms were open.
func (w *Workflow) submit() {
	req, err := w.draft.BuildRequest(w.cart)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateContactDetails {
		return
	}

	var ve *entities.ValidationError
	switch {
	case errors.As(err, &ve):
		if subset(ve.Fields, entities.FieldEmail, entities.FieldPhone).Valid() {
			// The broken fields belong to the order step; send the user back.
			w.state = StateOrderDetails
			w.showOrderFormLocked("")
			return
		}
		w.showContactsFormLocked("")
	case errors.Is(err, entities.ErrEmptyCart):
		w.showContactsFormLocked(msgCartEmpty)
	case err != nil:
		w.logger.Error("failed to build order request", slog.Any("error", err))
		w.showContactsFormLocked(msgSubmitFailed)
	default:
		w.state = StateSubmitting
		w.returnState = StateContactDetails
		w.submitStamp = uuid.New()
		go w.performSubmit(w.submitStamp, req)
	}
}

func (w *Workflow) performSubmit(stamp uuid.UUID, req entities.OrderRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	start := time.Now()
	conf, err := w.transport.SubmitOrder(ctx, req)
	submitDuration.Observe(time.Since(start).Seconds())

	w.mu.Lock()
	defer w.mu.Unlock()

	// The user may have navigated away while the call was in flight; a
	// result for a submission the workflow no longer owns is discarded.
	if w.state != StateSubmitting || w.submitStamp != stamp {
		staleResultsDiscarded.Inc()
		w.logger.Warn("discarding stale submission result", slog.String("stamp", stamp.String()))
		return
	}
	w.submitStamp = uuid.Nil

	if err != nil {
		submitFailures.Inc()
		w.logger.Error("order submission failed", slog.Any("error", err))
		w.state = w.returnState
		if w.state == StateOrderDetails {
			w.showOrderFormLocked(msgSubmitFailed)
		} else {
			w.showContactsFormLocked(msgSubmitFailed)
		}
		return
	}

	ordersSubmitted.Inc()
	w.logger.Info("order submitted",
		slog.String("order_id", conf.ID),
		slog.Int("total", conf.Total),
	)
	w.state = StateSuccess
	w.screen.ShowModal(w.renderer.Success(SuccessData{OrderID: conf.ID, Total: conf.Total}))
}

func (w *Workflow) handleModalClosed() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateIdle {
		return
	}
	// Abandonment keeps the cart and draft so the user can resume.
	w.state = StateIdle
	w.submitStamp = uuid.Nil
	w.screen.CloseModal()
}

func (w *Workflow) handleSuccessAcknowledged() {
	w.mu.Lock()
	if w.state != StateSuccess {
		w.mu.Unlock()
		return
	}
	w.state = StateIdle
	w.mu.Unlock()

	w.cart.Clear()
	w.draft.Clear()
	w.screen.CloseModal()
}

func (w *Workflow) showCartLocked(items []entities.Product, total int) {
	lines := make([]View, 0, len(items))
	for i, p := range items {
		lines = append(lines, w.renderer.CartLine(CartLineData{Index: i + 1, Product: p}))
	}
	w.screen.ShowModal(w.renderer.Cart(CartData{
		Lines:       lines,
		Total:       total,
		CanCheckout: len(items) > 0,
	}))
}

func (w *Workflow) showOrderFormLocked(message string) {
	errs := subset(w.draft.Validate(), entities.FieldPayment, entities.FieldAddress)
	w.screen.ShowModal(w.renderer.OrderForm(FormData{
		Draft:   w.draft.Data(),
		Errors:  errs,
		Valid:   errs.Valid(),
		Message: message,
	}))
}

func (w *Workflow) showContactsFormLocked(message string) {
	errs := subset(w.draft.Validate(), entities.FieldEmail, entities.FieldPhone)
	w.screen.ShowModal(w.renderer.ContactsForm(FormData{
		Draft:   w.draft.Data(),
		Errors:  errs,
		Valid:   errs.Valid(),
		Message: message,
	}))
}

func subset(errs entities.ValidationErrors, fields ...string) entities.ValidationErrors {
	sub := make(entities.ValidationErrors)
	for _, f := range fields {
		if msg, ok := errs[f]; ok {
			sub[f] = msg
		}
	}
	return sub
}
