package order

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/weblarek/storefront/internal/entities"
	"github.com/weblarek/storefront/internal/events"
)

// Fixed validation messages. Format validation (email/phone shape) is
// deliberately not performed here.
const (
	msgNoPayment = "no payment method selected"
	msgNoAddress = "delivery address required"
	msgNoEmail   = "email required"
	msgNoPhone   = "phone required"
)

// Data is a copy of the draft's current field values.
type Data struct {
	Payment entities.PaymentMethod
	Email   string
	Phone   string
	Address string
}

// CartReader is the part of the cart the draft needs to assemble an
// order request.
type CartReader interface {
	Count() int
	Total() int
	Items() []entities.Product
}

// Draft holds the transient checkout fields. Each setter overwrites
// exactly one field and publishes a change notification scoped to it, so
// the presenter can refresh forms selectively. The draft is never
// persisted.
type Draft struct {
	logger *slog.Logger
	broker *events.Broker

	mu      sync.Mutex
	payment entities.PaymentMethod
	email   string
	phone   string
	address string
}

func NewDraft(logger *slog.Logger, broker *events.Broker) *Draft {
	return &Draft{
		logger: logger.With(slog.String("component", "draft")),
		broker: broker,
	}
}

func (d *Draft) SetPayment(m entities.PaymentMethod) {
	d.mu.Lock()
	d.payment = m
	d.mu.Unlock()
	d.broker.Publish(events.DraftFieldChanged{Field: entities.FieldPayment, Value: string(m)})
}

func (d *Draft) SetAddress(s string) {
	d.mu.Lock()
	d.address = s
	d.mu.Unlock()
	d.broker.Publish(events.DraftFieldChanged{Field: entities.FieldAddress, Value: s})
}

func (d *Draft) SetEmail(s string) {
	d.mu.Lock()
	d.email = s
	d.mu.Unlock()
	d.broker.Publish(events.DraftFieldChanged{Field: entities.FieldEmail, Value: s})
}

func (d *Draft) SetPhone(s string) {
	d.mu.Lock()
	d.phone = s
	d.mu.Unlock()
	d.broker.Publish(events.DraftFieldChanged{Field: entities.FieldPhone, Value: s})
}

// Clear resets all four fields and publishes a reset notification.
func (d *Draft) Clear() {
	d.mu.Lock()
	d.payment = entities.PaymentUnset
	d.email = ""
	d.phone = ""
	d.address = ""
	d.mu.Unlock()
	d.broker.Publish(events.DraftReset{})
}

func (d *Draft) Data() Data {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Data{
		Payment: d.payment,
		Email:   d.email,
		Phone:   d.phone,
		Address: d.address,
	}
}

// Validate recomputes the error mapping from the current state. All
// rules are checked on every call, none short-circuit.
func (d *Draft) Validate() entities.ValidationErrors {
	d.mu.Lock()
	defer d.mu.Unlock()

	errs := make(entities.ValidationErrors)
	if d.payment == entities.PaymentUnset {
		errs[entities.FieldPayment] = msgNoPayment
	}
	if strings.TrimSpace(d.address) == "" {
		errs[entities.FieldAddress] = msgNoAddress
	}
	if strings.TrimSpace(d.email) == "" {
		errs[entities.FieldEmail] = msgNoEmail
	}
	if strings.TrimSpace(d.phone) == "" {
		errs[entities.FieldPhone] = msgNoPhone
	}
	return errs
}

// BuildRequest assembles an immutable order request from the draft and
// the cart. It is the single gate through which submission is allowed
// and must be re-checked at the moment of submission: the cart may have
// been emptied while the order form was open.
func (d *Draft) BuildRequest(cart CartReader) (entities.OrderRequest, error) {
	if errs := d.Validate(); !errs.Valid() {
		return entities.OrderRequest{}, &entities.ValidationError{Fields: errs}
	}
	items := cart.Items()
	if len(items) == 0 {
		return entities.OrderRequest{}, entities.ErrEmptyCart
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	data := d.Data()
	return entities.OrderRequest{
		Payment: data.Payment,
		Email:   data.Email,
		Phone:   data.Phone,
		Address: data.Address,
		Total:   cart.Total(),
		Items:   ids,
	}, nil
}
