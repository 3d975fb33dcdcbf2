package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weblarek/storefront/internal/cart"
	"github.com/weblarek/storefront/internal/catalog"
	"github.com/weblarek/storefront/internal/checkout"
	"github.com/weblarek/storefront/internal/entities"
	"github.com/weblarek/storefront/internal/events"
	"github.com/weblarek/storefront/internal/handler"
	"github.com/weblarek/storefront/internal/order"
	"github.com/weblarek/storefront/internal/view"
	"github.com/weblarek/storefront/pkg/cache"
)

type stubSource struct {
	products []entities.Product
	err      error
}

func (s *stubSource) FetchProducts(ctx context.Context) ([]entities.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products, nil
}

type stubTransport struct {
	conf entities.OrderConfirmation
	err  error
}

func (s *stubTransport) SubmitOrder(ctx context.Context, req entities.OrderRequest) (entities.OrderConfirmation, error) {
	return s.conf, s.err
}

type stateResponse struct {
	State     string            `json:"state"`
	CartCount int               `json:"cartCount"`
	ModalOpen bool              `json:"modalOpen"`
	Modal     map[string]any    `json:"modal"`
	Catalog   []json.RawMessage `json:"catalog"`
}

func price(v int) *int { return &v }

var testProducts = []entities.Product{
	{ID: "a", Title: "A", Image: "a.png", Price: price(10)},
	{ID: "b", Title: "B", Price: price(20)},
	{ID: "free", Title: "Priceless"},
}

func newRouter(t *testing.T, source catalog.ProductSource, transport checkout.OrderTransport) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := events.NewBroker(logger)

	snapshots := cache.New[[]entities.Product](1, time.Minute)
	ctl := catalog.New(logger, broker, source, snapshots)
	crt := cart.New(logger, broker)
	drf := order.NewDraft(logger, broker)
	screen := view.NewScreen()

	workflow := checkout.New(logger, broker, ctl, crt, drf,
		view.NewRenderer("https://cdn.test"), screen,
		transport, cache.New[checkout.View](16, time.Minute))

	ctl.SetProducts(testProducts)

	router := chi.NewRouter()
	handler.NewHTTPHandler(logger, broker, ctl, workflow, screen).Init(router)
	return router
}

func doRequest(t *testing.T, router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) stateResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var res stateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func getState(t *testing.T, router chi.Router) stateResponse {
	t.Helper()
	return decodeState(t, doRequest(t, router, http.MethodGet, "/state", ""))
}

func TestGetState_Initial(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})

	res := getState(t, router)

	assert.Equal(t, "idle", res.State)
	assert.Equal(t, 0, res.CartCount)
	assert.False(t, res.ModalOpen)
	assert.Len(t, res.Catalog, 3)
}

func TestListProducts(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})

	rec := doRequest(t, router, http.MethodGet, "/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []handler.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	require.Len(t, products, 3)
	assert.Equal(t, "a", products[0].ID)
	require.NotNil(t, products[0].Price)
	assert.Equal(t, 10, *products[0].Price)
	assert.Nil(t, products[2].Price, "priceless product serializes as null")
}

func TestPreviewProduct(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})

	res := decodeState(t, doRequest(t, router, http.MethodPost, "/products/a/preview", ""))

	assert.Equal(t, "preview", res.State)
	assert.True(t, res.ModalOpen)
	assert.Equal(t, "a", res.Modal["id"])
	assert.Equal(t, "https://cdn.test/a.png", res.Modal["image"])
}

func TestPreviewProduct_Unknown(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})

	res := decodeState(t, doRequest(t, router, http.MethodPost, "/products/missing/preview", ""))

	// Unknown products are ignored; the state is returned unchanged.
	assert.Equal(t, "idle", res.State)
	assert.False(t, res.ModalOpen)
}

func TestAddCartItem(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})

	doRequest(t, router, http.MethodPost, "/products/a/preview", "")
	res := decodeState(t, doRequest(t, router, http.MethodPost, "/cart/items", `{"id":"a"}`))

	assert.Equal(t, "idle", res.State)
	assert.False(t, res.ModalOpen)
	assert.Equal(t, 1, res.CartCount)
}

func TestAddCartItem_BadRequest(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})

	rec := doRequest(t, router, http.MethodPost, "/cart/items", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/cart/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveCartItem_FromPreview(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})
	doRequest(t, router, http.MethodPost, "/products/a/preview", "")
	doRequest(t, router, http.MethodPost, "/cart/items", `{"id":"a"}`)

	doRequest(t, router, http.MethodPost, "/products/a/preview", "")
	res := decodeState(t, doRequest(t, router, http.MethodDelete, "/cart/items/a", ""))

	assert.Equal(t, "idle", res.State)
	assert.Equal(t, 0, res.CartCount)
	assert.False(t, res.ModalOpen)
}

func TestRemoveCartItem_FromCartView(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})
	doRequest(t, router, http.MethodPost, "/products/a/preview", "")
	doRequest(t, router, http.MethodPost, "/cart/items", `{"id":"a"}`)
	doRequest(t, router, http.MethodPost, "/products/b/preview", "")
	doRequest(t, router, http.MethodPost, "/cart/items", `{"id":"b"}`)

	doRequest(t, router, http.MethodPost, "/cart/open", "")
	res := decodeState(t, doRequest(t, router, http.MethodDelete, "/cart/items/a", ""))

	// Cart stays open and re-renders with the remaining line.
	assert.Equal(t, "cart", res.State)
	assert.Equal(t, 1, res.CartCount)
	assert.True(t, res.ModalOpen)
	assert.Equal(t, float64(20), res.Modal["total"])
}

func TestOpenCart_CheckoutRefusedWhenEmpty(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})

	res := decodeState(t, doRequest(t, router, http.MethodPost, "/cart/open", ""))
	assert.Equal(t, "cart", res.State)
	assert.Equal(t, false, res.Modal["canCheckout"])

	res = decodeState(t, doRequest(t, router, http.MethodPost, "/checkout", ""))
	assert.Equal(t, "cart", res.State)
}

func TestSubmitOrderStep_RejectsUnknownPayment(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})

	rec := doRequest(t, router, http.MethodPost, "/checkout/order", `{"payment":"bitcoin","address":"x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutFlow(t *testing.T) {
	transport := &stubTransport{conf: entities.OrderConfirmation{ID: "order-1", Total: 10}}
	router := newRouter(t, &stubSource{}, transport)

	doRequest(t, router, http.MethodPost, "/products/a/preview", "")
	doRequest(t, router, http.MethodPost, "/cart/items", `{"id":"a"}`)
	doRequest(t, router, http.MethodPost, "/cart/open", "")

	res := decodeState(t, doRequest(t, router, http.MethodPost, "/checkout", ""))
	assert.Equal(t, "order", res.State)
	assert.Equal(t, false, res.Modal["valid"])

	// An incomplete step keeps the user on the form.
	res = decodeState(t, doRequest(t, router, http.MethodPost, "/checkout/order", `{"address":"street 1"}`))
	assert.Equal(t, "order", res.State)

	res = decodeState(t, doRequest(t, router, http.MethodPost, "/checkout/order", `{"payment":"card","address":"street 1"}`))
	assert.Equal(t, "contacts", res.State)

	rec := doRequest(t, router, http.MethodPost, "/checkout/contacts", `{"email":"e@x","phone":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Submission resolves on a background goroutine.
	require.Eventually(t, func() bool {
		return getState(t, router).State == "success"
	}, time.Second, 5*time.Millisecond)

	res = getState(t, router)
	assert.Equal(t, "order-1", res.Modal["orderId"])
	assert.Equal(t, float64(10), res.Modal["total"])
	assert.Equal(t, 1, res.CartCount, "cart survives until the success is acknowledged")

	res = decodeState(t, doRequest(t, router, http.MethodPost, "/checkout/ack", ""))
	assert.Equal(t, "idle", res.State)
	assert.Equal(t, 0, res.CartCount)
	assert.False(t, res.ModalOpen)
}

func TestCheckoutFlow_SubmitFailure(t *testing.T) {
	transport := &stubTransport{err: errors.New("upstream down")}
	router := newRouter(t, &stubSource{}, transport)

	doRequest(t, router, http.MethodPost, "/products/a/preview", "")
	doRequest(t, router, http.MethodPost, "/cart/items", `{"id":"a"}`)
	doRequest(t, router, http.MethodPost, "/cart/open", "")
	doRequest(t, router, http.MethodPost, "/checkout", "")
	doRequest(t, router, http.MethodPost, "/checkout/order", `{"payment":"cash","address":"street 1"}`)
	doRequest(t, router, http.MethodPost, "/checkout/contacts", `{"email":"e@x","phone":"1"}`)

	require.Eventually(t, func() bool {
		return getState(t, router).State == "contacts"
	}, time.Second, 5*time.Millisecond)

	res := getState(t, router)
	assert.NotEmpty(t, res.Modal["message"])
	assert.Equal(t, 1, res.CartCount)
}

func TestCloseModal_KeepsCartAndDraft(t *testing.T) {
	router := newRouter(t, &stubSource{}, &stubTransport{})

	doRequest(t, router, http.MethodPost, "/products/a/preview", "")
	doRequest(t, router, http.MethodPost, "/cart/items", `{"id":"a"}`)
	doRequest(t, router, http.MethodPost, "/cart/open", "")
	doRequest(t, router, http.MethodPost, "/checkout", "")
	doRequest(t, router, http.MethodPost, "/checkout/order", `{"payment":"card","address":"street 1"}`)

	res := decodeState(t, doRequest(t, router, http.MethodPost, "/modal/close", ""))
	assert.Equal(t, "idle", res.State)
	assert.False(t, res.ModalOpen)
	assert.Equal(t, 1, res.CartCount)

	// Re-entering checkout restores the drafted values.
	doRequest(t, router, http.MethodPost, "/cart/open", "")
	res = decodeState(t, doRequest(t, router, http.MethodPost, "/checkout", ""))
	assert.Equal(t, "order", res.State)
	assert.Equal(t, "street 1", res.Modal["address"])
	assert.Equal(t, true, res.Modal["valid"])
}

func TestReloadCatalog(t *testing.T) {
	source := &stubSource{products: []entities.Product{{ID: "x", Title: "X", Price: price(5)}}}
	router := newRouter(t, source, &stubTransport{})

	res := decodeState(t, doRequest(t, router, http.MethodPost, "/catalog/reload", ""))

	assert.Len(t, res.Catalog, 1)
}

func TestReloadCatalog_UpstreamFailure(t *testing.T) {
	router := newRouter(t, &stubSource{err: errors.New("boom")}, &stubTransport{})

	rec := doRequest(t, router, http.MethodPost, "/catalog/reload", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
