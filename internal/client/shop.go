package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/weblarek/storefront/internal/config"
	"github.com/weblarek/storefront/internal/entities"
)

// ShopAPI is the HTTP client for the upstream shop: the product source
// and the order transport collaborators in one.
type ShopAPI struct {
	logger   *slog.Logger
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

func NewShopAPI(logger *slog.Logger, cfg config.Upstream) *ShopAPI {
	return &ShopAPI{
		logger:   logger.With(slog.String("client", "shop")),
		baseURL:  cfg.BaseURL,
		http:     &http.Client{Timeout: cfg.Timeout},
		validate: validator.New(),
	}
}

type productJSON struct {
	ID          string `json:"id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Price       *int   `json:"price"`
}

type productListJSON struct {
	Total int           `json:"total"`
	Items []productJSON `json:"items"`
}

type orderRequestJSON struct {
	Payment string   `json:"payment"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Total   int      `json:"total"`
	Items   []string `json:"items"`
}

type orderResponseJSON struct {
	ID    string `json:"id" validate:"required"`
	Total int    `json:"total"`
}

func (a *ShopAPI) FetchProducts(ctx context.Context) ([]entities.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/product/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build product request: %w", err)
	}

	res, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch products: unexpected status %d", res.StatusCode)
	}

	var list productListJSON
	if err := json.NewDecoder(res.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode product list: %w", err)
	}

	products := make([]entities.Product, 0, len(list.Items))
	for _, item := range list.Items {
		if err := a.validate.Struct(item); err != nil {
			a.logger.Warn("skipping invalid product", slog.String("product_id", item.ID), slog.Any("error", err))
			continue
		}
		products = append(products, productJSONToEntity(item))
	}

	a.logger.Debug("products fetched", slog.Int("count", len(products)))
	return products, nil
}

func (a *ShopAPI) SubmitOrder(ctx context.Context, order entities.OrderRequest) (entities.OrderConfirmation, error) {
	body, err := json.Marshal(orderRequestJSON{
		Payment: string(order.Payment),
		Email:   order.Email,
		Phone:   order.Phone,
		Address: order.Address,
		Total:   order.Total,
		Items:   order.Items,
	})
	if err != nil {
		return entities.OrderConfirmation{}, fmt.Errorf("failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/order/", bytes.NewReader(body))
	if err != nil {
		return entities.OrderConfirmation{}, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := a.http.Do(req)
	if err != nil {
		return entities.OrderConfirmation{}, fmt.Errorf("%w: %v", entities.ErrSubmissionFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return entities.OrderConfirmation{}, fmt.Errorf("%w: unexpected status %d", entities.ErrSubmissionFailed, res.StatusCode)
	}

	var confirmation orderResponseJSON
	if err := json.NewDecoder(res.Body).Decode(&confirmation); err != nil {
		return entities.OrderConfirmation{}, fmt.Errorf("%w: failed to decode response: %v", entities.ErrSubmissionFailed, err)
	}
	if err := a.validate.Struct(confirmation); err != nil {
		return entities.OrderConfirmation{}, fmt.Errorf("%w: invalid response: %v", entities.ErrSubmissionFailed, err)
	}

	return entities.OrderConfirmation{ID: confirmation.ID, Total: confirmation.Total}, nil
}

func productJSONToEntity(p productJSON) entities.Product {
	return entities.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
		Price:       p.Price,
	}
}
