package view

// JSON view models: the displayable units this renderer produces. The
// browser client consumes them verbatim; nothing here carries behavior.

type CatalogEntryModel struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Price    *int   `json:"price"`
}

type ButtonModel struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

type PreviewModel struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Category    string      `json:"category"`
	Price       *int        `json:"price"`
	InCart      bool        `json:"inCart"`
	Button      ButtonModel `json:"button"`
}

type CartLineModel struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Title string `json:"title"`
	Price *int   `json:"price"`
}

type CartModel struct {
	Lines       []any `json:"lines"`
	Total       int   `json:"total"`
	CanCheckout bool  `json:"canCheckout"`
}

type FormModel struct {
	Step    string            `json:"step"`
	Payment string            `json:"payment"`
	Address string            `json:"address"`
	Email   string            `json:"email"`
	Phone   string            `json:"phone"`
	Errors  map[string]string `json:"errors"`
	Valid   bool              `json:"valid"`
	Message string            `json:"message,omitempty"`
}

type SuccessModel struct {
	OrderID string `json:"orderId"`
	Total   int    `json:"total"`
}
