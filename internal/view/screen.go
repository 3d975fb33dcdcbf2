package view

import (
	"sync"

	"github.com/weblarek/storefront/internal/checkout"
)

// Snapshot is what the screen currently displays.
type Snapshot struct {
	Catalog   []checkout.View `json:"catalog"`
	CartCount int             `json:"cartCount"`
	ModalOpen bool            `json:"modalOpen"`
	Modal     checkout.View   `json:"modal,omitempty"`
}

// Screen is the "show in modal" collaborator: it keeps the latest views
// the workflow pushed so the HTTP facade can serve them as one snapshot.
type Screen struct {
	mu        sync.Mutex
	catalog   []checkout.View
	cartCount int
	modal     checkout.View
	modalOpen bool
}

func NewScreen() *Screen {
	return &Screen{}
}

func (s *Screen) SetCatalog(views []checkout.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = views
}

func (s *Screen) SetCartCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartCount = count
}

func (s *Screen) ShowModal(v checkout.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = v
	s.modalOpen = true
}

func (s *Screen) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = nil
	s.modalOpen = false
}

func (s *Screen) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	catalog := make([]checkout.View, len(s.catalog))
	copy(catalog, s.catalog)
	return Snapshot{
		Catalog:   catalog,
		CartCount: s.cartCount,
		ModalOpen: s.modalOpen,
		Modal:     s.modal,
	}
}
