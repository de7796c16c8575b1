// Package handler exposes the domain services over HTTP with JSON bodies.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/municipio/backoffice/internal/domain/official"
	"github.com/municipio/backoffice/internal/domain/order"
	"github.com/municipio/backoffice/internal/domain/refdata"
	"github.com/municipio/backoffice/internal/pagination"
)

// Handler routes API requests to the domain services.
type Handler struct {
	orders    *order.Service
	refs      *refdata.Service
	officials *official.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(orders *order.Service, refs *refdata.Service, officials *official.Service) *Handler {
	return &Handler{orders: orders, refs: refs, officials: officials}
}

// Register adds all API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("GET /api/orders/number/{series}/{folio}", h.getOrderByNumber)
	mux.HandleFunc("PUT /api/orders/{id}", h.updateOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/status", h.changeOrderStatus)
	mux.HandleFunc("POST /api/orders/{id}/cancel", h.cancelOrder)
	mux.HandleFunc("POST /api/orders/{id}/complete", h.completeOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", h.removeOrder)
	mux.HandleFunc("DELETE /api/orders/{id}/permanent", h.hardDeleteOrder)

	mux.HandleFunc("POST /api/providers", h.createProvider)
	mux.HandleFunc("GET /api/providers", h.listProviders)
	mux.HandleFunc("GET /api/providers/{id}", h.getProvider)
	mux.HandleFunc("PUT /api/providers/{id}", h.updateProvider)
	mux.HandleFunc("DELETE /api/providers/{id}", h.deleteProvider)

	mux.HandleFunc("POST /api/areas", h.createArea)
	mux.HandleFunc("GET /api/areas", h.listAreas)
	mux.HandleFunc("GET /api/areas/{id}", h.getArea)
	mux.HandleFunc("PUT /api/areas/{id}", h.updateArea)
	mux.HandleFunc("DELETE /api/areas/{id}", h.deleteArea)

	mux.HandleFunc("POST /api/budget-items", h.createBudgetItem)
	mux.HandleFunc("GET /api/budget-items", h.listBudgetItems)
	mux.HandleFunc("GET /api/budget-items/{id}", h.getBudgetItem)
	mux.HandleFunc("PUT /api/budget-items/{id}", h.updateBudgetItem)
	mux.HandleFunc("DELETE /api/budget-items/{id}", h.deleteBudgetItem)

	mux.HandleFunc("POST /api/official-numbers", h.createOfficialNumber)
	mux.HandleFunc("GET /api/official-numbers", h.listOfficialNumbers)
	mux.HandleFunc("GET /api/official-numbers/{id}", h.getOfficialNumber)
	mux.HandleFunc("PUT /api/official-numbers/{id}", h.updateOfficialNumber)
	mux.HandleFunc("DELETE /api/official-numbers/{id}", h.deleteOfficialNumber)
}

// pageFromQuery normalizes the limit and offset query parameters.
func pageFromQuery(r *http.Request) pagination.Page {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return pagination.Normalize(limit, offset)
}

func encDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}

func encTime(e *jx.Encoder, t time.Time) {
	e.Str(t.Format(time.RFC3339))
}

func encMeta(e *jx.Encoder, m pagination.Meta) {
	e.Field("meta", func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("totalItems", func(e *jx.Encoder) { e.Int64(m.TotalItems) })
			e.Field("limit", func(e *jx.Encoder) { e.Int(m.Limit) })
			e.Field("offset", func(e *jx.Encoder) { e.Int(m.Offset) })
			e.Field("totalPages", func(e *jx.Encoder) { e.Int64(m.TotalPages) })
			e.Field("currentPage", func(e *jx.Encoder) { e.Int64(m.CurrentPage) })
		})
	})
}
