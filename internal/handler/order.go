package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/municipio/backoffice/internal/domain/order"
	"github.com/municipio/backoffice/internal/pagination"
)

type lineReq struct {
	Quantity      int             `json:"quantity"`
	Unit          string          `json:"unit"`
	Description   string          `json:"description"`
	UnitNetAmount decimal.Decimal `json:"unitNetAmount"`
	NetAmount     decimal.Decimal `json:"netAmount"`
	TaxBreakout   *bool           `json:"taxBreakout"`
}

type createOrderReq struct {
	Series          string          `json:"series"`
	Folio           string          `json:"folio"`
	ProviderID      string          `json:"providerId"`
	AreaID          string          `json:"areaId"`
	BudgetItemID    string          `json:"budgetItemId"`
	DestinationNote string          `json:"destinationNote"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	Lines           []lineReq       `json:"lines"`
	CreatedBy       string          `json:"createdBy"`
}

type updateOrderReq struct {
	Series          *string          `json:"series"`
	Folio           *string          `json:"folio"`
	ProviderID      *string          `json:"providerId"`
	AreaID          *string          `json:"areaId"`
	BudgetItemID    *string          `json:"budgetItemId"`
	DestinationNote *string          `json:"destinationNote"`
	DiscountPercent *decimal.Decimal `json:"discountPercent"`
	Lines           []lineReq        `json:"lines"`
}

type changeStatusReq struct {
	Status string `json:"status"`
}

func toLineInputs(reqs []lineReq) []order.LineInput {
	if reqs == nil {
		return nil
	}
	lines := make([]order.LineInput, len(reqs))
	for i, l := range reqs {
		lines[i] = order.LineInput{
			Quantity:      l.Quantity,
			Unit:          l.Unit,
			Description:   l.Description,
			UnitNetAmount: l.UnitNetAmount,
			NetAmount:     l.NetAmount,
			TaxBreakout:   l.TaxBreakout,
		}
	}
	return lines
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	o, err := h.orders.Create(r.Context(), order.CreateInput{
		Series:          req.Series,
		Folio:           req.Folio,
		ProviderID:      req.ProviderID,
		AreaID:          req.AreaID,
		BudgetItemID:    req.BudgetItemID,
		DestinationNote: req.DestinationNote,
		DiscountPercent: req.DiscountPercent,
		Lines:           toLineInputs(req.Lines),
		CreatedBy:       req.CreatedBy,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, func(e *jx.Encoder) { encOrder(e, o) })
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	filter := order.ListFilter{Limit: page.Limit, Offset: page.Offset}
	if s := r.URL.Query().Get("status"); s != "" {
		status := order.Status(s)
		filter.Status = &status
	}

	orders, total, err := h.orders.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}

	meta := pagination.NewMeta(total, page)
	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range orders {
						encOrder(e, &orders[i])
					}
				})
			})
			encMeta(e, meta)
		})
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encOrder(e, o) })
}

func (h *Handler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetBySeriesFolio(r.Context(), r.PathValue("series"), r.PathValue("folio"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encOrder(e, o) })
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	o, err := h.orders.Update(r.Context(), r.PathValue("id"), order.UpdateInput{
		Series:          req.Series,
		Folio:           req.Folio,
		ProviderID:      req.ProviderID,
		AreaID:          req.AreaID,
		BudgetItemID:    req.BudgetItemID,
		DestinationNote: req.DestinationNote,
		DiscountPercent: req.DiscountPercent,
		Lines:           toLineInputs(req.Lines),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encOrder(e, o) })
}

func (h *Handler) changeOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	o, err := h.orders.ChangeStatus(r.Context(), r.PathValue("id"), order.Status(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encOrder(e, o) })
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encOrder(e, o) })
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Complete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encOrder(e, o) })
}

func (h *Handler) removeOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Remove(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

func (h *Handler) hardDeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.HardDelete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

func encOrder(e *jx.Encoder, o *order.PurchaseOrder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("series", func(e *jx.Encoder) { e.Str(o.Series) })
		e.Field("folio", func(e *jx.Encoder) { e.Str(o.Folio) })
		e.Field("orderNumber", func(e *jx.Encoder) { e.Str(o.OrderNumber()) })
		e.Field("providerId", func(e *jx.Encoder) { e.Str(o.ProviderID) })
		e.Field("areaId", func(e *jx.Encoder) { e.Str(o.AreaID) })
		e.Field("budgetItemId", func(e *jx.Encoder) { e.Str(o.BudgetItemID) })
		e.Field("destinationNote", func(e *jx.Encoder) { e.Str(o.DestinationNote) })
		e.Field("discountPercent", func(e *jx.Encoder) { encDecimal(e, o.DiscountPercent) })
		e.Field("status", func(e *jx.Encoder) { e.Str(o.Status.String()) })
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range o.Lines {
					encLine(e, &o.Lines[i])
				}
			})
		})
		e.Field("subtotal", func(e *jx.Encoder) { encDecimal(e, o.Totals.Subtotal) })
		e.Field("discountAmount", func(e *jx.Encoder) { encDecimal(e, o.Totals.DiscountAmount) })
		e.Field("taxAmount", func(e *jx.Encoder) { encDecimal(e, o.Totals.TaxAmount) })
		e.Field("total", func(e *jx.Encoder) { encDecimal(e, o.Totals.Total) })
		e.Field("version", func(e *jx.Encoder) { e.Int64(o.Version) })
		e.Field("createdBy", func(e *jx.Encoder) { e.Str(o.CreatedBy) })
		e.Field("createdAt", func(e *jx.Encoder) { encTime(e, o.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encTime(e, o.UpdatedAt) })
	})
}

func encLine(e *jx.Encoder, l *order.Line) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(l.ID) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
		e.Field("unit", func(e *jx.Encoder) { e.Str(l.Unit) })
		e.Field("description", func(e *jx.Encoder) { e.Str(l.Description) })
		e.Field("unitNetAmount", func(e *jx.Encoder) { encDecimal(e, l.UnitNetAmount) })
		e.Field("netAmount", func(e *jx.Encoder) { encDecimal(e, l.NetAmount) })
		e.Field("taxBreakout", func(e *jx.Encoder) { e.Bool(l.TaxBreakout) })
		e.Field("taxAmount", func(e *jx.Encoder) { encDecimal(e, l.TaxAmount) })
		e.Field("lineTotal", func(e *jx.Encoder) { encDecimal(e, l.LineTotal) })
	})
}
