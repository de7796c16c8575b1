package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/municipio/backoffice/internal/domain/official"
	"github.com/municipio/backoffice/internal/pagination"
)

type officialNumberReq struct {
	Folio          string `json:"folio"`
	PredialAccount string `json:"predialAccount"`
	CadastralKey   string `json:"cadastralKey"`
	Address        string `json:"address"`
	Neighborhood   string `json:"neighborhood"`
	LandUse        string `json:"landUse"`
	LandUseOther   string `json:"landUseOther"`

	OwnerName    string `json:"ownerName"`
	OwnerAddress string `json:"ownerAddress"`
	OwnerPhone   string `json:"ownerPhone"`

	NorthStreet         string `json:"northStreet"`
	SouthStreet         string `json:"southStreet"`
	EastStreet          string `json:"eastStreet"`
	WestStreet          string `json:"westStreet"`
	LotFront            string `json:"lotFront"`
	RightCornerDistance string `json:"rightCornerDistance"`
	LeftCornerDistance  string `json:"leftCornerDistance"`

	Observations   string `json:"observations"`
	AssignedNumber string `json:"assignedNumber"`

	Rights decimal.Decimal `json:"rights"`
	Form   decimal.Decimal `json:"form"`

	CreatedBy string `json:"createdBy"`
}

func (req officialNumberReq) toInput() official.Input {
	return official.Input{
		Folio:               req.Folio,
		PredialAccount:      req.PredialAccount,
		CadastralKey:        req.CadastralKey,
		Address:             req.Address,
		Neighborhood:        req.Neighborhood,
		LandUse:             req.LandUse,
		LandUseOther:        req.LandUseOther,
		OwnerName:           req.OwnerName,
		OwnerAddress:        req.OwnerAddress,
		OwnerPhone:          req.OwnerPhone,
		NorthStreet:         req.NorthStreet,
		SouthStreet:         req.SouthStreet,
		EastStreet:          req.EastStreet,
		WestStreet:          req.WestStreet,
		LotFront:            req.LotFront,
		RightCornerDistance: req.RightCornerDistance,
		LeftCornerDistance:  req.LeftCornerDistance,
		Observations:        req.Observations,
		AssignedNumber:      req.AssignedNumber,
		Rights:              req.Rights,
		Form:                req.Form,
		CreatedBy:           req.CreatedBy,
	}
}

func (h *Handler) createOfficialNumber(w http.ResponseWriter, r *http.Request) {
	var req officialNumberReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	n, err := h.officials.Create(r.Context(), req.toInput())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, func(e *jx.Encoder) { encOfficialNumber(e, n) })
}

// listOfficialNumbers lists all official numbers, or searches by folio,
// owner name, or address when a q parameter is present.
func (h *Handler) listOfficialNumbers(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	numbers, total, err := h.officials.Search(r.Context(), r.URL.Query().Get("q"), page.Limit, page.Offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	meta := pagination.NewMeta(total, page)
	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range numbers {
						encOfficialNumber(e, &numbers[i])
					}
				})
			})
			encMeta(e, meta)
		})
	})
}

func (h *Handler) getOfficialNumber(w http.ResponseWriter, r *http.Request) {
	n, err := h.officials.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encOfficialNumber(e, n) })
}

func (h *Handler) updateOfficialNumber(w http.ResponseWriter, r *http.Request) {
	var req officialNumberReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	n, err := h.officials.Update(r.Context(), r.PathValue("id"), req.toInput())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encOfficialNumber(e, n) })
}

func (h *Handler) deleteOfficialNumber(w http.ResponseWriter, r *http.Request) {
	if err := h.officials.Remove(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

func encOfficialNumber(e *jx.Encoder, n *official.Number) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(n.ID) })
		e.Field("folio", func(e *jx.Encoder) { e.Str(n.Folio) })
		e.Field("predialAccount", func(e *jx.Encoder) { e.Str(n.PredialAccount) })
		e.Field("cadastralKey", func(e *jx.Encoder) { e.Str(n.CadastralKey) })
		e.Field("address", func(e *jx.Encoder) { e.Str(n.Address) })
		e.Field("neighborhood", func(e *jx.Encoder) { e.Str(n.Neighborhood) })
		e.Field("landUse", func(e *jx.Encoder) { e.Str(n.LandUse) })
		e.Field("landUseOther", func(e *jx.Encoder) { e.Str(n.LandUseOther) })
		e.Field("ownerName", func(e *jx.Encoder) { e.Str(n.OwnerName) })
		e.Field("ownerAddress", func(e *jx.Encoder) { e.Str(n.OwnerAddress) })
		e.Field("ownerPhone", func(e *jx.Encoder) { e.Str(n.OwnerPhone) })
		e.Field("northStreet", func(e *jx.Encoder) { e.Str(n.NorthStreet) })
		e.Field("southStreet", func(e *jx.Encoder) { e.Str(n.SouthStreet) })
		e.Field("eastStreet", func(e *jx.Encoder) { e.Str(n.EastStreet) })
		e.Field("westStreet", func(e *jx.Encoder) { e.Str(n.WestStreet) })
		e.Field("lotFront", func(e *jx.Encoder) { e.Str(n.LotFront) })
		e.Field("rightCornerDistance", func(e *jx.Encoder) { e.Str(n.RightCornerDistance) })
		e.Field("leftCornerDistance", func(e *jx.Encoder) { e.Str(n.LeftCornerDistance) })
		e.Field("observations", func(e *jx.Encoder) { e.Str(n.Observations) })
		e.Field("assignedNumber", func(e *jx.Encoder) { e.Str(n.AssignedNumber) })
		e.Field("rights", func(e *jx.Encoder) { encDecimal(e, n.Rights) })
		e.Field("form", func(e *jx.Encoder) { encDecimal(e, n.Form) })
		e.Field("totalFee", func(e *jx.Encoder) { encDecimal(e, n.TotalFee) })
		e.Field("createdBy", func(e *jx.Encoder) { e.Str(n.CreatedBy) })
		e.Field("createdAt", func(e *jx.Encoder) { encTime(e, n.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encTime(e, n.UpdatedAt) })
	})
}
