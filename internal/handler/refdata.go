package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/municipio/backoffice/internal/domain/refdata"
	"github.com/municipio/backoffice/internal/pagination"
)

type providerReq struct {
	Code                string `json:"code"`
	Name                string `json:"name"`
	LegalName           string `json:"legalName"`
	Origin              string `json:"origin"`
	State               string `json:"state"`
	Country             string `json:"country"`
	RFC                 string `json:"rfc"`
	EconomicActivity    string `json:"economicActivity"`
	Address             string `json:"address"`
	Town                string `json:"town"`
	PostalCode          string `json:"postalCode"`
	LegalRepresentative string `json:"legalRepresentative"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	Website             string `json:"website"`
}

func (req providerReq) toDomain() refdata.Provider {
	return refdata.Provider{
		Code:                req.Code,
		Name:                req.Name,
		LegalName:           req.LegalName,
		Origin:              req.Origin,
		State:               req.State,
		Country:             req.Country,
		RFC:                 req.RFC,
		EconomicActivity:    req.EconomicActivity,
		Address:             req.Address,
		Town:                req.Town,
		PostalCode:          req.PostalCode,
		LegalRepresentative: req.LegalRepresentative,
		Phone:               req.Phone,
		Email:               req.Email,
		Website:             req.Website,
	}
}

func (h *Handler) createProvider(w http.ResponseWriter, r *http.Request) {
	var req providerReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	p, err := h.refs.CreateProvider(r.Context(), req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, func(e *jx.Encoder) { encProvider(e, p) })
}

// listProviders lists all providers, or searches by name, legal name, or
// RFC when a q parameter is present.
func (h *Handler) listProviders(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	providers, total, err := h.refs.SearchProviders(r.Context(), r.URL.Query().Get("q"), page.Limit, page.Offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	meta := pagination.NewMeta(total, page)
	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range providers {
						encProvider(e, &providers[i])
					}
				})
			})
			encMeta(e, meta)
		})
	})
}

func (h *Handler) getProvider(w http.ResponseWriter, r *http.Request) {
	p, err := h.refs.GetProvider(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encProvider(e, p) })
}

func (h *Handler) updateProvider(w http.ResponseWriter, r *http.Request) {
	var req providerReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	p, err := h.refs.UpdateProvider(r.Context(), r.PathValue("id"), req.toDomain())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encProvider(e, p) })
}

func (h *Handler) deleteProvider(w http.ResponseWriter, r *http.Request) {
	if err := h.refs.DeleteProvider(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

type areaReq struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Manager      string `json:"manager"`
	ManagerTitle string `json:"managerTitle"`
}

func (h *Handler) createArea(w http.ResponseWriter, r *http.Request) {
	var req areaReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	a, err := h.refs.CreateArea(r.Context(), refdata.Area{
		Name: req.Name, Code: req.Code, Manager: req.Manager, ManagerTitle: req.ManagerTitle,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, func(e *jx.Encoder) { encArea(e, a) })
}

func (h *Handler) listAreas(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	areas, total, err := h.refs.ListAreas(r.Context(), page.Limit, page.Offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	meta := pagination.NewMeta(total, page)
	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range areas {
						encArea(e, &areas[i])
					}
				})
			})
			encMeta(e, meta)
		})
	})
}

func (h *Handler) getArea(w http.ResponseWriter, r *http.Request) {
	a, err := h.refs.GetArea(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encArea(e, a) })
}

func (h *Handler) updateArea(w http.ResponseWriter, r *http.Request) {
	var req areaReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	a, err := h.refs.UpdateArea(r.Context(), r.PathValue("id"), refdata.Area{
		Name: req.Name, Code: req.Code, Manager: req.Manager, ManagerTitle: req.ManagerTitle,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encArea(e, a) })
}

func (h *Handler) deleteArea(w http.ResponseWriter, r *http.Request) {
	if err := h.refs.DeleteArea(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

type budgetItemReq struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

func (h *Handler) createBudgetItem(w http.ResponseWriter, r *http.Request) {
	var req budgetItemReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	b, err := h.refs.CreateBudgetItem(r.Context(), refdata.BudgetItem{Name: req.Name, Number: req.Number})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, func(e *jx.Encoder) { encBudgetItem(e, b) })
}

func (h *Handler) listBudgetItems(w http.ResponseWriter, r *http.Request) {
	page := pageFromQuery(r)
	items, total, err := h.refs.ListBudgetItems(r.Context(), page.Limit, page.Offset)
	if err != nil {
		respondError(w, r, err)
		return
	}

	meta := pagination.NewMeta(total, page)
	respond(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range items {
						encBudgetItem(e, &items[i])
					}
				})
			})
			encMeta(e, meta)
		})
	})
}

func (h *Handler) getBudgetItem(w http.ResponseWriter, r *http.Request) {
	b, err := h.refs.GetBudgetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encBudgetItem(e, b) })
}

func (h *Handler) updateBudgetItem(w http.ResponseWriter, r *http.Request) {
	var req budgetItemReq
	if err := decode(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	b, err := h.refs.UpdateBudgetItem(r.Context(), r.PathValue("id"), refdata.BudgetItem{Name: req.Name, Number: req.Number})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respond(w, http.StatusOK, func(e *jx.Encoder) { encBudgetItem(e, b) })
}

func (h *Handler) deleteBudgetItem(w http.ResponseWriter, r *http.Request) {
	if err := h.refs.DeleteBudgetItem(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondNoContent(w)
}

func encProvider(e *jx.Encoder, p *refdata.Provider) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(p.ID) })
		e.Field("code", func(e *jx.Encoder) { e.Str(p.Code) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("legalName", func(e *jx.Encoder) { e.Str(p.LegalName) })
		e.Field("origin", func(e *jx.Encoder) { e.Str(p.Origin) })
		e.Field("state", func(e *jx.Encoder) { e.Str(p.State) })
		e.Field("country", func(e *jx.Encoder) { e.Str(p.Country) })
		e.Field("rfc", func(e *jx.Encoder) { e.Str(p.RFC) })
		e.Field("economicActivity", func(e *jx.Encoder) { e.Str(p.EconomicActivity) })
		e.Field("address", func(e *jx.Encoder) { e.Str(p.Address) })
		e.Field("town", func(e *jx.Encoder) { e.Str(p.Town) })
		e.Field("postalCode", func(e *jx.Encoder) { e.Str(p.PostalCode) })
		e.Field("legalRepresentative", func(e *jx.Encoder) { e.Str(p.LegalRepresentative) })
		e.Field("phone", func(e *jx.Encoder) { e.Str(p.Phone) })
		e.Field("email", func(e *jx.Encoder) { e.Str(p.Email) })
		e.Field("website", func(e *jx.Encoder) { e.Str(p.Website) })
		e.Field("createdAt", func(e *jx.Encoder) { encTime(e, p.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encTime(e, p.UpdatedAt) })
	})
}

func encArea(e *jx.Encoder, a *refdata.Area) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(a.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(a.Name) })
		e.Field("code", func(e *jx.Encoder) { e.Str(a.Code) })
		e.Field("manager", func(e *jx.Encoder) { e.Str(a.Manager) })
		e.Field("managerTitle", func(e *jx.Encoder) { e.Str(a.ManagerTitle) })
		e.Field("createdAt", func(e *jx.Encoder) { encTime(e, a.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encTime(e, a.UpdatedAt) })
	})
}

func encBudgetItem(e *jx.Encoder, b *refdata.BudgetItem) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(b.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(b.Name) })
		e.Field("number", func(e *jx.Encoder) { e.Str(b.Number) })
		e.Field("createdAt", func(e *jx.Encoder) { encTime(e, b.CreatedAt) })
		e.Field("updatedAt", func(e *jx.Encoder) { encTime(e, b.UpdatedAt) })
	})
}
