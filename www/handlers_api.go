package www

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"yardcore/asset"
	"yardcore/registry"
)

func (h *Handlers) apiHealth(w http.ResponseWriter, r *http.Request) {
	messagingOK := false
	if mc := h.engine.MsgClient(); mc != nil {
		messagingOK = mc.IsConnected()
	}
	h.jsonOK(w, map[string]any{
		"status":    "ok",
		"messaging": messagingOK,
	})
}

type createAssetRequest struct {
	AssetType   asset.Type      `json:"assetType"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Extension   json.RawMessage `json:"extension"`
}

func (h *Handlers) apiCreateAsset(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	ext, err := decodeExtension(req.AssetType, req.Extension)
	if err != nil {
		h.jsonError(w, "invalid extension: "+err.Error(), http.StatusBadRequest)
		return
	}
	id, err := h.engine.CreateAsset(registry.NewAsset{
		Type:        req.AssetType,
		Name:        req.Name,
		Description: req.Description,
		Extension:   ext,
	})
	if err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, map[string]string{"id": id})
}

func (h *Handlers) apiListAssets(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("type"); q != "" {
		t := asset.Type(q)
		if !t.Valid() {
			h.jsonError(w, "unknown asset type "+q, http.StatusBadRequest)
			return
		}
		h.jsonOK(w, h.engine.QueryByType(t))
		return
	}
	var out []asset.Asset
	for _, t := range asset.Types {
		out = append(out, h.engine.QueryByType(t)...)
	}
	h.jsonOK(w, out)
}

func (h *Handlers) apiGetAsset(w http.ResponseWriter, r *http.Request) {
	a, ext, err := h.engine.GetAsset(chi.URLParam(r, "id"))
	if err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, map[string]any{"asset": a, "extension": ext})
}

type updateAssetRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Extension   json.RawMessage `json:"extension"`
}

func (h *Handlers) apiUpdateAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	a, _, err := h.engine.GetAsset(id)
	if err != nil {
		h.jsonEngineError(w, err)
		return
	}
	if req.Name != nil || req.Description != nil {
		if err := h.engine.UpdateExtension(id, asset.AssetPatch{Name: req.Name, Description: req.Description}); err != nil {
			h.jsonEngineError(w, err)
			return
		}
	}
	if len(req.Extension) > 0 {
		patch, err := decodePatch(a.Type, req.Extension)
		if err != nil {
			h.jsonError(w, "invalid extension patch: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.engine.UpdateExtension(id, patch); err != nil {
			h.jsonEngineError(w, err)
			return
		}
	}
	h.jsonOK(w, map[string]string{"id": id})
}

type setReferenceRequest struct {
	Relation string `json:"relation"`
	ToID     string `json:"toId"`
}

func (h *Handlers) apiSetReference(w http.ResponseWriter, r *http.Request) {
	var req setReferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.engine.SetReference(id, registry.Relation(req.Relation), req.ToID); err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, map[string]string{"id": id})
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handlers) apiTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.engine.Transition(id, asset.Status(req.Status)); err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, map[string]string{"id": id, "status": req.Status})
}

type readingRequest struct {
	TrolleyID string    `json:"trolleyId"`
	Wheel     int       `json:"wheel"`
	Kind      string    `json:"kind"`
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handlers) apiRecordReading(w http.ResponseWriter, r *http.Request) {
	var req readingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	err := h.engine.RecordWheelReading(asset.WheelReading{
		TrolleyID: req.TrolleyID,
		Wheel:     req.Wheel,
		Kind:      asset.ReadingKind(req.Kind),
		Value:     req.Value,
		Timestamp: req.Timestamp,
	})
	if err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, map[string]string{"status": "recorded"})
}

func (h *Handlers) apiAssetRollup(w http.ResponseWriter, r *http.Request) {
	row, err := h.engine.GetRollup(chi.URLParam(r, "id"))
	if err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, row)
}

func (h *Handlers) apiFleetRollup(w http.ResponseWriter, r *http.Request) {
	row, err := h.engine.FleetRollup()
	if err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, row)
}

func (h *Handlers) apiOpenWorkOrder(w http.ResponseWriter, r *http.Request) {
	var wo asset.WorkOrder
	if err := json.NewDecoder(r.Body).Decode(&wo); err != nil {
		h.jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	id, err := h.engine.OpenWorkOrder(wo)
	if err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, map[string]string{"id": id})
}

func (h *Handlers) apiListWorkOrders(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, h.engine.WorkOrders())
}

func (h *Handlers) apiGetWorkOrder(w http.ResponseWriter, r *http.Request) {
	wo, err := h.engine.GetWorkOrder(chi.URLParam(r, "id"))
	if err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, wo)
}

func (h *Handlers) apiTransitionWorkOrder(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.engine.TransitionWorkOrder(id, req.Status); err != nil {
		h.jsonEngineError(w, err)
		return
	}
	h.jsonOK(w, map[string]string{"id": id, "status": req.Status})
}

func (h *Handlers) apiAudit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.engine.RecentAudit(limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, entries)
}
