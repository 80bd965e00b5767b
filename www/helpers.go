package www

import (
	"encoding/json"
	"errors"
	"net/http"

	"yardcore/asset"
)

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// jsonEngineError maps the engine's error kinds onto HTTP status codes.
func (h *Handlers) jsonEngineError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, asset.ErrNotFound),
		errors.Is(err, asset.ErrUnknownTrolley),
		errors.Is(err, asset.ErrUnknownVessel):
		code = http.StatusNotFound
	case errors.Is(err, asset.ErrTypeMismatch),
		errors.Is(err, asset.ErrOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, asset.ErrDuplicateIdentity),
		errors.Is(err, asset.ErrConflictingAssignment),
		errors.Is(err, asset.ErrInvalidTransition):
		code = http.StatusConflict
	}
	h.jsonError(w, err.Error(), code)
}

// decodeExtension unmarshals a raw extension body into the struct matching
// the asset type.
func decodeExtension(t asset.Type, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var ext any
	switch t {
	case asset.TypeCradle:
		ext = &asset.Cradle{}
	case asset.TypeVessel:
		ext = &asset.Vessel{}
	case asset.TypeRail:
		ext = &asset.Rail{}
	case asset.TypeTrolley:
		ext = &asset.Trolley{}
	case asset.TypeLift:
		ext = &asset.Lift{}
	case asset.TypeInventory:
		ext = &asset.InventoryItem{}
	default:
		return nil, asset.ErrTypeMismatch
	}
	if err := json.Unmarshal(raw, ext); err != nil {
		return nil, err
	}
	return ext, nil
}

// decodePatch unmarshals a raw patch body into the patch struct matching
// the asset type.
func decodePatch(t asset.Type, raw json.RawMessage) (any, error) {
	var patch any
	switch t {
	case asset.TypeCradle:
		patch = &asset.CradlePatch{}
	case asset.TypeVessel:
		patch = &asset.VesselPatch{}
	case asset.TypeRail:
		patch = &asset.RailPatch{}
	case asset.TypeTrolley:
		patch = &asset.TrolleyPatch{}
	case asset.TypeLift:
		patch = &asset.LiftPatch{}
	case asset.TypeInventory:
		patch = &asset.InventoryPatch{}
	default:
		return nil, asset.ErrTypeMismatch
	}
	if err := json.Unmarshal(raw, patch); err != nil {
		return nil, err
	}
	return patch, nil
}
