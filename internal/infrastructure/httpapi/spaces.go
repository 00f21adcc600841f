package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
	maxBodyBytes         = 1 << 20
)

// decodeBody decodes a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: could not decode request (%v)", entities.ErrInvalidInput, err)
	}
	return nil
}

func actor(r *http.Request) string {
	return r.Header.Get(ActorHeader)
}

func (a *API) createSpace(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProjectID string `json:"projectId"`
		Name      string `json:"name"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		a.writeError(w, r, err)
		return
	}

	space, err := a.svc.Spaces.Create(r.Context(), body.ProjectID, body.Name, actor(r))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, space)
}

func (a *API) getSpace(w http.ResponseWriter, r *http.Request) {
	space, err := a.svc.Spaces.Get(r.Context(), mux.Vars(r)["spaceId"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, space)
}

func (a *API) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := a.svc.Branches.List(r.Context(), mux.Vars(r)["spaceId"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Branches []entities.Branch `json:"branches"`
	}{Branches: branches})
}

func (a *API) listActivity(w http.ResponseWriter, r *http.Request) {
	spaceID := mux.Vars(r)["spaceId"]

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", entities.ErrInvalidInput))
			return
		}
		limit = min(n, maxActivityLimit)
	}

	if _, err := a.svc.Spaces.Get(r.Context(), spaceID); err != nil {
		a.writeError(w, r, err)
		return
	}

	entries, err := a.svc.Activity.ListActivity(r.Context(), spaceID, limit)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []entities.ActivityEntry{}
	}

	writeJSON(w, http.StatusOK, struct {
		Activity []entities.ActivityEntry `json:"activity"`
	}{Activity: entries})
}
