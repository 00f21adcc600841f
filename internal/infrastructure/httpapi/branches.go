package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/services"
)

func (a *API) createBranch(w http.ResponseWriter, r *http.Request) {
	spaceID := mux.Vars(r)["spaceId"]

	var body struct {
		Name         string `json:"name"`
		FromBranchID string `json:"fromBranchId"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		a.writeError(w, r, err)
		return
	}

	// Without an explicit source the default branch is copied.
	if body.FromBranchID == "" {
		def, err := a.svc.Spaces.DefaultBranch(r.Context(), spaceID)
		if err != nil {
			a.writeError(w, r, err)
			return
		}
		body.FromBranchID = def.ID
	}

	branch, err := a.svc.Branches.Create(r.Context(), services.CreateBranchInput{
		SpaceID:        spaceID,
		Name:           body.Name,
		SourceBranchID: body.FromBranchID,
		ActorID:        actor(r),
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, branch)
}

func (a *API) getBranch(w http.ResponseWriter, r *http.Request) {
	branch, err := a.svc.Branches.Get(r.Context(), mux.Vars(r)["branchId"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, branch)
}

func (a *API) deleteBranch(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Branches.Delete(r.Context(), mux.Vars(r)["branchId"], actor(r)); err != nil {
		a.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) diffBranches(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	diff, err := a.svc.Diffs.Diff(r.Context(), vars["branchId"], vars["targetId"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, diff)
}

// mergeBranches answers 200 for blocked merges too; Success tells them apart.
func (a *API) mergeBranches(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TargetBranchID string                        `json:"targetBranchId"`
		Resolutions    []entities.ConflictResolution `json:"resolutions"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		a.writeError(w, r, err)
		return
	}

	result, err := a.svc.Merges.Merge(r.Context(), services.MergeInput{
		SourceBranchID: mux.Vars(r)["branchId"],
		TargetBranchID: body.TargetBranchID,
		Resolutions:    body.Resolutions,
		ActorID:        actor(r),
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
