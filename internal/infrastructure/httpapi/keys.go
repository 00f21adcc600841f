package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ersonp/lingo-core/internal/domain/entities"
	"github.com/ersonp/lingo-core/internal/domain/services"
)

func (a *API) listKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := a.svc.Translations.List(r.Context(), mux.Vars(r)["branchId"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Keys []entities.KeyWithTranslations `json:"keys"`
	}{Keys: keys})
}

func (a *API) setTranslation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var body struct {
		Value       string `json:"value"`
		Namespace   string `json:"namespace"`
		Status      string `json:"status"`
		SourceFile  string `json:"sourceFile"`
		Description string `json:"description"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		a.writeError(w, r, err)
		return
	}

	translation, err := a.svc.Translations.Set(r.Context(), vars["branchId"], services.SetTranslationInput{
		Key:         vars["key"],
		Namespace:   body.Namespace,
		Language:    vars["language"],
		Value:       body.Value,
		Status:      entities.TranslationStatus(body.Status),
		SourceFile:  body.SourceFile,
		Description: body.Description,
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, translation)
}

// deleteKey removes a key and its translations. The namespace is taken from
// the query string.
func (a *API) deleteKey(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	err := a.svc.Translations.DeleteKey(r.Context(), vars["branchId"], vars["key"], r.URL.Query().Get("namespace"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
