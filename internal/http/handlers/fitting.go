package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fittingroom/internal/fitting"
	"fittingroom/internal/imagefile"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := a.Renderer.Render(w, a.surface(r)); err != nil {
		a.Logger.Error().Err(err).Msg("render page")
	}
}

func (a *App) State(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	a.json(w, http.StatusOK, a.surface(r))
}

func (a *App) UploadSlot(w http.ResponseWriter, r *http.Request) {
	slot, ok := a.slotParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.UploadLimit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.rejectUpload(w, r, slot, err, http.StatusRequestEntityTooLarge, "too_large")
			return
		}
		a.rejectUpload(w, r, slot, err, http.StatusBadRequest, "bad_request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		a.rejectUpload(w, r, slot, err, http.StatusBadRequest, "bad_request")
		return
	}
	defer file.Close()

	img, err := imagefile.Read(r.Context(), file, header.Header.Get("Content-Type"))
	if err != nil {
		a.rejectUpload(w, r, slot, err, http.StatusUnprocessableEntity, "invalid_image")
		return
	}

	_ = a.Session.SetSlot(slot, img)
	a.setUploadNotice(false)
	if wantsJSON(r) {
		a.json(w, http.StatusOK, a.surface(r))
		return
	}
	redirectHome(w, r)
}

// rejectUpload clears slot and raises the upload notice. A failed upload never
// leaves the previous image in place.
func (a *App) rejectUpload(w http.ResponseWriter, r *http.Request, slot fitting.Slot, cause error, code int, errCode string) {
	_ = a.Session.ClearSlot(slot)
	a.setUploadNotice(true)
	a.Logger.Warn().Err(cause).Str("slot", slot.String()).Int("status", code).Msg("upload rejected")
	if wantsJSON(r) {
		a.error(w, code, errCode, a.surface(r).Notice)
		return
	}
	redirectHome(w, r)
}

func (a *App) RemoveSlot(w http.ResponseWriter, r *http.Request) {
	slot, ok := a.slotParam(w, r)
	if !ok {
		return
	}
	_ = a.Session.ClearSlot(slot)
	a.setUploadNotice(false)
	if wantsJSON(r) {
		a.json(w, http.StatusOK, a.surface(r))
		return
	}
	redirectHome(w, r)
}

func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	_, err := a.Session.Trigger(r.Context())
	if !wantsJSON(r) {
		redirectHome(w, r)
		return
	}
	switch {
	case errors.Is(err, fitting.ErrInFlight):
		a.error(w, http.StatusConflict, "in_flight", "a fitting is already being generated")
	case errors.Is(err, fitting.ErrIncomplete):
		a.error(w, http.StatusUnprocessableEntity, "incomplete", a.surface(r).Result.Message)
	case err != nil:
		a.Logger.Error().Err(err).Msg("trigger generation")
		a.error(w, http.StatusInternalServerError, "internal", fitting.MsgUnexpected)
	default:
		a.json(w, http.StatusAccepted, a.surface(r))
	}
}

func (a *App) slotParam(w http.ResponseWriter, r *http.Request) (fitting.Slot, bool) {
	slot, err := fitting.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "unknown slot")
		return 0, false
	}
	return slot, true
}
