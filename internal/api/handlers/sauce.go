package handlers

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/rohits-web03/piiquante/internal/api/middleware"
	"github.com/rohits-web03/piiquante/internal/api/services"
	"github.com/rohits-web03/piiquante/internal/apperr"
	"github.com/rohits-web03/piiquante/internal/repositories"
	"github.com/rohits-web03/piiquante/internal/sauces"
	"github.com/rohits-web03/piiquante/internal/utils"
)

const (
	maxUploadBytes = 10 << 20
	maxFormMemory  = 8 << 20
)

type SauceHandler struct {
	sauces *services.SauceService
	log    *zap.Logger
}

func NewSauceHandler(svc *services.SauceService, log *zap.Logger) *SauceHandler {
	return &SauceHandler{sauces: svc, log: log}
}

// VoteRequest is the body of a like request.
type VoteRequest struct {
	UserID string `json:"userId"`
	Like   *int   `json:"like"`
}

// GET /api/sauces
// List godoc
// @Summary List all sauces
// @Tags Sauces
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Sauce
// @Failure 401 {object} utils.Payload "Unauthorized"
// @Router /api/sauces [get]
func (h *SauceHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.sauces.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// GET /api/sauces/{id}
// Get godoc
// @Summary Get one sauce
// @Tags Sauces
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sauce id"
// @Success 200 {object} models.Sauce
// @Failure 400 {object} utils.Payload "Malformed id"
// @Failure 404 {object} utils.Payload "Sauce not found"
// @Router /api/sauces/{id} [get]
func (h *SauceHandler) Get(w http.ResponseWriter, r *http.Request) {
	sauce, err := h.sauces.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, sauce)
}

// POST /api/sauces
// Create godoc
// @Summary Create a sauce
// @Tags Sauces
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param sauce formData string true "Sauce JSON"
// @Param image formData file true "Sauce image"
// @Success 201 {object} utils.Payload "Sauce saved"
// @Failure 400 {object} utils.Payload "Invalid input"
// @Router /api/sauces [post]
func (h *SauceHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, upload, cleanup, err := readSauceForm(w, r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	defer cleanup()

	if _, err := h.sauces.Create(r.Context(), middleware.UserIDFrom(r.Context()), in, upload); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Sauce saved",
	})
}

// PUT /api/sauces/{id}
// Update godoc
// @Summary Update a sauce
// @Description Accepts a JSON sauce, or a multipart form with a sauce field and a new image. Only the owner may update.
// @Tags Sauces
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sauce id"
// @Success 200 {object} utils.Payload "Sauce updated"
// @Failure 400 {object} utils.Payload "Invalid input or malformed id"
// @Failure 403 {object} utils.Payload "Not the owner"
// @Failure 404 {object} utils.Payload "Sauce not found"
// @Router /api/sauces/{id} [put]
func (h *SauceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var (
		in     sauces.Input
		upload *repositories.Upload
	)
	if isMultipart(r) {
		var cleanup func()
		var err error
		in, upload, cleanup, err = readSauceForm(w, r)
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		defer cleanup()
	} else if err := decodeJSON(r, &in, false); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	err := h.sauces.Update(r.Context(), r.PathValue("id"), middleware.UserIDFrom(r.Context()), in, upload)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Sauce updated",
	})
}

// DELETE /api/sauces/{id}
// Delete godoc
// @Summary Delete a sauce
// @Tags Sauces
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sauce id"
// @Success 200 {object} utils.Payload "Sauce deleted"
// @Failure 400 {object} utils.Payload "Malformed id"
// @Failure 403 {object} utils.Payload "Not the owner"
// @Failure 404 {object} utils.Payload "Sauce not found"
// @Router /api/sauces/{id} [delete]
func (h *SauceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sauces.Delete(r.Context(), r.PathValue("id"), middleware.UserIDFrom(r.Context())); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Sauce deleted",
	})
}

// POST /api/sauces/{id}/like
// Like godoc
// @Summary Like, dislike or withdraw a vote
// @Description like is 1, -1 or 0. A request that changes nothing answers 204.
// @Tags Sauces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Sauce id"
// @Param body body VoteRequest true "Voter and vote"
// @Success 200 {object} utils.Payload "Vote recorded"
// @Success 204 "Nothing changed"
// @Failure 400 {object} utils.Payload "Invalid vote or malformed id"
// @Failure 403 {object} utils.Payload "userId does not match the session"
// @Failure 404 {object} utils.Payload "Sauce not found"
// @Failure 409 {object} utils.Payload "Too much contention"
// @Failure 500 {object} utils.Payload "Vote data is inconsistent"
// @Router /api/sauces/{id}/like [post]
func (h *SauceHandler) Like(w http.ResponseWriter, r *http.Request) {
	var input VoteRequest
	if err := decodeJSON(r, &input, false); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if input.Like == nil {
		writeError(w, r, h.log, apperr.New(apperr.InvalidVoteValue, "The like value must be -1, 0 or 1"))
		return
	}

	result, err := h.sauces.Vote(r.Context(), r.PathValue("id"), middleware.UserIDFrom(r.Context()), input.UserID, *input.Like)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if result == services.VoteUnchanged {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Vote recorded",
	})
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// readSauceForm parses a multipart body with a "sauce" JSON field and an
// optional "image" file. cleanup releases the parsed form.
func readSauceForm(w http.ResponseWriter, r *http.Request) (sauces.Input, *repositories.Upload, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return sauces.Input{}, nil, noop, apperr.Wrap(apperr.InvalidInput, "The image is too large", err)
		}
		return sauces.Input{}, nil, noop, apperr.Wrap(apperr.InvalidInput, "Invalid multipart form", err)
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }

	in, err := sauces.DecodeInput([]byte(r.FormValue("sauce")))
	if err != nil {
		cleanup()
		return sauces.Input{}, nil, noop, err
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, cleanup, nil
	}
	if err != nil {
		cleanup()
		return sauces.Input{}, nil, noop, apperr.Wrap(apperr.InvalidInput, "Invalid image upload", err)
	}

	closeAll := func() {
		_ = file.Close()
		cleanup()
	}
	return in, &repositories.Upload{
		Filename:    header.Filename,
		ContentType: contentType(header),
		Size:        header.Size,
		Body:        file,
	}, closeAll, nil
}

func contentType(h *multipart.FileHeader) string {
	if ct := h.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(h.Filename)))
}
