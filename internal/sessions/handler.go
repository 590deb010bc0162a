package sessions

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/media"
	"github.com/JaimeStill/rohads/pkg/handlers"
	"github.com/JaimeStill/rohads/pkg/routes"
)

// Handler provides HTTP endpoints for session state.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
	status        StatusFunc
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
// When status is non-nil, snapshots include per-stage availability.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64, status StatusFunc) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "sessions"),
		maxUploadSize: maxUploadSize,
		status:        status,
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "PUT", Pattern: "/{id}/profile", Handler: h.UpdateProfile},
			{Method: "PUT", Pattern: "/{id}/voice", Handler: h.UpdateVoice},
			{Method: "POST", Pattern: "/{id}/media", Handler: h.UploadMedia},
			{Method: "GET", Pattern: "/{id}/gallery", Handler: h.Gallery},
		},
	}
}

// Create starts a new session with an empty profile and default voice settings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.sys.Create()
	handlers.RespondJSON(w, http.StatusCreated, h.snapshot(sess))
}

// Find returns the session snapshot.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.snapshot(sess))
}

// Delete discards the session and everything it holds.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateProfile replaces the business profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var profile marketing.BusinessProfile
	if !h.decode(w, r, &profile) {
		return
	}

	if err := sess.SetProfile(profile); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sess.Profile())
}

// UpdateVoice replaces the narration settings.
func (h *Handler) UpdateVoice(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var voice marketing.VoiceConfig
	if !h.decode(w, r, &voice) {
		return
	}

	if err := sess.SetVoice(voice); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, sess.Voice())
}

// UploadMedia records metadata for every file in the "files" form field.
// An optional "kind" form value overrides inference from the content type.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrUploadTooLarge)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNoFiles)
		return
	}

	var kind media.Kind
	if raw := r.FormValue("kind"); raw != "" {
		k, err := media.ParseKind(raw)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		kind = k
	}

	recorded := make([]media.Asset, 0, len(files))
	for _, fh := range files {
		asset, err := sess.Media().Record(fh.Filename, ContentType(fh), fh.Size, kind)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		recorded = append(recorded, asset)
	}

	h.logger.Info("media recorded", "session", sess.ID(), "count", len(recorded))
	handlers.RespondJSON(w, http.StatusCreated, recorded)
}

// Gallery lists the session's recorded media by kind.
func (h *Handler) Gallery(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, sess.Media().Listing())
}

func (h *Handler) snapshot(sess *Session) Snapshot {
	snap := sess.Snapshot()
	if h.status != nil {
		snap.Stages = h.status(snap.Profile, snap.Completed)
	}
	return snap
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := h.sys.Find(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		err = fmt.Errorf("%w: malformed request body: %v", marketing.ErrValidation, err)
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return false
	}
	return true
}

// ContentType returns the declared content type of an uploaded file,
// falling back to the filename extension.
func ContentType(fh *multipart.FileHeader) string {
	declared := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
		return byExt
	}
	return declared
}
