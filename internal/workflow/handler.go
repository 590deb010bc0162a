package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/media"
	"github.com/JaimeStill/rohads/internal/sessions"
	"github.com/JaimeStill/rohads/pkg/generation"
	"github.com/JaimeStill/rohads/pkg/handlers"
	"github.com/JaimeStill/rohads/pkg/routes"
)

// Handler provides HTTP endpoints for stage generation, narration, and download.
type Handler struct {
	rt            *Runtime
	sessions      sessions.System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given runtime, session system, and upload size limit.
func NewHandler(rt *Runtime, sys sessions.System, maxUploadSize int64) *Handler {
	return &Handler{
		rt:            rt,
		sessions:      sys,
		logger:        rt.Logger.With("handler", "workflow"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for stage endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/sessions/{id}/stages",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Status},
			{Method: "POST", Pattern: "/profile", Handler: h.Profile},
			{Method: "POST", Pattern: "/strategy", Handler: h.Strategy},
			{Method: "POST", Pattern: "/campaign", Handler: h.Campaign},
			{Method: "POST", Pattern: "/analytics", Handler: h.Analytics},
			{Method: "POST", Pattern: "/{stage}/narration", Handler: h.Narrate},
			{Method: "GET", Pattern: "/{stage}/download", Handler: h.Download},
		},
	}
}

// Status reports availability of every stage for the session.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, Status(sess.Profile(), sess.Completed()))
}

// Profile generates the profile analysis. The body is optional: a JSON
// business profile replaces the stored one before generation, and a
// multipart form may carry that profile in a "profile" field together
// with a product image in an "image" field.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	req := StageRequest{Stage: marketing.StageProfile}

	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
		attachment, err := h.readProfileForm(r, sess)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		req.Attachment = attachment
	} else {
		var profile *marketing.BusinessProfile
		if !h.decodeOptional(w, r, &profile) {
			return
		}
		if profile != nil {
			if err := sess.SetProfile(*profile); err != nil {
				handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
				return
			}
		}
	}

	h.run(w, r, sess, req)
}

// Strategy generates the marketing strategy.
func (h *Handler) Strategy(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	req := StageRequest{Stage: marketing.StageStrategy}
	if !h.decode(w, r, &req.Strategy) {
		return
	}

	h.run(w, r, sess, req)
}

// Campaign generates the campaign plan.
func (h *Handler) Campaign(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	req := StageRequest{Stage: marketing.StageCampaign}
	if !h.decode(w, r, &req.Campaign) {
		return
	}

	h.run(w, r, sess, req)
}

// Analytics answers a marketing question.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	req := StageRequest{Stage: marketing.StageAnalytics}
	if !h.decode(w, r, &req.Question) {
		return
	}

	h.run(w, r, sess, req)
}

// Narrate returns a spoken digest of a stored stage result.
func (h *Handler) Narrate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	stage, err := marketing.ParseStage(r.PathValue("stage"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	n, err := Narrate(r.Context(), h.rt, sess, stage)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, n)
}

// Download serves a stored stage result as a plain-text attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	stage, err := marketing.ParseStage(r.PathValue("stage"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	artifact, err := Download(sess, stage)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": artifact.Filename,
	}))
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, artifact.Text)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, sess *sessions.Session, req StageRequest) {
	out, err := Run(r.Context(), h.rt, sess, req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

// readProfileForm applies an optional "profile" JSON field and records an
// optional "image" upload in the session's media registry.
func (h *Handler) readProfileForm(r *http.Request, sess *sessions.Session) (*generation.Attachment, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, sessions.ErrUploadTooLarge
	}

	if raw := r.FormValue("profile"); raw != "" {
		var profile marketing.BusinessProfile
		if err := json.Unmarshal([]byte(raw), &profile); err != nil {
			return nil, fmt.Errorf("%w: malformed profile field: %v", marketing.ErrValidation, err)
		}
		if err := sess.SetProfile(profile); err != nil {
			return nil, err
		}
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: image: %v", marketing.ErrValidation, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: image: %v", marketing.ErrValidation, err)
	}

	declared := sessions.ContentType(header)
	if _, err := sess.Media().Record(header.Filename, declared, int64(len(data)), media.KindImage); err != nil {
		return nil, err
	}

	return &generation.Attachment{
		Data:     data,
		MimeType: declared,
	}, nil
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	sess, err := h.sessions.Find(r.PathValue("id"))
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

// decodeOptional accepts an empty body.
func (h *Handler) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	err = fmt.Errorf("%w: malformed request body: %v", marketing.ErrValidation, err)
	handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
	return false
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
