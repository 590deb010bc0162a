package sessions_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/rohads/internal/marketing"
	"github.com/JaimeStill/rohads/internal/media"
	"github.com/JaimeStill/rohads/internal/sessions"
	"github.com/JaimeStill/rohads/pkg/routes"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func stubStatus(p marketing.BusinessProfile, done marketing.StageSet) []marketing.StageStatus {
	return []marketing.StageStatus{{
		Stage:     marketing.StageProfile,
		Enterable: true,
		Completed: done.Has(marketing.StageProfile),
	}}
}

func setupMux(sys sessions.System) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(1<<20, stubStatus).Routes())
	return mux
}

func TestSessionDefaults(t *testing.T) {
	sys := sessions.New(time.Hour, discard())
	snap := sys.Create().Snapshot()

	if snap.Profile.BusinessName != "" {
		t.Errorf("business name = %q, want empty", snap.Profile.BusinessName)
	}
	if snap.Profile.BudgetRange != marketing.DefaultBudgetRange {
		t.Errorf("budget = %q, want %q", snap.Profile.BudgetRange, marketing.DefaultBudgetRange)
	}
	if snap.Voice != marketing.DefaultVoice() {
		t.Errorf("voice = %+v, want default", snap.Voice)
	}
	if len(snap.Artifacts) != 0 {
		t.Errorf("artifacts = %d, want 0", len(snap.Artifacts))
	}
	if snap.Media.Total() != 0 {
		t.Errorf("media total = %d, want 0", snap.Media.Total())
	}
}

func TestSessionsIsolated(t *testing.T) {
	sys := sessions.New(time.Hour, discard())
	a := sys.Create()
	b := sys.Create()

	if err := a.SetProfile(marketing.BusinessProfile{BusinessName: "Acme", Industry: "SaaS"}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	a.Store(sessions.Artifact{Stage: marketing.StageProfile, Text: "analysis"})

	if got := b.Profile().BusinessName; got != "" {
		t.Errorf("session b business name = %q, want empty", got)
	}
	if b.Completed().Has(marketing.StageProfile) {
		t.Error("session b sees session a's completion")
	}
	if sys.Len() != 2 {
		t.Errorf("Len = %d, want 2", sys.Len())
	}
}

func TestStoreReplacesAndCompletes(t *testing.T) {
	sess := sessions.New(time.Hour, discard()).Create()

	sess.Store(sessions.Artifact{Stage: marketing.StageStrategy, Text: "first"})
	sess.Store(sessions.Artifact{Stage: marketing.StageStrategy, Text: "second"})
	sess.Store(sessions.Artifact{Stage: marketing.StageProfile, Text: "profile"})

	a, ok := sess.Artifact(marketing.StageStrategy)
	if !ok || a.Text != "second" {
		t.Errorf("strategy artifact = %q, %v; want second, true", a.Text, ok)
	}

	prior := sess.Prior()
	if prior[marketing.StageProfile] != "profile" {
		t.Errorf("prior profile = %q", prior[marketing.StageProfile])
	}

	snap := sess.Snapshot()
	if len(snap.Artifacts) != 2 {
		t.Fatalf("artifacts = %d, want 2", len(snap.Artifacts))
	}
	if snap.Artifacts[0].Stage != marketing.StageProfile {
		t.Errorf("first artifact = %s, want profile", snap.Artifacts[0].Stage)
	}
}

func TestSetProfileKeepsCompletion(t *testing.T) {
	sess := sessions.New(time.Hour, discard()).Create()
	sess.Store(sessions.Artifact{Stage: marketing.StageStrategy, Text: "plan"})

	if err := sess.SetProfile(marketing.BusinessProfile{}); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	if !sess.Completed().Has(marketing.StageStrategy) {
		t.Error("clearing the profile removed strategy completion")
	}
	if got := sess.Profile().BudgetRange; got != marketing.DefaultBudgetRange {
		t.Errorf("budget = %q, want default", got)
	}
}

func TestSetProfileRejectsUnknownIndustry(t *testing.T) {
	sess := sessions.New(time.Hour, discard()).Create()
	err := sess.SetProfile(marketing.BusinessProfile{BusinessName: "Acme", Industry: "Mining"})
	if !errors.Is(err, marketing.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestTryAcquire(t *testing.T) {
	sess := sessions.New(time.Hour, discard()).Create()

	if err := sess.TryAcquire(); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := sess.TryAcquire(); !errors.Is(err, sessions.ErrBusy) {
		t.Errorf("second acquire = %v, want ErrBusy", err)
	}
	sess.Release()
	if err := sess.TryAcquire(); err != nil {
		t.Errorf("acquire after release: %v", err)
	}
	sess.Release()
}

func TestTryAcquireConcurrent(t *testing.T) {
	sess := sessions.New(time.Hour, discard()).Create()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		acquired int
	)
	start := make(chan struct{})
	for range 16 {
		wg.Go(func() {
			<-start
			if sess.TryAcquire() == nil {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		})
	}
	close(start)
	wg.Wait()

	if acquired != 1 {
		t.Errorf("acquired = %d, want 1", acquired)
	}
}

func TestFindAndDelete(t *testing.T) {
	sys := sessions.New(time.Hour, discard())
	sess := sys.Create()
	id := sess.ID().String()

	found, err := sys.Find(id)
	if err != nil || found != sess {
		t.Fatalf("Find = %v, %v", found, err)
	}

	if _, err := sys.Find("not-a-uuid"); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Find invalid = %v, want ErrNotFound", err)
	}

	if err := sys.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := sys.Find(id); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("Find after delete = %v, want ErrNotFound", err)
	}
	if err := sys.Delete(id); !errors.Is(err, sessions.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestSweep(t *testing.T) {
	sys := sessions.New(time.Minute, discard())
	idle := sys.Create()
	busy := sys.Create()

	if err := busy.TryAcquire(); err != nil {
		t.Fatal(err)
	}
	defer busy.Release()

	if n := sys.Sweep(time.Now()); n != 0 {
		t.Errorf("early sweep evicted %d", n)
	}

	n := sys.Sweep(time.Now().Add(2 * time.Minute))
	if n != 1 {
		t.Errorf("evicted = %d, want 1", n)
	}
	if _, err := sys.Find(idle.ID().String()); !errors.Is(err, sessions.ErrNotFound) {
		t.Error("idle session survived sweep")
	}
	if _, err := sys.Find(busy.ID().String()); err != nil {
		t.Error("busy session evicted")
	}
}

func TestSweepDisabled(t *testing.T) {
	sys := sessions.New(0, discard())
	sys.Create()
	if n := sys.Sweep(time.Now().Add(24 * time.Hour)); n != 0 {
		t.Errorf("evicted = %d with eviction disabled", n)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", sessions.ErrNotFound, http.StatusNotFound},
		{"busy", sessions.ErrBusy, http.StatusConflict},
		{"too large", sessions.ErrUploadTooLarge, http.StatusRequestEntityTooLarge},
		{"no files", sessions.ErrNoFiles, http.StatusBadRequest},
		{"kind", media.ErrUnsupportedKind, http.StatusBadRequest},
		{"size", media.ErrInvalidSize, http.StatusBadRequest},
		{"validation", marketing.ErrValidation, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sessions.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func createSession(t *testing.T, mux *http.ServeMux) sessions.Snapshot {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}
	var snap sessions.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return snap
}

func TestHandlerLifecycle(t *testing.T) {
	mux := setupMux(sessions.New(time.Hour, discard()))
	snap := createSession(t, mux)
	base := "/sessions/" + snap.ID.String()

	if len(snap.Stages) != 1 || !snap.Stages[0].Enterable {
		t.Errorf("stages = %+v, want status from StatusFunc", snap.Stages)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", base, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("DELETE", base, nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", base, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
}

func TestHandlerUpdateProfile(t *testing.T) {
	mux := setupMux(sessions.New(time.Hour, discard()))
	base := "/sessions/" + createSession(t, mux).ID.String()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"valid", `{"business_name":"Acme","industry":"SaaS"}`, http.StatusOK},
		{"unknown industry", `{"business_name":"Acme","industry":"Mining"}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("PUT", base+"/profile", strings.NewReader(tt.body))
			mux.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestHandlerUpdateVoice(t *testing.T) {
	mux := setupMux(sessions.New(time.Hour, discard()))
	base := "/sessions/" + createSession(t, mux).ID.String()

	rec := httptest.NewRecorder()
	body := `{"enabled":true,"speed":"Slow","gender":"Male"}`
	mux.ServeHTTP(rec, httptest.NewRequest("PUT", base+"/voice", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var voice marketing.VoiceConfig
	if err := json.NewDecoder(rec.Body).Decode(&voice); err != nil {
		t.Fatal(err)
	}
	if !voice.Enabled || voice.Speed != marketing.SpeedSlow || voice.Gender != marketing.GenderMale {
		t.Errorf("voice = %+v", voice)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("PUT", base+"/voice", strings.NewReader(`{"speed":"Warp","gender":"Male"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid speed status = %d", rec.Code)
	}
}

type upload struct {
	name        string
	contentType string
	size        int
}

func multipartBody(t *testing.T, kind string, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if kind != "" {
		if err := w.WriteField("kind", kind); err != nil {
			t.Fatal(err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="files"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(bytes.Repeat([]byte("x"), f.size))
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandlerUploadMedia(t *testing.T) {
	mux := setupMux(sessions.New(time.Hour, discard()))
	base := "/sessions/" + createSession(t, mux).ID.String()

	body, ct := multipartBody(t, "",
		upload{"logo.png", "image/png", 2048},
		upload{"promo.mp4", "video/mp4", 512},
		upload{"jingle.mp3", "audio/mpeg", 64},
	)
	req := httptest.NewRequest("POST", base+"/media", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", base+"/gallery", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("gallery status = %d", rec.Code)
	}

	var listing media.Listing
	if err := json.NewDecoder(rec.Body).Decode(&listing); err != nil {
		t.Fatal(err)
	}
	if listing.Counts != (media.Counts{Images: 1, Videos: 1, Audio: 1}) {
		t.Errorf("counts = %+v", listing.Counts)
	}
	if len(listing.Images) != 1 || listing.Images[0].Size != 2048 {
		t.Errorf("images = %+v", listing.Images)
	}
}

func TestHandlerUploadMediaRejected(t *testing.T) {
	mux := setupMux(sessions.New(time.Hour, discard()))
	base := "/sessions/" + createSession(t, mux).ID.String()

	tests := []struct {
		name  string
		kind  string
		files []upload
	}{
		{"no files", "", nil},
		{"document", "", []upload{{"notes.pdf", "application/pdf", 10}}},
		{"bad kind", "spreadsheet", []upload{{"logo.png", "image/png", 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.kind, tt.files...)
			req := httptest.NewRequest("POST", base+"/media", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
