package httpapi

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"beerchek/webapp-svc/internal/bridge"
	"beerchek/webapp-svc/internal/domain"
	"beerchek/webapp-svc/internal/service"
	"beerchek/webapp-svc/internal/session"

	"github.com/gorilla/mux"
)

const defaultMaxUploadBytes = 10 << 20

type Options struct {
	BotToken       string
	InitDataMaxAge time.Duration
	MaxUploadBytes int64
}

type Handler struct {
	Views    service.ViewServiceInterface
	Sessions *session.Manager
	Page     *template.Template
	Options  Options
	now      func() time.Time
}

func NewHandler(views service.ViewServiceInterface, sessions *session.Manager, page *template.Template, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Views: views, Sessions: sessions, Page: page, Options: opts, now: time.Now}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.index).Methods("GET")
	r.HandleFunc("/session", h.openSession).Methods("POST")
	r.HandleFunc("/search", h.search).Methods("POST")
	r.HandleFunc("/rate", h.rate).Methods("POST")
	r.HandleFunc("/photo", h.photo).Methods("POST")

	r.HandleFunc("/api/state", h.apiState).Methods("GET")
	r.HandleFunc("/api/search", h.apiSearch).Methods("POST")
	r.HandleFunc("/api/rate", h.apiRate).Methods("POST")
	r.HandleFunc("/api/photo", h.apiPhoto).Methods("POST")
	r.HandleFunc("/api/beers/qrcode", h.qrCode).Methods("GET")

	r.HandleFunc("/beer_db.json", h.catalog).Methods("GET")
	r.HandleFunc("/health", h.health).Methods("GET")
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	var (
		state domain.UiState
		err   error
	)
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		state, err = h.Views.Search(r.Context(), sid, q)
	} else {
		state, err = h.Views.State(r.Context(), sid)
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.Page.ExecuteTemplate(w, "base.html", h.view(state)); err != nil {
		log.Printf("[WEBAPP] template error: %v", err)
	}
}

func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	raw, err := readInitData(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var data bridge.InitData
	if h.Options.BotToken != "" {
		data, err = bridge.ValidateInitData(raw, h.Options.BotToken, h.Options.InitDataMaxAge, h.now())
	} else {
		data, err = bridge.ParseInitData(raw)
	}
	if err != nil {
		switch {
		case errors.Is(err, bridge.ErrInitDataSignature), errors.Is(err, bridge.ErrInitDataExpired):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	if data.User == nil {
		// nothing to bind; a 2xx here would make the page reload forever
		http.Error(w, "init data carries no user", http.StatusUnprocessableEntity)
		return
	}

	state, err := h.Views.Open(r.Context(), sid, data.User)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.view(state))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.Views.Search(r.Context(), sid, r.PostForm.Get("q")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) rate(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	value, err := strconv.Atoi(r.PostForm.Get("rating"))
	if err != nil {
		http.Error(w, "Invalid rating", http.StatusBadRequest)
		return
	}
	if _, _, err := h.Views.Rate(r.Context(), sid, r.PostForm.Get("beer"), value); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) photo(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Options.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.Options.MaxUploadBytes); err != nil {
		http.Error(w, "Invalid upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	var image []byte
	file, _, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		image, err = io.ReadAll(file)
		if err != nil {
			http.Error(w, "Invalid upload: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// the outcome is shown as the session's status message
	if _, err := h.Views.SubmitPhoto(r.Context(), sid, image); err != nil && !errors.Is(err, service.ErrPhotoNotSent) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) apiState(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	state, err := h.Views.State(r.Context(), sid)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.view(state))
}

func (h *Handler) apiSearch(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	var payload struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	state, err := h.Views.Search(r.Context(), sid, payload.Query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, h.view(state))
}

func (h *Handler) apiRate(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	var payload struct {
		Beer   string `json:"beer"`
		Rating int    `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	state, outcome, err := h.Views.Rate(r.Context(), sid, payload.Beer, payload.Rating)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		service.View
		service.RateOutcome
	}{h.view(state), outcome})
}

func (h *Handler) apiPhoto(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}

	// base64 grows the payload by a third
	r.Body = http.MaxBytesReader(w, r.Body, h.Options.MaxUploadBytes*4/3+1024)
	var payload struct {
		ImageBase64 string `json:"image_base64"`
		DataURI     string `json:"data_uri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	encoded := payload.ImageBase64
	if encoded == "" {
		encoded = payload.DataURI
	}
	var image []byte
	if strings.TrimSpace(encoded) != "" {
		var err error
		image, err = service.DecodeDataURI(encoded)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	state, err := h.Views.SubmitPhoto(r.Context(), sid, image)
	if err != nil {
		switch {
		case errors.Is(err, bridge.ErrBridgeUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		case errors.Is(err, service.ErrPhotoNotSent):
			http.Error(w, err.Error(), http.StatusBadGateway)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, h.view(state))
}

func (h *Handler) qrCode(w http.ResponseWriter, r *http.Request) {
	beer := r.URL.Query().Get("beer")
	if strings.TrimSpace(beer) == "" {
		http.Error(w, "Missing beer", http.StatusBadRequest)
		return
	}

	png, err := h.Views.ShareQRCode(beer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownBeer):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Views.Records())
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "webapp-svc",
		"beers":   h.Views.CatalogSize(),
	})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid, err := h.Sessions.Ensure(w, r)
	if err != nil {
		log.Printf("[WEBAPP] failed to start session: %v", err)
		http.Error(w, "Session unavailable", http.StatusInternalServerError)
		return "", false
	}
	return sid, true
}

func (h *Handler) view(state domain.UiState) service.View {
	return service.NewView(state, h.Views.BridgeAvailable(state))
}

func readInitData(r *http.Request) (string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			InitData string `json:"init_data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return "", errors.New("invalid payload")
		}
		return payload.InitData, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostForm.Get("init_data"), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoResult), errors.Is(err, service.ErrBeerMismatch):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
