package stub

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"sort"

	"github.com/schoderer/pact-stub-server/internal/storage"
	"github.com/schoderer/pact-stub-server/pkg/logging"
	"github.com/schoderer/pact-stub-server/pkg/pact"
)

// Handler answers every incoming request with the response of the
// best-matching loaded interaction. All per-request state stays local to one
// ServeHTTP call; the store and configuration are shared read-only.
type Handler struct {
	cfg   *Config
	store *storage.InteractionStore
	log   *slog.Logger
}

// NewHandler creates a Handler. A nil logger disables logging.
func NewHandler(cfg *Config, store *storage.InteractionStore, log *slog.Logger) *Handler {
	if log == nil {
		log = logging.Nop()
	}
	return &Handler{cfg: cfg, store: store, log: log}
}

// ServeHTTP implements the http.Handler interface. The pipeline is linear:
// resolve the effective provider state filter, buffer the body, filter,
// evaluate, select, respond. Any stage failure short-circuits straight to
// the response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	filter, err := h.resolveStateFilter(r)
	if err != nil {
		h.log.Warn("rejecting request with malformed provider state filter",
			"header", h.cfg.ProviderStateHeader, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	request := h.buildRequest(r)
	h.log.Info("received request", "method", request.Method, "path", request.Path)
	h.log.Debug("request detail", "query", r.URL.RawQuery, "body", request.Body.String())

	if filter != nil {
		h.log.Info("filtering interactions by provider state", "pattern", filter.String())
	}
	candidates := filterByProviderState(h.store.All(), filter)

	response, err := findResponse(h.log, candidates, request, h.cfg.AutoCORS, h.cfg.VerboseMismatchBodies)
	if err != nil {
		if !errors.Is(err, ErrNoMatchFound) {
			h.log.Error("failed to select a response", "error", err)
		}
		h.writeNotFound(w)
		return
	}

	writeResponse(w, response)
}

// resolveStateFilter returns the provider state pattern effective for this
// request: the value of the configured override header when present and
// valid, otherwise the static pattern. A malformed header value fails only
// this request.
func (h *Handler) resolveStateFilter(r *http.Request) (*regexp.Regexp, error) {
	if h.cfg.ProviderStateHeader == "" {
		return h.cfg.ProviderState, nil
	}
	header := r.Header.Get(h.cfg.ProviderStateHeader)
	if header == "" {
		return h.cfg.ProviderState, nil
	}
	pattern, err := regexp.Compile(header)
	if err != nil {
		return nil, errors.Join(ErrInvalidStateFilter, err)
	}
	return pattern, nil
}

// buildRequest converts the transport request into the matcher's request
// model, fully buffering the body first. A body read failure is treated as
// an empty body and logged; matching still proceeds.
func (h *Handler) buildRequest(r *http.Request) *pact.Request {
	body := pact.EmptyBody()
	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			h.log.Warn("failed to read request body, treating as empty",
				"method", r.Method, "path", r.URL.Path, "error", err)
		} else {
			body = pact.PresentBody(data)
		}
	}

	headers := make(map[string][]string, len(r.Header))
	for name, vals := range r.Header {
		copied := make([]string, len(vals))
		copy(copied, vals)
		headers[name] = copied
	}

	return &pact.Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.Query(),
		Headers: headers,
		Body:    body,
	}
}

// writeNotFound sends the failure response: 404 with an empty body. The
// reasoning stays in the log, never in the response. With auto-CORS on, the
// allow-origin header is attached so browser test clients can read the 404.
func (h *Handler) writeNotFound(w http.ResponseWriter) {
	h.log.Warn("no matching interaction, sending 404")
	if h.cfg.AutoCORS {
		w.Header().Set("Access-Control-Allow-Origin", corsAllowOrigin)
	}
	w.WriteHeader(http.StatusNotFound)
}

// writeResponse emits a stub response. Header value lists are assigned
// wholesale so duplicate values survive verbatim, in their recorded order;
// names are written in sorted order for reproducibility.
func writeResponse(w http.ResponseWriter, resp *pact.Response) {
	header := w.Header()
	names := make([]string, 0, len(resp.Headers))
	for name := range resp.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		header[http.CanonicalHeaderKey(name)] = resp.Headers[name]
	}

	w.WriteHeader(resp.Status)
	if resp.Body.IsPresent() {
		_, _ = w.Write(resp.Body.Bytes())
	}
}
