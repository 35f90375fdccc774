package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/bidchain/pkg/buildinfo"
	"github.com/matzehuels/bidchain/pkg/cache"
	"github.com/matzehuels/bidchain/pkg/errors"
	"github.com/matzehuels/bidchain/pkg/pipeline"
)

// Response headers set on evaluation responses.
const (
	HeaderEvaluationID = "X-Evaluation-ID"
	HeaderSeed         = "X-Seed"
	HeaderCache        = "X-Cache"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	s.evaluate(w, r, pipeline.FormatJSON)
}

func (s *Server) handleChainFormat(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	s.evaluate(w, r, format)
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request, format string) {
	opts, err := optionsFromQuery(pipeline.OptionsFromConfig(s.cfg), r.URL.Query())
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	// Only a pinned seed makes the response reproducible.
	var key string
	if opts.Seed != nil {
		key = cache.Key("chain", opts.SSPs, opts.Bid, opts.Policy, *opts.Seed, format, opts.Detailed)
		if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
			w.Header().Set(HeaderCache, "HIT")
			writeArtifact(w, format, *opts.Seed, data)
			return
		}
	}

	res, err := s.runner.Evaluate(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data := res.Artifacts[format]
	if key != "" {
		if err := s.cache.Set(r.Context(), key, data, s.cfg.Server.CacheTTL); err != nil {
			s.logger.Warn("cache set failed", "err", err)
		}
	}

	w.Header().Set(HeaderEvaluationID, res.ID.String())
	w.Header().Set(HeaderCache, "MISS")
	writeArtifact(w, format, res.Seed, data)
}

func writeArtifact(w http.ResponseWriter, format string, seed uint64, data []byte) {
	w.Header().Set(HeaderSeed, strconv.FormatUint(seed, 10))
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// optionsFromQuery overlays query parameters on base.
func optionsFromQuery(base pipeline.Options, q url.Values) (pipeline.Options, error) {
	opts := base
	if v := q.Get("ssps"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParameter, "ssps must be an integer, got %q", v)
		}
		if err := errors.ValidateSSPCount(n, 1, 0); err != nil {
			return opts, err
		}
		opts.SSPs = n
	}
	if v := q.Get("bid"); v != "" {
		bid, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParameter, "bid must be a number, got %q", v)
		}
		if err := errors.ValidateBid(bid, 0); err != nil {
			return opts, err
		}
		opts.Bid = bid
	}
	if v := q.Get("policy"); v != "" {
		opts.Policy = v
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParameter, "seed must be an unsigned integer, got %q", v)
		}
		opts.Seed = &seed
	}
	if v := q.Get("detailed"); v != "" {
		detailed, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidParameter, "detailed must be a boolean, got %q", v)
		}
		opts.Detailed = detailed
	}
	return opts, nil
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNoPathFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("evaluation failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
