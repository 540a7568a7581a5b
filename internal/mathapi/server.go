package mathapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Server wires the math handlers, the usage log and request logging.
type Server struct {
	usage  *UsageLog
	logger *zap.Logger
}

// NewServer creates a Server over the given usage log.
func NewServer(usage *UsageLog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{usage: usage, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/pow", s.handlePow).Methods(http.MethodGet)
	r.HandleFunc("/fibonacci", s.handleFibonacci).Methods(http.MethodGet)
	r.HandleFunc("/factorial", s.handleFactorial).Methods(http.MethodGet)
	r.HandleFunc("/log", s.handleLog).Methods(http.MethodGet)
	r.Use(s.requestLogging)
	return r
}

func (s *Server) handlePow(w http.ResponseWriter, r *http.Request) {
	base, okBase := queryFloat(r, "base")
	exponent, okExp := queryFloat(r, "exponent")
	if !okBase || !okExp {
		writeError(w, http.StatusBadRequest, "base and exponent are required to perform power op")
		return
	}
	result := Pow(base, exponent)
	if err := s.usage.Record(r.Context(), "pow", map[string]any{"base": base, "exponent": exponent}); err != nil {
		s.logger.Error("recording usage", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to record usage")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"base":     base,
		"exponent": exponent,
		"result":   result,
	})
}

func (s *Server) handleFibonacci(w http.ResponseWriter, r *http.Request) {
	n, ok := queryInt(r, "n")
	if !ok {
		writeError(w, http.StatusBadRequest, "n is required to calculate fibonacci sequence")
		return
	}
	result, err := Fibonacci(n)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.usage.Record(r.Context(), "fibonacci", map[string]any{"n": n}); err != nil {
		s.logger.Error("recording usage", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to record usage")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"n":      n,
		"result": result,
	})
}

func (s *Server) handleFactorial(w http.ResponseWriter, r *http.Request) {
	n, ok := queryInt(r, "n")
	if !ok {
		writeError(w, http.StatusBadRequest, "n is required for factorial calculation")
		return
	}
	result, err := Factorial(n)
	if err != nil {
		if errors.Is(err, ErrNegativeInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.usage.Record(r.Context(), "factorial", map[string]any{"n": n}); err != nil {
		s.logger.Error("recording usage", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to record usage")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"n":      n,
		"result": result,
	})
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	entries, err := s.usage.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("reading usage log", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read usage log")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func queryFloat(r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func queryInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
