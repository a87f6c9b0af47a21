// Package rpc exposes the execute and query surfaces over JSON-RPC 2.0 and
// streams transfer events to websocket subscribers.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trueeth/cw20-reflection/internal/core/asset"
	"github.com/trueeth/cw20-reflection/internal/core/engine"
	"github.com/trueeth/cw20-reflection/internal/core/token"
	"github.com/trueeth/cw20-reflection/internal/core/treasury"
)

// handler executes one RPC method against the engine.
type handler func(ctx context.Context, params json.RawMessage) (any, error)

// Server serves JSON-RPC over HTTP, with an optional websocket feed mounted
// under /ws.
type Server struct {
	engine  *engine.Engine
	feed    *Feed
	log     *logrus.Logger
	methods map[string]handler
	httpSrv *http.Server
}

// NewServer builds the RPC server around an engine. feed may be nil when
// the websocket surface is disabled.
func NewServer(eng *engine.Engine, feed *Feed, log *logrus.Logger) *Server {
	s := &Server{
		engine:  eng,
		feed:    feed,
		log:     log,
		methods: make(map[string]handler),
	}
	s.registerMethods()
	return s
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHTTP)
	if s.feed != nil {
		mux.HandleFunc("/ws", s.feed.ServeHTTP)
	}

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpSrv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, errorResponse(nil, CodeParseError, "invalid JSON"))
		return
	}
	if req.Method == "" {
		writeJSON(w, errorResponse(req.ID, CodeInvalidRequest, "missing method"))
		return
	}

	method, ok := s.methods[req.Method]
	if !ok {
		writeJSON(w, errorResponse(req.ID, CodeMethodNotFound, "method not found: "+req.Method))
		return
	}

	result, err := method(r.Context(), req.Params)
	if err != nil {
		code, msg := classify(err)
		s.log.WithError(err).WithField("method", req.Method).Debug("rpc call rejected")
		writeJSON(w, errorResponse(req.ID, code, msg))
		return
	}
	writeJSON(w, resultResponse(req.ID, result))
}

func writeJSON(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// classify maps domain errors onto the RPC error code ranges.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, token.ErrInvalidAmount),
		errors.Is(err, token.ErrMalformed),
		errors.Is(err, token.ErrRateOutOfRange),
		errors.Is(err, asset.ErrInvalidAddress),
		errors.Is(err, asset.ErrInvalidAsset):
		return CodeValidation, err.Error()
	case errors.Is(err, token.ErrUnauthorized),
		errors.Is(err, treasury.ErrUnauthorized):
		return CodeUnauthorized, err.Error()
	case errors.Is(err, token.ErrInsufficientFunds),
		errors.Is(err, token.ErrInsufficientAllowance),
		errors.Is(err, token.ErrAllowanceExpired):
		return CodeInsufficient, err.Error()
	case errors.Is(err, token.ErrConfigurationMissing),
		errors.Is(err, treasury.ErrConfigurationMissing),
		errors.Is(err, treasury.ErrInvalidSplit):
		return CodeConfiguration, err.Error()
	case errors.Is(err, token.ErrNoMinter),
		errors.Is(err, token.ErrCapExceeded),
		errors.Is(err, token.ErrSupplyOverflow),
		errors.Is(err, treasury.ErrMismatchedQuoteAsset),
		errors.Is(err, treasury.ErrPairAssetNotListed),
		errors.Is(err, treasury.ErrBaseNotToken),
		errors.Is(err, treasury.ErrLiquidityTokenProtected):
		return CodeState, err.Error()
	default:
		return CodeInternalError, err.Error()
	}
}
