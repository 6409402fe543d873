package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bastiangx/wordmatch/internal/logger"
	"github.com/bastiangx/wordmatch/pkg/config"
	"github.com/bastiangx/wordmatch/pkg/pattern"
	"github.com/bastiangx/wordmatch/pkg/query"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/time/rate"
)

// Error codes sent in ErrorResponse.Code.
const (
	CodeBadRequest  = 400
	CodeRateLimited = 429
	CodeInternal    = 500
)

// Server handles the IPC for pattern searches
type Server struct {
	searcher query.Searcher
	cfg      config.ServerConfig
	decoder  *msgpack.Decoder
	writer   *bufio.Writer
	encoder  *msgpack.Encoder
	limiter  *rate.Limiter
	logger   *log.Logger
	requests int
}

// NewServer creates a server reading requests from r and writing responses to w.
// Pass os.Stdin and os.Stdout for the usual IPC setup.
func NewServer(searcher query.Searcher, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	s := &Server{
		searcher: searcher,
		cfg:      cfg,
		decoder:  msgpack.NewDecoder(bufio.NewReader(r)),
		writer:   bw,
		encoder:  msgpack.NewEncoder(bw),
		logger:   logger.New("server"),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

// Start announces readiness and serves requests until EOF or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting server")

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Debugf("Stopping after %d requests: %v", s.requests, err)
			return nil
		}

		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return fmt.Errorf("read request: %w", err)
		}
		s.requests++

		if err := s.handleRequest(raw); err != nil {
			return err
		}
	}
}

// handleRequest decodes and answers one message. Only write failures are returned.
func (s *Server) handleRequest(raw msgpack.RawMessage) error {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "Invalid msgpack request", CodeBadRequest)
	}

	if s.limiter != nil && !s.limiter.Allow() {
		s.logger.Warnf("Rate limited request %s", req.ID)
		return s.sendError(req.ID, "Rate limit exceeded", CodeRateLimited)
	}

	switch req.Action {
	case "", ActionSearch:
		return s.handleSearch(req)
	case ActionStats:
		st := s.searcher.Stats()
		return s.send(StatsResponse{
			ID:        req.ID,
			Words:     st.Words,
			Lengths:   st.Lengths,
			Postings:  st.Postings,
			MaxLength: st.MaxLength,
		})
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		return s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), CodeBadRequest)
	}
}

func (s *Server) handleSearch(req Request) error {
	if req.Pattern == "" {
		s.logger.Debug("Pattern is empty in request")
		return s.sendError(req.ID, "Missing 'p' parameter", CodeBadRequest)
	}

	result, err := s.searcher.Search(req.Pattern)
	if err != nil {
		code := CodeInternal
		if isPatternError(err) {
			code = CodeBadRequest
		}
		s.logger.Debugf("Search '%s' failed: %v", req.Pattern, err)
		return s.sendError(req.ID, err.Error(), code)
	}

	ids := result.IDs
	if req.Limit > 0 && len(ids) > req.Limit {
		ids = ids[:req.Limit]
	}
	if ids == nil {
		ids = []int{}
	}

	resp := SearchResponse{
		ID:        req.ID,
		IDs:       ids,
		Count:     result.Count(),
		Templates: result.Templates,
		TimeTaken: result.Elapsed.Microseconds(),
	}
	includeWords := s.cfg.IncludeWords
	if req.Words != nil {
		includeWords = *req.Words
	}
	if includeWords {
		resp.Words = s.searcher.Words(result, req.Limit)
	}
	return s.send(resp)
}

func isPatternError(err error) bool {
	var perr *pattern.Error
	return errors.As(err, &perr)
}

// send encodes one response and flushes it so the client sees it immediately.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return fmt.Errorf("write response: %w", err)
	}
	if err := s.writer.Flush(); err != nil {
		s.logger.Errorf("Flushing response: %v", err)
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
