package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/bastiangx/wordswap/pkg/dictionary"
	"github.com/bastiangx/wordswap/pkg/wordmap"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Source provides the map to serve. *dictionary.Runtime implements it.
type Source interface {
	Current() *wordmap.Map
	Generation() uint64
	Reload() error
}

// infoSource is implemented by sources that can describe where their map came from.
type infoSource interface {
	Info() dictionary.RuntimeInfo
}

// Options for a Server.
type Options struct {
	CacheSize    int // 0 disables the lookup cache
	DefaultLimit int // words listed when a request has no limit
}

// Server handles the IPC for word lookups
type Server struct {
	source   Source
	opts     Options
	cache    *Cache
	decoder  *msgpack.Decoder
	writer   *bufio.Writer
	encoder  *msgpack.Encoder
	logger   *log.Logger
	requests uint64
}

// NewServer creates a lookup server using stdin/stdout for IPC
func NewServer(source Source, opts Options) (*Server, error) {
	return NewServerWithIO(source, opts, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a lookup server on the given streams
func NewServerWithIO(source Source, opts Options, r io.Reader, w io.Writer) (*Server, error) {
	cache, err := NewCache(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup cache: %w", err)
	}
	if opts.DefaultLimit < 1 {
		opts.DefaultLimit = 24
	}
	bw := bufio.NewWriter(w)
	return &Server{
		source:  source,
		opts:    opts,
		cache:   cache,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
		logger:  logger.New("server"),
	}, nil
}

// Start signals readiness and serves requests until the input stream ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")

	if err := s.send(StatusResponse{Status: "ready", Generation: s.source.Generation()}); err != nil {
		return err
	}

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			// The stream cannot be resynchronised after a framing error.
			s.logger.Errorf("Reading request: %v", err)
			s.sendError("", "unreadable request stream", 400)
			return err
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			continue
		}
		s.requests++
		s.handleRequest(req)
	}
}

// handleRequest dispatches on the request action
func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case "", ActionLookup:
		s.handleLookup(req)
	case ActionWords:
		s.handleWords(req)
	case ActionInfo:
		s.handleInfo(req)
	case ActionReload:
		s.handleReload(req)
	case ActionHealth:
		s.send(StatusResponse{ID: req.ID, Status: "ok", Generation: s.source.Generation()})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

// current returns the served map with the cache synced to its generation.
func (s *Server) current() *wordmap.Map {
	s.cache.Sync(s.source.Generation())
	return s.source.Current()
}

func (s *Server) handleLookup(req Request) {
	start := time.Now()

	m := s.current()
	if m == nil {
		s.sendError(req.ID, "no word map loaded", 500)
		return
	}

	out, ok := s.cache.Get(req.Word)
	if !ok {
		var err error
		out, err = m.Lookup(req.Word)
		if err != nil {
			s.logger.Debugf("Lookup %q failed: %v", req.Word, err)
			s.sendError(req.ID, err.Error(), errorCode(err))
			return
		}
		s.cache.Add(req.Word, out)
	}

	s.send(LookupResponse{
		ID:        req.ID,
		Word:      req.Word,
		Output:    out,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleWords(req Request) {
	m := s.current()
	if m == nil {
		s.sendError(req.ID, "no word map loaded", 500)
		return
	}
	limit := req.Limit
	if limit < 1 {
		limit = s.opts.DefaultLimit
	}
	words := m.Words(req.Prefix, limit)
	if words == nil {
		words = []string{}
	}
	s.send(WordsResponse{ID: req.ID, Words: words, Count: len(words)})
}

func (s *Server) handleInfo(req Request) {
	m := s.current()
	if m == nil {
		s.sendError(req.ID, "no word map loaded", 500)
		return
	}
	stats := m.Stats()
	cache := s.cache.Stats()
	resp := InfoResponse{
		ID:          req.ID,
		Words:       stats.Entries,
		Symbols:     stats.Symbols,
		Characters:  stats.Characters,
		Entropy:     stats.Entropy,
		Generation:  s.source.Generation(),
		Requests:    s.requests,
		CacheSize:   cache.Size,
		CacheHits:   cache.Hits,
		CacheMisses: cache.Misses,
		Bijective:   true,
	}
	if src, ok := s.source.(infoSource); ok {
		info := src.Info()
		resp.Source = string(info.Source)
		resp.LoadedAt = info.LoadedAt.Unix()
		resp.Bijective = info.Permutation.Bijective
	}
	s.send(resp)
}

func (s *Server) handleReload(req Request) {
	if err := s.source.Reload(); err != nil {
		s.logger.Errorf("Reload failed: %v", err)
		s.sendError(req.ID, err.Error(), 500)
		return
	}
	gen := s.source.Generation()
	s.cache.Sync(gen)
	s.send(StatusResponse{ID: req.ID, Status: "reloaded", Generation: gen})
}

// errorCode maps lookup errors to response codes
func errorCode(err error) int {
	switch {
	case errors.Is(err, wordmap.ErrEmptyWord), errors.Is(err, wordmap.ErrWordTooLong):
		return 400
	case errors.Is(err, wordmap.ErrNotFound):
		return 404
	case errors.Is(err, wordmap.ErrUnknownCharacter):
		return 422
	default:
		return 500
	}
}

// send encodes one response and flushes it to the client
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Marshaling response: %v", err)
		return err
	}
	if err := s.writer.Flush(); err != nil {
		s.logger.Errorf("Writing response: %v", err)
		return err
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
