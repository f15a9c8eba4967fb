package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/newswire/internal/model"
)

// ErrStreamClosed is returned when using a stream after Close.
var ErrStreamClosed = errors.New("fetch: stream closed")

// StreamConfig holds firehose WebSocket settings.
type StreamConfig struct {
	URL                string
	ReconnectBaseDelay time.Duration // Default 1s
	ReconnectMaxDelay  time.Duration // Default 60s
	ReadTimeout        time.Duration // Default 30s
	BufferSize         int           // Queued items between cycles (default 1024)
}

// streamFrame is the wire shape of one firehose message.
type streamFrame struct {
	SourceID    string    `json:"source_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	Tier        int       `json:"tier"`
	Breaking    bool      `json:"breaking"`
}

// Stream consumes a WebSocket firehose of items and queues them until the
// next cycle drains the batch. It reconnects with exponential backoff.
type Stream struct {
	cfg    StreamConfig
	logger *slog.Logger

	queue chan model.RawItem
	done  chan struct{}
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewStream creates a Stream.
func NewStream(cfg StreamConfig, logger *slog.Logger) *Stream {
	if cfg.ReconnectBaseDelay <= 0 {
		cfg.ReconnectBaseDelay = time.Second
	}
	if cfg.ReconnectMaxDelay <= 0 {
		cfg.ReconnectMaxDelay = 60 * time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Stream{
		cfg:    cfg,
		logger: logger,
		queue:  make(chan model.RawItem, cfg.BufferSize),
		done:   make(chan struct{}),
	}
}

// Start begins the connect/read loop in the background.
func (s *Stream) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStreamClosed
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("stream started", "url", s.cfg.URL)
	return nil
}

// Close stops the loop and waits for it to exit.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
	return nil
}

// Fetch drains every currently queued item without blocking, satisfying the
// Fetcher contract for the cycle scheduler.
func (s *Stream) Fetch(ctx context.Context) ([]model.RawItem, error) {
	var items []model.RawItem
	for {
		select {
		case item := <-s.queue:
			items = append(items, item)
		case <-ctx.Done():
			return items, ctx.Err()
		default:
			return items, nil
		}
	}
}

// run reconnects forever with exponential backoff until Close or ctx done.
func (s *Stream) run(ctx context.Context) {
	defer s.wg.Done()

	delay := s.cfg.ReconnectBaseDelay
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		default:
		}

		err := s.readConn(ctx)
		if err != nil {
			s.logger.Warn("stream connection lost", "err", err, "retry_in", delay)
		}

		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > s.cfg.ReconnectMaxDelay {
			delay = s.cfg.ReconnectMaxDelay
		}
	}
}

// readConn dials and reads frames until the connection drops.
func (s *Stream) readConn(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Server pings keep the read deadline fresh.
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	s.logger.Debug("stream connected", "url", s.cfg.URL)

	for {
		select {
		case <-s.done:
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			return nil
		case <-ctx.Done():
			return nil
		default:
		}

		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame streamFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.logger.Warn("dropping undecodable stream frame", "err", err)
			continue
		}

		item := model.RawItem{
			SourceID:    frame.SourceID,
			URL:         frame.URL,
			Title:       frame.Title,
			Body:        frame.Body,
			PublishedAt: frame.PublishedAt,
			Tier:        model.SourceTier(frame.Tier),
			Breaking:    frame.Breaking,
		}

		select {
		case s.queue <- item:
		default:
			// Queue full: drop the oldest to keep the freshest items.
			select {
			case <-s.queue:
			default:
			}
			select {
			case s.queue <- item:
			default:
			}
		}
	}
}
