package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vendimo/vendimo/internal/config"
)

const (
	workers       = 4
	queueSize     = 256
	maxRetries    = 3
	retryInterval = time.Second * 1
)

// Message is the contract of the notification collaborator.
type Message struct {
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
}

type Sender interface {
	Post(url string, headers http.Header, body []byte) (statusCode int, respBody []byte, err error)
}

// Service delivers notifications fire-and-forget: Enqueue never blocks, a
// full queue drops the message, and delivery failures are only logged. It
// must never gate a ledger commit.
type Service struct {
	url     string
	client  Sender
	breaker *gobreaker.CircuitBreaker
	queue   chan Message
}

func New(cfg *config.Config, client Sender) *Service {
	return &Service{
		url:    cfg.NotifyAddress + "/api/notifications",
		client: client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "notify",
			MaxRequests: 3,
			Timeout:     time.Second * 30,
		}),
		queue: make(chan Message, queueSize),
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Notification dispatcher started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case msg := <-s.queue:
					s.deliver(msg)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		zap.L().Error("notification dispatcher stopped with error", zap.Error(err))
	}
}

func (s *Service) Enqueue(msg Message) {
	select {
	case s.queue <- msg:
	default:
		zap.L().Warn("notification queue full, dropping message",
			zap.String("recipient", msg.RecipientEmail),
			zap.String("subject", msg.Subject),
		)
	}
}

func (s *Service) deliver(msg Message) {
	body, err := json.Marshal(msg)
	if err != nil {
		zap.L().Error("can't marshal notification", zap.Error(err))
		return
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")

	for attempt := 1; attempt <= maxRetries; attempt++ {
		_, err = s.breaker.Execute(func() (interface{}, error) {
			statusCode, _, err := s.client.Post(s.url, headers, body)
			if err != nil {
				return nil, err
			}
			if statusCode >= http.StatusBadRequest {
				return nil, fmt.Errorf("notification gateway returned %d", statusCode)
			}
			return nil, nil
		})
		if err == nil {
			return
		}
		if attempt < maxRetries {
			time.Sleep(retryInterval * time.Duration(attempt))
		}
	}

	zap.L().Warn("failed to deliver notification",
		zap.String("recipient", msg.RecipientEmail),
		zap.String("subject", msg.Subject),
		zap.Error(err),
	)
}
