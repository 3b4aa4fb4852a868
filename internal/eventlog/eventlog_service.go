package eventlog

import (
	"context"
	"time"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/contextutil"

	"go.uber.org/zap"
)

type RecordRequest struct {
	EventType     string
	AggregateType string
	AggregateID   string
	ActorID       *string
	Payload       []byte
	OccurredAt    time.Time
}

type EntryResponse struct {
	ID            string    `json:"id"`
	EventType     string    `json:"event_type"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   string    `json:"aggregate_id"`
	ActorID       *string   `json:"actor_id,omitempty"`
	Payload       any       `json:"payload,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

//go:generate mockgen -source=eventlog_service.go -destination=mock/eventlog_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, req RecordRequest) error
	GetRecent(ctx context.Context, limit int) ([]EntryResponse, error)
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string) ([]EntryResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, req RecordRequest) error {
	log := contextutil.GetLogger(ctx, s.logger)

	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	entry := &Entry{
		EventType:     req.EventType,
		AggregateType: req.AggregateType,
		AggregateID:   req.AggregateID,
		ActorID:       req.ActorID,
		Payload:       req.Payload,
		OccurredAt:    occurredAt,
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return err
	}

	log.Debug("event recorded",
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_id", entry.AggregateID),
	)
	return nil
}

func (s *service) GetRecent(ctx context.Context, limit int) ([]EntryResponse, error) {
	entries, err := s.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toResponses(entries), nil
}

func (s *service) GetByAggregate(ctx context.Context, aggregateType, aggregateID string) ([]EntryResponse, error) {
	entries, err := s.repo.FindByAggregate(ctx, aggregateType, aggregateID)
	if err != nil {
		return nil, err
	}
	return toResponses(entries), nil
}

func toResponses(entries []Entry) []EntryResponse {
	resp := make([]EntryResponse, len(entries))
	for i, e := range entries {
		resp[i] = EntryResponse{
			ID:            e.ID.String(),
			EventType:     e.EventType,
			AggregateType: e.AggregateType,
			AggregateID:   e.AggregateID,
			ActorID:       e.ActorID,
			OccurredAt:    e.OccurredAt,
		}
		if len(e.Payload) > 0 {
			// Payload disimpan apa adanya; klien yang mem-parse.
			resp[i].Payload = string(e.Payload)
		}
	}
	return resp
}
