package service

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/Astemirdum/school-library/library/internal/errs"
	libraryRepo "github.com/Astemirdum/school-library/library/internal/repository"
	"github.com/Astemirdum/school-library/pkg/validate"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// EventPublisher delivers loan events after the owning transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, key string, v any) error
}

type Clock interface {
	Now() time.Time
}

type IDGen interface {
	NewID() string
}

type Service struct {
	log       *zap.Logger
	repo      libraryRepo.Repository
	publisher EventPublisher
	clock     Clock
	ids       IDGen
	validator *validate.CustomValidator
}

type Option func(s *Service)

func WithClock(c Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

func WithIDGen(g IDGen) Option {
	return func(s *Service) {
		s.ids = g
	}
}

func NewService(repo libraryRepo.Repository, publisher EventPublisher, log *zap.Logger, opts ...Option) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		publisher: publisher,
		clock:     realClock{},
		ids:       newULIDGen(),
		validator: validate.NewCustomValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) validate(req any) error {
	if err := s.validator.Validate(req); err != nil {
		return errs.Invalid("%s", err.Error())
	}
	return nil
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type ulidGen struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newULIDGen() *ulidGen {
	return &ulidGen{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ulidGen) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
