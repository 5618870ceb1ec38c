// Package service implements the session operations on top of a Store.
package service

import (
	"time"

	"github.com/xiaot623/gogo/lecturechat/internal/idgen"
	"github.com/xiaot623/gogo/lecturechat/internal/repository"
	"github.com/xiaot623/gogo/lecturechat/policy"
)

// Notice texts appended by the service.
const (
	NoticeSessionStarted = "세션이 시작되었습니다"
	noticeJoinedFmt      = "%s님이 입장했습니다"
	noticeLeftFmt        = "%s님이 퇴장했습니다"
)

// Service owns the session invariants. It holds no per-request state.
type Service struct {
	store            repository.Store
	policyEngine     *policy.Engine
	maxMessageLength int
	now              func() time.Time
	newID            func(prefix string) string
}

// Option customizes a Service.
type Option func(*Service)

// WithPolicy makes SendMessage consult the admission policy.
func WithPolicy(engine *policy.Engine, maxMessageLength int) Option {
	return func(s *Service) {
		s.policyEngine = engine
		s.maxMessageLength = maxMessageLength
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(newID func(prefix string) string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
		newID: idgen.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
