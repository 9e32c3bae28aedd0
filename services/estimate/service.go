package estimate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"junkbutler/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EstimateService is the operation set exposed to the HTTP layer. Every call
// after Start addresses a dialogue by id and returns its updated view.
type EstimateService interface {
	Start(ctx context.Context) (*View, error)
	Get(ctx context.Context, id string) (*View, error)
	Discard(ctx context.Context, id string) error

	SelectQuantity(ctx context.Context, id, value string) (*View, error)
	ToggleItem(ctx context.Context, id, value string) (*View, error)
	ContinueItems(ctx context.Context, id string) (*View, error)
	AddPhotos(ctx context.Context, id string, refs []string) (*View, error)
	UploadPhotos(ctx context.Context, id string, upload func(context.Context) ([]string, error)) (*View, error)
	SelectResale(ctx context.Context, id, value string) (*View, error)

	SendMessage(ctx context.Context, id, text string, obs Observer) (*View, error)
	Retry(ctx context.Context, id string, obs Observer) (*View, error)
	DismissBanner(ctx context.Context, id string) (*View, error)
	Reset(ctx context.Context, id string) (*View, error)

	Result(ctx context.Context, id string) (*models.CompletedEstimate, error)
}

// DefaultEstimateService keeps dialogues in a Store and serializes the
// requests of each dialogue so concurrent calls cannot interleave.
type DefaultEstimateService struct {
	Store        Store
	Guided       *GuidedEngine
	Conversation *Conversation
	Logger       *zap.Logger
	Now          func() time.Time

	locks keyedMutex
}

func NewEstimateService(store Store, guided *GuidedEngine, convo *Conversation, logger *zap.Logger) *DefaultEstimateService {
	return &DefaultEstimateService{
		Store:        store,
		Guided:       guided,
		Conversation: convo,
		Logger:       logger,
		Now:          time.Now,
	}
}

func (s *DefaultEstimateService) Start(ctx context.Context) (*View, error) {
	d := NewDialogue(uuid.NewString(), s.Now().UTC())
	unlock := s.locks.Lock(d.ID)
	defer unlock()

	if err := s.Guided.Start(ctx, d); err != nil {
		return nil, err
	}
	if err := s.Store.Save(context.WithoutCancel(ctx), d); err != nil {
		return nil, err
	}
	s.Logger.Info("estimate: dialogue started", zap.String("session", d.ID))
	v := d.View()
	return &v, nil
}

func (s *DefaultEstimateService) Get(ctx context.Context, id string) (*View, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	v := d.View()
	return &v, nil
}

func (s *DefaultEstimateService) Discard(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	if _, err := s.Store.Get(ctx, id); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

func (s *DefaultEstimateService) SelectQuantity(ctx context.Context, id, value string) (*View, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d *Dialogue) error {
		return s.Guided.SelectQuantity(ctx, d, value)
	})
}

func (s *DefaultEstimateService) ToggleItem(ctx context.Context, id, value string) (*View, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d *Dialogue) error {
		return s.Guided.ToggleItem(ctx, d, value)
	})
}

func (s *DefaultEstimateService) ContinueItems(ctx context.Context, id string) (*View, error) {
	return s.mutate(ctx, id, s.Guided.ContinueItems)
}

func (s *DefaultEstimateService) AddPhotos(ctx context.Context, id string, refs []string) (*View, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d *Dialogue) error {
		return s.Guided.AddPhotos(ctx, d, refs)
	})
}

// UploadPhotos runs upload under the dialogue lock once the photo step is
// confirmed, so a request that lost a race stores no files.
func (s *DefaultEstimateService) UploadPhotos(ctx context.Context, id string, upload func(context.Context) ([]string, error)) (*View, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d *Dialogue) error {
		if !d.guidedAt(StepPhoto) {
			return ErrInvalidStep
		}
		refs, err := upload(ctx)
		if err != nil {
			return err
		}
		return s.Guided.AddPhotos(ctx, d, refs)
	})
}

func (s *DefaultEstimateService) SelectResale(ctx context.Context, id, value string) (*View, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d *Dialogue) error {
		_, err := s.Guided.SelectResale(ctx, d, value)
		return err
	})
}

func (s *DefaultEstimateService) SendMessage(ctx context.Context, id, text string, obs Observer) (*View, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d *Dialogue) error {
		return s.Conversation.Send(ctx, d, text, obs)
	})
}

func (s *DefaultEstimateService) Retry(ctx context.Context, id string, obs Observer) (*View, error) {
	return s.mutate(ctx, id, func(ctx context.Context, d *Dialogue) error {
		return s.Conversation.Retry(ctx, d, obs)
	})
}

func (s *DefaultEstimateService) DismissBanner(ctx context.Context, id string) (*View, error) {
	return s.mutate(ctx, id, func(_ context.Context, d *Dialogue) error {
		s.Conversation.DismissBanner(d)
		return nil
	})
}

func (s *DefaultEstimateService) Reset(ctx context.Context, id string) (*View, error) {
	return s.mutate(ctx, id, func(_ context.Context, d *Dialogue) error {
		return s.Conversation.Reset(d, nil)
	})
}

// Result returns the completed estimate, which outlives its dialogue.
func (s *DefaultEstimateService) Result(ctx context.Context, id string) (*models.CompletedEstimate, error) {
	est, err := s.Store.GetResult(ctx, id)
	if err == nil {
		return est, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Result == nil {
		return nil, ErrNotFound
	}
	return d.Result, nil
}

// mutate loads the dialogue under its lock, applies fn and saves whatever fn
// left behind, even when fn failed part way. The save must outlive a client
// that disconnected mid-turn.
func (s *DefaultEstimateService) mutate(ctx context.Context, id string, fn func(context.Context, *Dialogue) error) (*View, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	wasCompleted := d.Completed

	fnErr := fn(ctx, d)
	d.UpdatedAt = s.Now().UTC()

	saveCtx := context.WithoutCancel(ctx)
	if err := s.Store.Save(saveCtx, d); err != nil {
		return nil, fmt.Errorf("estimate: save dialogue %s: %w", id, err)
	}
	if !wasCompleted && d.Result != nil {
		if err := s.Store.SaveResult(saveCtx, *d.Result); err != nil {
			s.Logger.Error("estimate: failed to store result", zap.String("session", id), zap.Error(err))
		}
	}
	if fnErr != nil {
		return nil, fnErr
	}
	v := d.View()
	return &v, nil
}

// keyedMutex hands out one mutex per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &refMutex{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
