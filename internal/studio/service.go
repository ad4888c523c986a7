// Package studio runs generation jobs against a per-session workspace
// holding the uploaded source image and its generated assets.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ecomlens/internal/metrics"
	"ecomlens/internal/models"
	"ecomlens/internal/users"
	"ecomlens/internal/websocket"

	"github.com/jaevor/go-nanoid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

var (
	ErrQuotaExceeded = errors.New("daily generation limit reached")
	ErrNoSourceImage = errors.New("no source image uploaded")
	ErrEmptyPrompt   = errors.New("prompt is empty")
	ErrAssetNotFound = errors.New("asset not found")
)

const DefaultWorkspaceTTL = 2 * time.Hour

// Event types published while a job runs.
const (
	EventBatchStarted  = "batch_started"
	EventBatchFinished = "batch_finished"
	EventStyleStarted  = "style_started"
	EventStyleFinished = "style_finished"
	EventStyleFailed   = "style_failed"
)

type Generator interface {
	Generate(ctx context.Context, sourceImage, instruction string) (string, error)
}

type Quota interface {
	Increment(ctx context.Context, userID string) (*models.User, error)
}

type Notifier interface {
	Notify(userID string, ev websocket.Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, websocket.Event) {}

type Options struct {
	Presets      []models.Preset
	WorkspaceTTL time.Duration
	Notifier     Notifier
	Logger       *slog.Logger
	Now          func() time.Time
}

// Result is what a generation call hands back: the new assets and the
// user record after the charge.
type Result struct {
	Assets []models.Asset `json:"assets"`
	User   *models.User   `json:"user"`
}

type workspace struct {
	mu     sync.Mutex
	source string
	assets []models.Asset
}

type Service struct {
	gen        Generator
	quota      Quota
	notifier   Notifier
	presets    []models.Preset
	workspaces *cache.Cache
	mu         sync.Mutex
	newID      func() string
	now        func() time.Time
	log        *slog.Logger
}

func NewService(gen Generator, quota Quota, opts Options) (*Service, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	s := &Service{
		gen:      gen,
		quota:    quota,
		notifier: opts.Notifier,
		presets:  opts.Presets,
		newID:    generateID,
		now:      opts.Now,
		log:      opts.Logger,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if len(s.presets) == 0 {
		s.presets = DefaultPresets
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	ttl := opts.WorkspaceTTL
	if ttl <= 0 {
		ttl = DefaultWorkspaceTTL
	}
	s.workspaces = cache.New(ttl, ttl/2)
	s.workspaces.OnEvicted(func(string, interface{}) {
		metrics.SetActiveWorkspaces(s.workspaces.ItemCount())
	})
	return s, nil
}

func (s *Service) Presets() []models.Preset {
	out := make([]models.Preset, len(s.presets))
	copy(out, s.presets)
	return out
}

// workspace returns the workspace for key, creating it when create is set.
// Every lookup refreshes the idle deadline.
func (s *Service) workspace(key string, create bool) *workspace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.workspaces.Get(key); ok {
		ws := v.(*workspace)
		s.workspaces.SetDefault(key, ws)
		return ws
	}
	if !create {
		return nil
	}
	ws := &workspace{}
	s.workspaces.SetDefault(key, ws)
	metrics.SetActiveWorkspaces(s.workspaces.ItemCount())
	return ws
}

// Upload replaces the source image for key and drops earlier results.
func (s *Service) Upload(key, image string) error {
	if strings.TrimSpace(image) == "" {
		return ErrNoSourceImage
	}
	ws := s.workspace(key, true)
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.source = image
	ws.assets = nil
	return nil
}

func (s *Service) HasSource(key string) bool {
	ws := s.workspace(key, false)
	if ws == nil {
		return false
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.source != ""
}

// Clear removes the source image and every asset.
func (s *Service) Clear(key string) {
	s.mu.Lock()
	s.workspaces.Delete(key)
	s.mu.Unlock()
}

// Assets lists generated assets, newest custom edits first.
func (s *Service) Assets(key string) []models.Asset {
	ws := s.workspace(key, false)
	if ws == nil {
		return []models.Asset{}
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	out := make([]models.Asset, len(ws.assets))
	copy(out, ws.assets)
	return out
}

func (s *Service) Asset(key, id string) (*models.Asset, error) {
	for _, a := range s.Assets(key) {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, ErrAssetNotFound
}

// admit checks the source and the quota gate, then charges one attempt.
func (s *Service) admit(ctx context.Context, key string, user *models.User) (*workspace, string, *models.User, error) {
	ws := s.workspace(key, false)
	if ws == nil {
		return nil, "", nil, ErrNoSourceImage
	}
	ws.mu.Lock()
	source := ws.source
	ws.mu.Unlock()
	if source == "" {
		return nil, "", nil, ErrNoSourceImage
	}

	if !users.IsAllowed(user) {
		metrics.ObserveQuotaRejection()
		s.log.Info("generation refused, limit reached",
			slog.String("user_id", user.ID),
			slog.Int("used", user.UsageCount),
			slog.Int("limit", user.UsageLimit),
		)
		return nil, "", nil, ErrQuotaExceeded
	}

	charged, err := s.quota.Increment(ctx, user.ID)
	if err != nil {
		return nil, "", nil, err
	}
	return ws, source, charged, nil
}

func (s *Service) generate(ctx context.Context, source, instruction, category string) (string, error) {
	start := time.Now()
	out, err := s.gen.Generate(ctx, source, instruction)
	metrics.ObserveGeneration(category, err, time.Since(start))
	return out, err
}

// GenerateBatch renders every preset for the workspace's source image,
// charging a single credit. Individual style failures are logged and
// skipped; successes are appended in preset order.
func (s *Service) GenerateBatch(ctx context.Context, key string, user *models.User) (*Result, error) {
	ws, source, charged, err := s.admit(ctx, key, user)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(user.ID, websocket.Event{Type: EventBatchStarted})

	results := make([]*models.Asset, len(s.presets))
	var g errgroup.Group
	g.SetLimit(len(s.presets))
	for i, preset := range s.presets {
		g.Go(func() error {
			s.notifier.Notify(user.ID, websocket.Event{Type: EventStyleStarted, Category: preset.ID})

			out, err := s.generate(ctx, source, preset.Prompt, preset.ID)
			if err != nil {
				s.log.Warn("style generation failed",
					slog.String("user_id", user.ID),
					slog.String("category", preset.ID),
					slog.Any("error", err),
				)
				s.notifier.Notify(user.ID, websocket.Event{Type: EventStyleFailed, Category: preset.ID, Error: err.Error()})
				return nil
			}

			asset := &models.Asset{
				ID:        s.newID(),
				DataURI:   out,
				Prompt:    preset.Label,
				Category:  preset.ID,
				CreatedAt: s.now().UTC(),
			}
			results[i] = asset
			s.notifier.Notify(user.ID, websocket.Event{Type: EventStyleFinished, Category: preset.ID, AssetID: asset.ID})
			return nil
		})
	}
	_ = g.Wait()

	created := make([]models.Asset, 0, len(results))
	for _, a := range results {
		if a != nil {
			created = append(created, *a)
		}
	}

	ws.mu.Lock()
	if ws.source == source {
		ws.assets = append(ws.assets, created...)
	}
	ws.mu.Unlock()

	s.notifier.Notify(user.ID, websocket.Event{Type: EventBatchFinished})
	s.log.Info("batch generated",
		slog.String("user_id", user.ID),
		slog.Int("succeeded", len(created)),
		slog.Int("requested", len(s.presets)),
	)
	return &Result{Assets: created, User: charged}, nil
}

// GenerateCustom renders one free-text edit. The credit stays charged when
// the upstream call fails.
func (s *Service) GenerateCustom(ctx context.Context, key string, user *models.User, prompt string) (*Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	ws, source, charged, err := s.admit(ctx, key, user)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(user.ID, websocket.Event{Type: EventStyleStarted, Category: models.CategoryCustom})
	out, err := s.generate(ctx, source, prompt, models.CategoryCustom)
	if err != nil {
		s.log.Warn("custom generation failed", slog.String("user_id", user.ID), slog.Any("error", err))
		s.notifier.Notify(user.ID, websocket.Event{Type: EventStyleFailed, Category: models.CategoryCustom, Error: err.Error()})
		return nil, fmt.Errorf("custom generation: %w", err)
	}

	asset := models.Asset{
		ID:        s.newID(),
		DataURI:   out,
		Prompt:    prompt,
		Category:  models.CategoryCustom,
		CreatedAt: s.now().UTC(),
	}

	ws.mu.Lock()
	if ws.source == source {
		ws.assets = append([]models.Asset{asset}, ws.assets...)
	}
	ws.mu.Unlock()

	s.notifier.Notify(user.ID, websocket.Event{Type: EventStyleFinished, Category: models.CategoryCustom, AssetID: asset.ID})
	return &Result{Assets: []models.Asset{asset}, User: charged}, nil
}
