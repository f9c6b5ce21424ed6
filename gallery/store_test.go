package gallery

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Brawl345/picedit/model"
)

// memStore is an in-memory model.Store. Every repository call fails the test
// while a gateway call is pending.
type memStore struct {
	t       *testing.T
	mu      sync.Mutex
	pending atomic.Bool
	held    atomic.Bool
	entries atomic.Int32

	galleries map[string]*model.Gallery
	messages  []model.Message
	setting   *model.Setting
	styles    map[string]*model.Style
	seq       int
}

func newMemStore(t *testing.T) *memStore {
	return &memStore{
		t:         t,
		galleries: map[string]*model.Gallery{},
		styles:    map[string]*model.Style{},
	}
}

func (s *memStore) Exclusive(fn func(repos *model.Repositories) error) error {
	s.check("Exclusive")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held.Store(true)
	defer s.held.Store(false)
	s.entries.Add(1)

	return fn(&model.Repositories{
		Galleries: memGalleries{s},
		Messages:  memMessages{s},
		Settings:  memSettings{s},
		Styles:    memStyles{s},
	})
}

func (s *memStore) check(op string) {
	if s.pending.Load() {
		s.t.Errorf("store.%s called while the gateway call is pending", op)
	}
}

func (s *memStore) nextID() string {
	s.seq++
	return fmt.Sprintf("id%d", s.seq)
}

func (s *memStore) withKey(key string) *memStore {
	s.setting = &model.Setting{ID: "s", APIEndpoint: "https://vendor.test/v1", APIKey: key, Model: "gpt-4o"}
	return s
}

func (s *memStore) messagesOf(galleryID string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Message
	for _, m := range s.messages {
		if m.GalleryID == galleryID {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) gallery(id string) *model.Gallery {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.galleries[id]
	if !ok {
		return nil
	}
	cp := *g
	return &cp
}

type memGalleries struct{ s *memStore }

func (r memGalleries) Create(g *model.Gallery) error {
	r.s.check("Galleries.Create")
	g.ID = r.s.nextID()
	g.CreatedAt = time.Now()
	cp := *g
	r.s.galleries[g.ID] = &cp
	return nil
}

func (r memGalleries) Update(g *model.Gallery) error {
	r.s.check("Galleries.Update")
	if _, ok := r.s.galleries[g.ID]; !ok {
		return model.ErrNotFound
	}
	cp := *g
	r.s.galleries[g.ID] = &cp
	return nil
}

func (r memGalleries) Get(id string) (*model.Gallery, error) {
	r.s.check("Galleries.Get")
	g, ok := r.s.galleries[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r memGalleries) GetAll() ([]model.Gallery, error) {
	r.s.check("Galleries.GetAll")
	var out []model.Gallery
	for _, g := range r.s.galleries {
		out = append(out, *g)
	}
	return out, nil
}

func (r memGalleries) BatchDelete(ids []string) error {
	r.s.check("Galleries.BatchDelete")
	for _, id := range ids {
		delete(r.s.galleries, id)
	}
	return nil
}

func (r memGalleries) TokenUsage(from, to time.Time) (int64, error) {
	r.s.check("Galleries.TokenUsage")
	var total int64
	for _, g := range r.s.galleries {
		if !g.CreatedAt.Before(from) && g.CreatedAt.Before(to) {
			total += g.TotalTokens()
		}
	}
	return total, nil
}

type memMessages struct{ s *memStore }

func (r memMessages) Create(m *model.Message) error {
	r.s.check("Messages.Create")
	m.ID = r.s.nextID()
	m.CreatedAt = time.Now()
	r.s.messages = append(r.s.messages, *m)
	return nil
}

func (r memMessages) GetByGalleryID(galleryID string) ([]model.Message, error) {
	r.s.check("Messages.GetByGalleryID")
	var out []model.Message
	for _, m := range r.s.messages {
		if m.GalleryID == galleryID {
			out = append(out, m)
		}
	}
	return out, nil
}

type memSettings struct{ s *memStore }

func (r memSettings) Get() (*model.Setting, error) {
	r.s.check("Settings.Get")
	if r.s.setting == nil {
		return nil, model.ErrNotFound
	}
	cp := *r.s.setting
	return &cp, nil
}

func (r memSettings) GetOrCreateDefault() (*model.Setting, error) {
	r.s.check("Settings.GetOrCreateDefault")
	if r.s.setting == nil {
		r.s.setting = &model.Setting{ID: r.s.nextID(), APIEndpoint: model.DefaultAPIEndpoint, Model: model.DefaultModel}
	}
	cp := *r.s.setting
	return &cp, nil
}

func (r memSettings) Save(setting *model.Setting) error {
	r.s.check("Settings.Save")
	cp := *setting
	r.s.setting = &cp
	return nil
}

type memStyles struct{ s *memStore }

func (r memStyles) Create(style *model.Style) error {
	r.s.check("Styles.Create")
	if _, ok := r.s.styles[style.Name]; ok {
		return model.ErrAlreadyExists
	}
	style.ID = r.s.nextID()
	cp := *style
	r.s.styles[style.Name] = &cp
	return nil
}

func (r memStyles) GetAll() ([]model.Style, error) {
	r.s.check("Styles.GetAll")
	var out []model.Style
	for _, st := range r.s.styles {
		out = append(out, *st)
	}
	return out, nil
}

func (r memStyles) GetByName(name string) (*model.Style, error) {
	r.s.check("Styles.GetByName")
	st, ok := r.s.styles[name]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (r memStyles) Delete(id string) error {
	r.s.check("Styles.Delete")
	for name, st := range r.s.styles {
		if st.ID == id {
			delete(r.s.styles, name)
			return nil
		}
	}
	return model.ErrNotFound
}
