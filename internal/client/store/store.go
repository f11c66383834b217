// Package store holds the in-memory mirror of the remote map: a class index
// and an ordered collection of full feature records.
package store

import (
	"fmt"
	"slices"
	"sync"

	"github.com/iudanet/topokeeper/internal/models"
)

// Store представляет локальное зеркало объектов карты.
// Читатели получают копии, писатели работают через Update, поэтому
// незавершенное слияние дельты никогда не видно снаружи.
type Store struct {
	ids      map[models.Class][]string
	features []*models.Feature
	mu       sync.RWMutex
}

// New создает пустое хранилище
func New() *Store {
	return &Store{ids: make(map[models.Class][]string)}
}

// Get возвращает копию объекта по id
func (s *Store) Get(id string) (*models.Feature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.features {
		if f.ID == id {
			return f.Clone(), true
		}
	}
	return nil, false
}

// Find возвращает копии всех объектов, удовлетворяющих предикату, в порядке вставки
func (s *Store) Find(pred func(*models.Feature) bool) []*models.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Feature
	for _, f := range s.features {
		if pred(f) {
			out = append(out, f.Clone())
		}
	}
	return out
}

// All возвращает копии всех объектов
func (s *Store) All() []*models.Feature {
	return s.Find(func(*models.Feature) bool { return true })
}

// Titles возвращает заголовки всех объектов
func (s *Store) Titles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	titles := make([]string, 0, len(s.features))
	for _, f := range s.features {
		titles = append(titles, f.Title())
	}
	return titles
}

// IDs возвращает копию индекса class -> ids
func (s *Store) IDs() map[models.Class][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyIndex(s.ids)
}

// Len возвращает количество объектов в коллекции
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.features)
}

// Snapshot точка во времени: индекс и все объекты
type Snapshot struct {
	IDs      map[models.Class][]string `json:"ids"`
	Features []*models.Feature         `json:"features"`
}

// Snapshot возвращает согласованную копию всего хранилища
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		IDs:      copyIndex(s.ids),
		Features: make([]*models.Feature, len(s.features)),
	}
	for i, f := range s.features {
		snap.Features[i] = f.Clone()
	}
	return snap
}

// Update выполняет fn над рабочей копией хранилища под эксклюзивной блокировкой.
// Если fn возвращает ошибку, изменения отбрасываются целиком.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		ids:      copyIndex(s.ids),
		features: slices.Clone(s.features),
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.ids = tx.ids
	s.features = tx.features
	return nil
}

// CheckConsistency проверяет, что индекс и коллекция согласованы:
// каждая пара (class, id) индекса есть в коллекции и наоборот.
func (s *Store) CheckConsistency() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	indexed := make(map[key]bool)
	for class, ids := range s.ids {
		for _, id := range ids {
			indexed[key{class: class, id: id}] = true
		}
	}
	stored := make(map[key]bool, len(s.features))
	for _, f := range s.features {
		k := key{class: f.Class, id: f.ID}
		if !indexed[k] {
			return fmt.Errorf("feature %s (%s) is not in the index", f.ID, f.Class)
		}
		stored[k] = true
	}
	for k := range indexed {
		if !stored[k] {
			return fmt.Errorf("indexed id %s (%s) has no feature", k.id, k.class)
		}
	}
	return nil
}

type key struct {
	class models.Class
	id    string
}

func copyIndex(ids map[models.Class][]string) map[models.Class][]string {
	out := make(map[models.Class][]string, len(ids))
	for class, list := range ids {
		out[class] = slices.Clone(list)
	}
	return out
}
