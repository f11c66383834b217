package sync

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/iudanet/topokeeper/internal/client/store"
	"github.com/iudanet/topokeeper/internal/models"
)

// Callbacks уведомления об изменениях зеркала.
// Вызываются синхронно после слияния, не более одного раза на объект за слияние.
type Callbacks struct {
	OnPropertyChanged func(f *models.Feature)
	OnGeometryChanged func(f *models.Feature)
	OnNewFeature      func(f *models.Feature)
	OnDeletedFeature  func(id string, class models.Class)
	OnSyncCompleted   func()
}

// Result содержит итоги одного слияния
type Result struct {
	Created         int // новые объекты
	PropertyChanges int // объекты с новыми свойствами
	GeometryChanges int // объекты с новой геометрией
	Deleted         int // объекты, исчезнувшие из индекса
	Skipped         int // объекты дельты, которые невозможно применить
	Orphaned        int // id нового индекса без объекта, исключены из индекса
}

type eventKind int

const (
	eventNew eventKind = iota
	eventProperties
	eventGeometry
	eventDeleted
)

type event struct {
	feature *models.Feature
	id      string
	class   models.Class
	kind    eventKind
}

// events собирает события слияния без повторов по (вид, класс, id)
type events struct {
	seen map[eventKey]int
	list []event
}

type eventKey struct {
	id    string
	class models.Class
	kind  eventKind
}

func (ev *events) add(e event) {
	if ev.seen == nil {
		ev.seen = make(map[eventKey]int)
	}
	k := eventKey{id: e.id, class: e.class, kind: e.kind}
	if i, ok := ev.seen[k]; ok {
		// повтор в той же дельте: сохраняем только итоговое состояние
		ev.list[i].feature = e.feature
		return
	}
	ev.seen[k] = len(ev.list)
	ev.list = append(ev.list, e)
}

// Reconcile сливает дельту в хранилище за одну транзакцию и вызывает callbacks.
//  1. Если дельта содержит индекс, он заменяет локальный целиком
//  2. Каждый объект дельты сливается с закэшированным объектом того же id и класса
//  3. Пары (класс, id), пропавшие из нового индекса, удаляются из коллекции
//  4. Id нового индекса, для которых нет объекта, исключаются из индекса
func (e *Engine) Reconcile(delta *models.Delta) (*Result, error) {
	result := &Result{}
	var ev events

	err := e.store.Update(func(tx *store.Tx) error {
		replaced := delta.IDs != nil
		var oldIndex map[models.Class][]string
		if replaced {
			oldIndex = tx.Index()
			tx.ReplaceIndex(delta.IDs)
		}

		for _, incoming := range delta.Features {
			e.mergeFeature(tx, incoming, result, &ev)
		}

		if replaced {
			newIndex := tx.Index()
			for class, ids := range oldIndex {
				for _, id := range ids {
					if slices.Contains(newIndex[class], id) {
						continue
					}
					if _, ok := tx.Remove(id, class); ok {
						result.Deleted++
						ev.add(event{kind: eventDeleted, id: id, class: class})
					}
				}
			}

			for class, ids := range tx.DropOrphans() {
				e.logger.Warn("Indexed ids without features dropped", "class", class, "ids", ids)
				result.Orphaned += len(ids)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply delta: %w", err)
	}

	e.logger.Debug("Delta reconciled",
		"timestamp", delta.Timestamp,
		"created", result.Created,
		"properties", result.PropertyChanges,
		"geometry", result.GeometryChanges,
		"deleted", result.Deleted,
		"skipped", result.Skipped,
		"orphaned", result.Orphaned)

	if err := e.fire(ev.list); err != nil {
		return result, err
	}
	return result, nil
}

func (e *Engine) mergeFeature(tx *store.Tx, incoming *models.Feature, result *Result, ev *events) {
	cached, ok := tx.Lookup(incoming.ID, incoming.Class)
	if !ok {
		if incoming.Class == "" || incoming.ID == "" {
			// без класса объект нельзя положить в индекс
			e.logger.Warn("Skipping delta feature without id or class", "id", incoming.ID)
			result.Skipped++
			return
		}
		created := incoming.Clone()
		if line, ok := created.Geometry.(models.LineString); ok {
			line.Incremental = false
			created.Geometry = line
		}
		deriveFields(created)
		tx.Put(created)
		result.Created++
		ev.add(event{kind: eventNew, id: created.ID, class: created.Class, feature: created.Clone()})
		return
	}

	merged := cached.Clone()
	propsChanged, geomChanged := false, false

	if incoming.Properties != nil {
		merged.Properties = incoming.Properties.Clone()
		deriveFields(merged)
		propsChanged = !reflect.DeepEqual(cached.Properties, merged.Properties)
	}
	if incoming.Geometry != nil {
		merged.Geometry, geomChanged = mergeGeometry(cached.Geometry, incoming.Geometry)
	}
	if !propsChanged && !geomChanged {
		return
	}

	tx.Put(merged)
	if propsChanged {
		result.PropertyChanges++
		ev.add(event{kind: eventProperties, id: merged.ID, class: merged.Class, feature: merged.Clone()})
	}
	if geomChanged {
		result.GeometryChanges++
		ev.add(event{kind: eventGeometry, id: merged.ID, class: merged.Class, feature: merged.Clone()})
	}
}

// deriveFields пересчитывает производные поля отображения
func deriveFields(f *models.Feature) {
	if f.Class != models.ClassAssignment || f.Properties == nil {
		return
	}
	letter, number := f.Properties.Letter(), f.Properties.Number()
	if letter == "" && number == "" {
		return
	}
	f.Properties[models.PropTitle] = models.AssignmentTitle(letter, number)
}

// mergeGeometry заменяет геометрию целиком, либо для incremental линии дописывает
// только точки с timestamp строго больше последнего известного.
// Точки с равным или меньшим timestamp, а также без timestamp, отбрасываются.
func mergeGeometry(cached, incoming models.Geometry) (models.Geometry, bool) {
	inLine, incremental := incoming.(models.LineString)
	incremental = incremental && inLine.Incremental
	cachedLine, cachedIsLine := cached.(models.LineString)

	if !incremental || !cachedIsLine || len(cachedLine.Coords) == 0 {
		next := incoming.Clone()
		if line, ok := next.(models.LineString); ok {
			line.Incremental = false
			next = line
		}
		return next, !reflect.DeepEqual(cached, next)
	}

	merged, appended := cachedLine.AppendNewer(inLine.Coords)
	return merged, appended > 0
}

// fire вызывает callbacks; паника в callback превращается в ErrCallback
func (e *Engine) fire(list []event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCallback, r)
		}
	}()

	cb := e.callbacks
	for _, ev := range list {
		switch ev.kind {
		case eventNew:
			if cb.OnNewFeature != nil {
				cb.OnNewFeature(ev.feature)
			}
		case eventProperties:
			if cb.OnPropertyChanged != nil {
				cb.OnPropertyChanged(ev.feature)
			}
		case eventGeometry:
			if cb.OnGeometryChanged != nil {
				cb.OnGeometryChanged(ev.feature)
			}
		case eventDeleted:
			if cb.OnDeletedFeature != nil {
				cb.OnDeletedFeature(ev.id, ev.class)
			}
		}
	}
	if cb.OnSyncCompleted != nil {
		cb.OnSyncCompleted()
	}
	return nil
}
