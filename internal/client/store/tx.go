package store

import (
	"slices"

	"github.com/iudanet/topokeeper/internal/models"
)

// Tx рабочая копия хранилища внутри Update.
// Объекты не изменяются на месте: Put заменяет указатель целиком.
type Tx struct {
	ids      map[models.Class][]string
	features []*models.Feature
}

// Index возвращает текущий индекс транзакции (только для чтения)
func (tx *Tx) Index() map[models.Class][]string {
	return tx.ids
}

// ReplaceIndex заменяет индекс целиком
func (tx *Tx) ReplaceIndex(ids map[models.Class][]string) {
	tx.ids = copyIndex(ids)
}

// DropOrphans удаляет из индекса id, для которых нет объекта в коллекции,
// и возвращает удаленные пары класс -> id
func (tx *Tx) DropOrphans() map[models.Class][]string {
	var dropped map[models.Class][]string
	for class, ids := range tx.ids {
		kept := ids[:0:0]
		for _, id := range ids {
			if tx.indexOf(id, class) >= 0 {
				kept = append(kept, id)
				continue
			}
			if dropped == nil {
				dropped = make(map[models.Class][]string)
			}
			dropped[class] = append(dropped[class], id)
		}
		if len(kept) != len(ids) {
			tx.ids[class] = kept
		}
	}
	return dropped
}

// Lookup ищет объект с тем же id и классом.
// Пустой class означает любой класс.
func (tx *Tx) Lookup(id string, class models.Class) (*models.Feature, bool) {
	i := tx.indexOf(id, class)
	if i < 0 {
		return nil, false
	}
	return tx.features[i], true
}

// Put заменяет объект с тем же id и классом или добавляет новый в конец коллекции.
// Id добавляется в индекс, если его там еще нет.
func (tx *Tx) Put(f *models.Feature) (created bool) {
	if i := tx.indexOf(f.ID, f.Class); i >= 0 {
		tx.features[i] = f
	} else {
		tx.features = append(tx.features, f)
		created = true
	}
	if !slices.Contains(tx.ids[f.Class], f.ID) {
		tx.ids[f.Class] = append(tx.ids[f.Class], f.ID)
	}
	return created
}

// Remove удаляет объект из коллекции и индекса
func (tx *Tx) Remove(id string, class models.Class) (*models.Feature, bool) {
	i := tx.indexOf(id, class)
	if i < 0 {
		return nil, false
	}
	removed := tx.features[i]
	tx.features = slices.Delete(tx.features, i, i+1)

	if list, ok := tx.ids[class]; ok {
		tx.ids[class] = slices.DeleteFunc(list, func(s string) bool { return s == id })
	}
	return removed, true
}

// Features возвращает коллекцию транзакции (только для чтения)
func (tx *Tx) Features() []*models.Feature {
	return tx.features
}

func (tx *Tx) indexOf(id string, class models.Class) int {
	return slices.IndexFunc(tx.features, func(f *models.Feature) bool {
		return f.ID == id && (class == "" || f.Class == class)
	})
}
