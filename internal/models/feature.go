package models

import "strings"

// Class класс объекта карты
type Class string

// Known feature classes. Other classes pass through the mirror opaquely.
const (
	ClassFolder            Class = "Folder"
	ClassMarker            Class = "Marker"
	ClassShape             Class = "Shape"
	ClassAssignment        Class = "Assignment"
	ClassOperationalPeriod Class = "OperationalPeriod"
	ClassAppTrack          Class = "AppTrack"
)

// IDLength длина серверного идентификатора объекта (UUID в текстовой форме)
const IDLength = 36

// Feature представляет один объект карты в локальном зеркале.
type Feature struct {
	Properties Properties // nil = блок properties отсутствует
	Geometry   Geometry   // nil = блок geometry отсутствует
	ID         string     // серверный идентификатор
	Class      Class
}

// Title возвращает заголовок объекта
func (f *Feature) Title() string {
	return f.Properties.Title()
}

// Clone создает глубокую копию объекта
func (f *Feature) Clone() *Feature {
	if f == nil {
		return nil
	}
	clone := &Feature{
		ID:         f.ID,
		Class:      f.Class,
		Properties: f.Properties.Clone(),
	}
	if f.Geometry != nil {
		clone.Geometry = f.Geometry.Clone()
	}
	return clone
}

// Delta представляет ответ сервера с изменениями начиная с заданного timestamp.
type Delta struct {
	// IDs полная замена индекса class -> ids; nil если сервер индекс не прислал
	IDs       map[Class][]string
	Features  []*Feature
	Timestamp int64 // серверное время в миллисекундах
}

// AssignmentTitle формирует отображаемый заголовок задания из буквы и номера
func AssignmentTitle(letter, number string) string {
	return strings.TrimSpace(letter + " " + number)
}
