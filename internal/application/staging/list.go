// Package staging mantiene la lista de entradas validadas pendientes de envío.
// Vive solo en memoria de la sesión: las entradas no enviadas no se persisten.
package staging

import (
	"sync"

	"github.com/google/uuid"
)

// Item entrada preparada con su id asignado al momento de agregarla.
type Item[T any] struct {
	ID    string `json:"id"`
	Entry T      `json:"entry"`
}

// List colección ordenada por inserción. El orden es solo de presentación.
type List[T any] struct {
	mu    sync.RWMutex
	items []Item[T]
	newID func() string
}

// New crea una lista vacía con ids UUID v4.
func New[T any]() *List[T] {
	return &List[T]{newID: func() string { return uuid.New().String() }}
}

// Add asigna un id nuevo y agrega la entrada al final. Siempre tiene éxito.
func (l *List[T]) Add(entry T) Item[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	it := Item[T]{ID: l.newID(), Entry: entry}
	l.items = append(l.items, it)
	return it
}

// Remove quita la entrada con ese id. Si no existe no hace nada y devuelve false.
func (l *List[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear vacía la lista.
func (l *List[T]) Clear() {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()
}

// Count tamaño actual; con 0 el envío queda deshabilitado.
func (l *List[T]) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Items copia de las entradas en orden de inserción.
func (l *List[T]) Items() []Item[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Item[T], len(l.items))
	copy(out, l.items)
	return out
}

// Entries solo las entradas, sin ids, en orden de inserción.
func (l *List[T]) Entries() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	for i, it := range l.items {
		out[i] = it.Entry
	}
	return out
}
