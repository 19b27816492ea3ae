package engine

import (
	"sort"

	"copytrade/internal/models"
)

// Leaderboard - max-heap трейдеров по ROI
//
// Трейдер с максимальным ROI всегда в корне. Структура не поддерживает
// изменение ключа на месте: при обновлении ROI уже отслеживаемого
// трейдера Engine перестраивает лидерборд целиком (rebuild-on-update,
// см. Engine.RegisterTrader). Это O(n log n), но сохраняет инвариант
// "лидерборд выводим из реестра" на каждом чтении.
//
// Порядок трейдеров с равным ROI не специфицирован.
//
// НЕ потокобезопасен: защищается мьютексом Engine.
type Leaderboard struct {
	heap []*models.Trader
}

// NewLeaderboard создаёт пустой лидерборд
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{}
}

func parentIndex(i int) int     { return (i - 1) / 2 }
func leftChildIndex(i int) int  { return 2*i + 1 }
func rightChildIndex(i int) int { return 2*i + 2 }

func (l *Leaderboard) swap(i, j int) {
	l.heap[i], l.heap[j] = l.heap[j], l.heap[i]
}

// siftUp поднимает элемент вверх до восстановления свойства max-heap.
// Вызывается после вставки нового элемента.
func (l *Leaderboard) siftUp(index int) {
	for index > 0 {
		parent := parentIndex(index)
		if l.heap[index].ROI <= l.heap[parent].ROI {
			break
		}
		l.swap(index, parent)
		index = parent
	}
}

// siftDown опускает элемент вниз до восстановления свойства max-heap.
// Вызывается после извлечения корня.
func (l *Leaderboard) siftDown(index int) {
	for {
		largest := index
		left := leftChildIndex(index)
		right := rightChildIndex(index)

		if left < len(l.heap) && l.heap[left].ROI > l.heap[largest].ROI {
			largest = left
		}
		if right < len(l.heap) && l.heap[right].ROI > l.heap[largest].ROI {
			largest = right
		}

		if largest == index {
			return
		}
		l.swap(index, largest)
		index = largest
	}
}

// Insert добавляет трейдера за O(log n)
func (l *Leaderboard) Insert(trader *models.Trader) {
	l.heap = append(l.heap, trader)
	l.siftUp(len(l.heap) - 1)
}

// ExtractMax удаляет и возвращает трейдера с максимальным ROI за O(log n).
// Возвращает nil, если лидерборд пуст.
func (l *Leaderboard) ExtractMax() *models.Trader {
	if l.IsEmpty() {
		return nil
	}

	if len(l.heap) == 1 {
		max := l.heap[0]
		l.heap = l.heap[:0]
		return max
	}

	max := l.heap[0]
	last := len(l.heap) - 1
	l.heap[0] = l.heap[last]
	l.heap[last] = nil // освобождаем ссылку для GC
	l.heap = l.heap[:last]
	l.siftDown(0)

	return max
}

// PeekMax возвращает трейдера с максимальным ROI без удаления за O(1).
// Возвращает nil, если лидерборд пуст.
func (l *Leaderboard) PeekMax() *models.Trader {
	if l.IsEmpty() {
		return nil
	}
	return l.heap[0]
}

// IsEmpty проверяет, пуст ли лидерборд
func (l *Leaderboard) IsEmpty() bool {
	return len(l.heap) == 0
}

// Size возвращает количество трейдеров
func (l *Leaderboard) Size() int {
	return len(l.heap)
}

// AllSorted возвращает снимок всех трейдеров, отсортированный по убыванию
// ROI, за O(n log n). Не мутирует heap.
func (l *Leaderboard) AllSorted() []*models.Trader {
	traders := make([]*models.Trader, len(l.heap))
	copy(traders, l.heap)

	sort.Slice(traders, func(i, j int) bool {
		return traders[i].ROI > traders[j].ROI
	})
	return traders
}
