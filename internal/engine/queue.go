package engine

import "copytrade/internal/models"

// DispatchQueue - строго FIFO очередь ожидающих ордеров
//
// Единственный ключ упорядочивания - порядок поступления (в отличие от
// лидерборда, где ключом служит ROI). Никаких приоритетов и переупорядочивания.
//
// Dequeue амортизированно O(1): вместо сдвига всего среза двигается
// головной индекс, хвост переиспользуется. Когда обработанная часть
// превышает половину ёмкости, срез уплотняется.
//
// НЕ потокобезопасна: защищается мьютексом Engine.
type DispatchQueue struct {
	orders []*models.Order
	head   int
}

// NewDispatchQueue создаёт пустую очередь
func NewDispatchQueue() *DispatchQueue {
	return &DispatchQueue{}
}

// Enqueue добавляет ордер в конец очереди
func (q *DispatchQueue) Enqueue(order *models.Order) {
	q.orders = append(q.orders, order)
}

// Dequeue удаляет и возвращает самый ранний ордер.
// Возвращает nil, если очередь пуста.
func (q *DispatchQueue) Dequeue() *models.Order {
	if q.IsEmpty() {
		return nil
	}

	order := q.orders[q.head]
	q.orders[q.head] = nil // освобождаем ссылку для GC
	q.head++

	// Уплотнение: не даём обработанной части расти бесконечно
	if q.head > len(q.orders)/2 && q.head > 32 {
		remaining := copy(q.orders, q.orders[q.head:])
		for i := remaining; i < len(q.orders); i++ {
			q.orders[i] = nil
		}
		q.orders = q.orders[:remaining]
		q.head = 0
	}

	return order
}

// Peek возвращает самый ранний ордер без удаления.
// Возвращает nil, если очередь пуста.
func (q *DispatchQueue) Peek() *models.Order {
	if q.IsEmpty() {
		return nil
	}
	return q.orders[q.head]
}

// IsEmpty проверяет, пуста ли очередь
func (q *DispatchQueue) IsEmpty() bool {
	return q.head >= len(q.orders)
}

// Size возвращает количество ордеров в очереди
func (q *DispatchQueue) Size() int {
	return len(q.orders) - q.head
}

// All возвращает снимок всех ордеров от старых к новым
func (q *DispatchQueue) All() []*models.Order {
	snapshot := make([]*models.Order, q.Size())
	copy(snapshot, q.orders[q.head:])
	return snapshot
}

// Clear удаляет все ордера из очереди
func (q *DispatchQueue) Clear() {
	q.orders = nil
	q.head = 0
}
