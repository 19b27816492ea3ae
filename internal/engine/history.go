package engine

// DefaultHistoryCapacity - ёмкость rolling-буфера цен по умолчанию
const DefaultHistoryCapacity = 50

// RollingHistory - циклический буфер фиксированной ёмкости для последних
// N ценовых сэмплов одного символа.
//
// Перезапись по двум индексам: массив фиксированного размера + курсор
// записи + счётчик валидных элементов. Курсор двигается по модулю C после
// каждой вставки. Пока count < C, логический порядок - индексы 0..count-1.
// Когда буфер полон, старейший элемент всегда лежит на позиции курсора
// (следующий слот под перезапись), поэтому чтение полного буфера начинается
// с курсора и обходит C слотов по модулю C. Отдельный указатель на
// старейший элемент не хранится - он выводится из курсора.
//
// НЕ потокобезопасен: вызывающая сторона обязана обеспечить
// взаимоисключение (см. marketdata.Service).
type RollingHistory struct {
	buf   []float64
	write int // курсор следующей записи
	count int // количество валидных элементов, ограничено cap(buf)
}

// NewRollingHistory создаёт буфер заданной ёмкости.
// Ёмкость >= 1 - предусловие; значения меньше поднимаются до 1.
func NewRollingHistory(capacity int) *RollingHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &RollingHistory{
		buf: make([]float64, capacity),
	}
}

// Add вставляет одно значение за O(1).
// Если буфер полон, перезаписывается старейший элемент.
func (h *RollingHistory) Add(price float64) {
	h.buf[h.write] = price
	h.write = (h.write + 1) % len(h.buf)

	if h.count < len(h.buf) {
		h.count++
	}
}

// ReadAll возвращает новый срез со всеми хранимыми значениями
// в хронологическом порядке (от старых к новым).
func (h *RollingHistory) ReadAll() []float64 {
	result := make([]float64, 0, h.count)

	if h.count < len(h.buf) {
		// Буфер ещё не полон: элементы лежат с начала массива
		result = append(result, h.buf[:h.count]...)
		return result
	}

	// Буфер полон: старейший элемент на позиции курсора записи
	for i := 0; i < len(h.buf); i++ {
		idx := (h.write + i) % len(h.buf)
		result = append(result, h.buf[idx])
	}
	return result
}

// IsFull возвращает true, если буфер заполнен до ёмкости
func (h *RollingHistory) IsFull() bool {
	return h.count == len(h.buf)
}

// Len возвращает текущее количество элементов
func (h *RollingHistory) Len() int {
	return h.count
}

// Cap возвращает ёмкость буфера
func (h *RollingHistory) Cap() int {
	return len(h.buf)
}
