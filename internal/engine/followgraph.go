package engine

// FollowGraph - отображение лидер → множество фолловеров
//
// Фолловеры хранятся в порядке добавления, уникальность внутри одного
// лидера обеспечивается вспомогательным set'ом. Повторный Add той же пары
// - no-op. Существование трейдеров проверяет Engine по реестру, граф
// работает только с идентификаторами.
//
// Операции удаления пока нет (stale-ссылки на фолловеров терпимы и
// молча пропускаются drain-циклом), но структура к ней готова.
//
// НЕ потокобезопасен: защищается мьютексом Engine.
type FollowGraph struct {
	followers map[string][]string
	seen      map[string]map[string]struct{}
}

// NewFollowGraph создаёт пустой граф
func NewFollowGraph() *FollowGraph {
	return &FollowGraph{
		followers: make(map[string][]string),
		seen:      make(map[string]map[string]struct{}),
	}
}

// Add идемпотентно добавляет ребро лидер → фолловер.
// Возвращает true, если ребро новое.
func (g *FollowGraph) Add(leaderID, followerID string) bool {
	set, ok := g.seen[leaderID]
	if !ok {
		set = make(map[string]struct{})
		g.seen[leaderID] = set
	}

	if _, exists := set[followerID]; exists {
		return false
	}

	set[followerID] = struct{}{}
	g.followers[leaderID] = append(g.followers[leaderID], followerID)
	return true
}

// FollowersOf возвращает фолловеров лидера в порядке добавления за O(1).
// Для неизвестного лидера возвращает пустой срез.
func (g *FollowGraph) FollowersOf(leaderID string) []string {
	return g.followers[leaderID]
}

// Leaders возвращает всех лидеров, у которых есть хотя бы один фолловер
func (g *FollowGraph) Leaders() []string {
	leaders := make([]string, 0, len(g.followers))
	for leaderID := range g.followers {
		leaders = append(leaders, leaderID)
	}
	return leaders
}

// Export возвращает копию графа (для снапшота в хранилище)
func (g *FollowGraph) Export() map[string][]string {
	out := make(map[string][]string, len(g.followers))
	for leaderID, ids := range g.followers {
		cp := make([]string, len(ids))
		copy(cp, ids)
		out[leaderID] = cp
	}
	return out
}
