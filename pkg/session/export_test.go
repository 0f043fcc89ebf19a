package session

// LockCount exposes the number of live lock entries to tests.
func LockCount(m *Manager) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
