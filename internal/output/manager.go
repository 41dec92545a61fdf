package output

import "sync"

// Manager holds the process-wide default Location and exposes setters for
// adapters that reconfigure it (CLI flags, server flags).
//
// Manager is safe for concurrent use. Request handlers should not call the
// setters; they take a snapshot with Location and derive from it.
type Manager struct {
	mu  sync.RWMutex
	loc Location
}

// NewManager creates a Manager with the given subdirectory under root. An
// empty root means the current working directory.
func NewManager(subdirectory, root string) *Manager {
	return &Manager{loc: NewLocation(root, subdirectory)}
}

// Location returns a snapshot of the current configuration.
func (m *Manager) Location() Location {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loc
}

// SetSubdirectoryName replaces the subdirectory name after sanitizing it.
func (m *Manager) SetSubdirectoryName(name string) {
	m.mu.Lock()
	m.loc = m.loc.WithSubdirectory(name)
	m.mu.Unlock()
}

// SetRootDirectory replaces the root with the absolute form of dir.
func (m *Manager) SetRootDirectory(dir string, useDirectly bool) {
	m.mu.Lock()
	m.loc = m.loc.WithRoot(dir, useDirectly)
	m.mu.Unlock()
}

// Resolve is shorthand for m.Location().Resolve(filename).
func (m *Manager) Resolve(filename string) string {
	return m.Location().Resolve(filename)
}

// OutputPath returns the current output directory.
func (m *Manager) OutputPath() string {
	return m.Location().OutputPath()
}

// RootDirectory returns the current absolute root.
func (m *Manager) RootDirectory() string {
	return m.Location().Root()
}

// UsingRootDirectly reports whether the subdirectory is bypassed.
func (m *Manager) UsingRootDirectly() bool {
	return m.Location().UsingRootDirectly()
}
