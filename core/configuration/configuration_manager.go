package configuration

import "sync"

var _ IConfigurationManager = (*Manager)(nil)

// Manager is a builder and a root at once: every added source is loaded
// immediately and becomes visible to readers.
type Manager struct {
	*Root

	lock       sync.Mutex
	properties map[string]any
	sources    []IConfigurationSource
}

func NewManager() *Manager {
	return &Manager{
		Root:       newRoot(),
		properties: make(map[string]any),
	}
}

func (ss *Manager) GetProperties() map[string]any {
	return ss.properties
}

func (ss *Manager) GetSources() []IConfigurationSource {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	return ss.sources[:len(ss.sources):len(ss.sources)]
}

func (ss *Manager) AddSource(source IConfigurationSource) {
	provider := source.BuildConfigurationProvider(ss)

	ss.lock.Lock()
	ss.sources = append(ss.sources, source)
	ss.lock.Unlock()

	ss.attach(provider)
	ss.notifier.Notify()
}

func (ss *Manager) BuildConfigurationRoot() IConfigurationRoot {
	return ss
}
