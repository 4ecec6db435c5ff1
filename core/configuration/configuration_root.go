package configuration

import (
	"sort"
	"strings"
	"sync"
)

var _ IConfigurationRoot = (*Root)(nil)

// Root reads through its providers, the last added provider wins.
type Root struct {
	lock      sync.RWMutex
	providers []IConfigurationProvider
	notifier  *Notifier
}

func newRoot() *Root {
	return &Root{
		notifier: NewNotifier(),
	}
}

func NewConfigurationRoot(providers []IConfigurationProvider) *Root {
	root := newRoot()
	for _, provider := range providers {
		root.attach(provider)
	}
	return root
}

func (ss *Root) attach(provider IConfigurationProvider) {
	provider.Load()
	provider.GetReloadNotifier().RegisterNotifyCallback(ss.notifier.Notify)

	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.providers = append(ss.providers, provider)
}

func (ss *Root) snapshot() []IConfigurationProvider {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	return ss.providers[:len(ss.providers):len(ss.providers)]
}

func (ss *Root) Get(key string) string {
	value, _ := ss.TryGet(key)
	return value
}

func (ss *Root) TryGet(key string) (value string, ok bool) {
	providers := ss.snapshot()
	for i := len(providers) - 1; i >= 0; i-- {
		if value, ok = providers[i].TryGet(key); ok {
			return value, true
		}
	}
	return "", false
}

func (ss *Root) Set(key string, value string) {
	for _, provider := range ss.snapshot() {
		provider.Set(key, value)
	}
}

func (ss *Root) GetSection(key string) IConfigurationSection {
	return NewSection(ss, key)
}

func (ss *Root) GetChildren() []IConfigurationSection {
	return ss.GetChildrenByPath("")
}

// GetChildrenByPath returns the direct children of path across all providers,
// sorted by key.
func (ss *Root) GetChildrenByPath(path string) []IConfigurationSection {
	keys := make(map[string]string)
	for _, provider := range ss.snapshot() {
		for _, key := range provider.GetChildKeys(path) {
			upper := strings.ToUpper(key)
			if _, ok := keys[upper]; !ok {
				keys[upper] = key
			}
		}
	}

	sorted := make([]string, 0, len(keys))
	for _, key := range keys {
		sorted = append(sorted, key)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return compareKeys(sorted[i], sorted[j]) < 0
	})

	sections := make([]IConfigurationSection, 0, len(sorted))
	for _, key := range sorted {
		if len(path) > 0 {
			key = PathCombine(path, key)
		}
		sections = append(sections, ss.GetSection(key))
	}
	return sections
}

func (ss *Root) GetReloadNotifier() INotifier {
	return ss.notifier
}

func (ss *Root) Reload() {
	for _, provider := range ss.snapshot() {
		provider.Load()
	}
	ss.notifier.Notify()
}

func (ss *Root) GetProviders() []IConfigurationProvider {
	return ss.snapshot()
}
