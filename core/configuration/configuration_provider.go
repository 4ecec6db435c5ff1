package configuration

import (
	"sort"
	"strings"
	"sync"
)

var _ IConfigurationProvider = (*Provider)(nil)

type providerValue struct {
	key   string
	value string
}

// Provider stores flat ":"-delimited keys. Lookups ignore case, child keys keep
// the case they were first written with.
type Provider struct {
	lock     sync.RWMutex
	data     map[string]providerValue
	notifier *Notifier
}

func NewProvider() *Provider {
	return &Provider{
		data:     make(map[string]providerValue),
		notifier: NewNotifier(),
	}
}

func (ss *Provider) Get(key string) string {
	value, _ := ss.TryGet(key)
	return value
}

func (ss *Provider) TryGet(key string) (value string, ok bool) {
	ss.lock.RLock()
	defer ss.lock.RUnlock()
	v, ok := ss.data[strings.ToUpper(key)]
	return v.value, ok
}

func (ss *Provider) Set(key string, value string) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	upper := strings.ToUpper(key)
	if old, ok := ss.data[upper]; ok {
		key = old.key
	}
	ss.data[upper] = providerValue{key: key, value: value}
}

func (ss *Provider) GetReloadNotifier() INotifier {
	return ss.notifier
}

// Replace swaps the whole key set, e.g. after a source file was re-read.
func (ss *Provider) Replace(data map[string]string) {
	newData := make(map[string]providerValue, len(data))
	for k, v := range data {
		newData[strings.ToUpper(k)] = providerValue{key: k, value: v}
	}

	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.data = newData
}

func (ss *Provider) Load() {
}

func (ss *Provider) OnReload() {
	ss.notifier.Notify()
}

func (ss *Provider) GetChildKeys(parentPath string) []string {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	upperParent := strings.ToUpper(parentPath)
	seen := make(map[string]struct{})
	childKeys := make([]string, 0)
	for upper, v := range ss.data {
		prefix := 0
		if len(upperParent) > 0 {
			if len(upper) <= len(upperParent) || !strings.HasPrefix(upper, upperParent) || upper[len(upperParent)] != ':' {
				continue
			}
			prefix = len(upperParent) + 1
		}
		key := keySegment(v.key, prefix)
		if _, ok := seen[strings.ToUpper(key)]; ok {
			continue
		}
		seen[strings.ToUpper(key)] = struct{}{}
		childKeys = append(childKeys, key)
	}
	sort.Slice(childKeys, func(i, j int) bool {
		return compareKeys(childKeys[i], childKeys[j]) < 0
	})
	return childKeys
}

func keySegment(key string, prefixLength int) string {
	if prefixLength >= len(key) {
		return ""
	}
	idx := strings.IndexByte(key[prefixLength:], ':')
	if idx == -1 {
		return key[prefixLength:]
	}

	return key[prefixLength : prefixLength+idx]
}
