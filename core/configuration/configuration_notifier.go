package configuration

import "sync"

var _ INotifier = (*Notifier)(nil)

type Notifier struct {
	lock      sync.Mutex
	callbacks []func()
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (ss *Notifier) RegisterNotifyCallback(callback func()) {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	ss.callbacks = append(ss.callbacks, callback)
}

func (ss *Notifier) Notify() {
	ss.lock.Lock()
	cbs := ss.callbacks[:len(ss.callbacks):len(ss.callbacks)]
	ss.lock.Unlock()

	for _, callback := range cbs {
		callback()
	}
}
