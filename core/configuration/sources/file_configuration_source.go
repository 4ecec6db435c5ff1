package sources

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mogud/snowdi/core/configuration"
	"github.com/mogud/snowdi/core/logging/slog"
)

var _ configuration.IConfigurationSource = (*FileConfigurationSource)(nil)

type FileConfigurationSource struct {
	Path           string
	Optional       bool
	ReloadOnChange bool
}

func (ss *FileConfigurationSource) BuildConfigurationProvider(_ configuration.IConfigurationBuilder) configuration.IConfigurationProvider {
	return NewFileConfigurationProvider(ss)
}

var _ configuration.IConfigurationProvider = (*FileConfigurationProvider)(nil)

// ReloadDelay is how long the watcher waits after a write before re-reading,
// so editors that write in several steps are read once.
var ReloadDelay = 200 * time.Millisecond

// FileConfigurationProvider reads a file on Load and hands the bytes to OnLoad.
// With ReloadOnChange the file is watched and re-read on every change.
type FileConfigurationProvider struct {
	*configuration.Provider

	path           string
	optional       bool
	reloadOnChange bool

	lock    sync.Mutex
	loaded  bool
	watcher *fsnotify.Watcher
	timer   *time.Timer

	OnLoad func(bytes []byte)
}

func NewFileConfigurationProvider(source *FileConfigurationSource) *FileConfigurationProvider {
	return &FileConfigurationProvider{
		Provider:       configuration.NewProvider(),
		path:           filepath.Clean(source.Path),
		optional:       source.Optional,
		reloadOnChange: source.ReloadOnChange,
		OnLoad:         func(bytes []byte) {},
	}
}

func (ss *FileConfigurationProvider) Load() {
	ss.lock.Lock()
	loaded := ss.loaded
	ss.loaded = true
	ss.lock.Unlock()

	ss.loadFile(!loaded)
	if loaded {
		ss.OnReload()
		return
	}

	if ss.reloadOnChange {
		if err := ss.watch(); err != nil {
			slog.Errorf("watch config file %v: %v", ss.path, err)
		}
	}
}

// Close stops watching the file.
func (ss *FileConfigurationProvider) Close() error {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if ss.timer != nil {
		ss.timer.Stop()
	}
	if ss.watcher == nil {
		return nil
	}
	err := ss.watcher.Close()
	ss.watcher = nil
	return err
}

func (ss *FileConfigurationProvider) watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// watch the directory so that files replaced by rename are still seen
	if err = watcher.Add(filepath.Dir(ss.path)); err != nil {
		_ = watcher.Close()
		return err
	}

	ss.lock.Lock()
	ss.watcher = watcher
	ss.lock.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != ss.path {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					slog.Debugf("config file %v changed: %v", event.Name, event.Op)
					ss.scheduleReload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warnf("config file watcher error: %v", err)
			}
		}
	}()
	return nil
}

func (ss *FileConfigurationProvider) scheduleReload() {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	if ss.timer != nil {
		ss.timer.Stop()
	}
	ss.timer = time.AfterFunc(ReloadDelay, func() {
		ss.loadFile(false)
		ss.OnReload()
	})
}

// loadFile panics when a required file is missing on the first load only; a
// file deleted later just empties the provider.
func (ss *FileConfigurationProvider) loadFile(first bool) {
	data, err := os.ReadFile(ss.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if first && !ss.optional {
				panic(fmt.Sprintf("config file not found: %v", ss.path))
			}
			ss.Replace(nil)
			return
		}
		slog.Errorf("read config file %v: %v", ss.path, err)
		return
	}

	ss.OnLoad(data)
}
