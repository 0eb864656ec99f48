package textconfig

import (
	"github.com/fsnotify/fsnotify"

	"github.com/dshills/textrope/internal/logx"
)

// Watch watches path for changes via fsnotify and, on every write or
// create, reloads it and pushes the new Config down the returned channel.
// It does not load path up front, and a reload is dropped when the
// previous one has not been received yet (the channel holds one). The
// returned stop function closes the watcher; callers should defer it.
func Watch(path string, log *logx.Logger) (<-chan Config, func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, nil, err
	}

	out := make(chan Config, 1)
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					log.Warnf("textconfig: reload %s failed: %v", path, err)
					continue
				}
				select {
				case out <- cfg:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("textconfig: watcher error: %v", err)
			}
		}
	}()

	return out, watcher.Close, nil
}
