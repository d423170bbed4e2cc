package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads settings.json and credentials.json whenever either file
// changes on disk and hands the fresh pair to onChange. The client reads
// its Session on every request, so pushing reloaded values into the
// session there makes edits take effect on the next call.
//
// The returned stop function releases the watcher. Watching the directory
// rather than the files survives editors that replace-by-rename.
func Watch(dir string, onChange func(Config, Credentials)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("config: watching %s: %w", dir, err)
	}

	settingsPath := filepath.Join(dir, "settings.json")
	credentialsPath := filepath.Join(dir, "credentials.json")

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != settingsPath && event.Name != credentialsPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				cfg, err := LoadFrom(settingsPath)
				if err != nil {
					log.Printf("config: reload failed: %v", err)
					continue
				}
				creds, err := LoadCredentialsFrom(credentialsPath)
				if err != nil {
					log.Printf("config: credentials reload failed: %v", err)
					continue
				}
				onChange(cfg, creds)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config: watch error: %v", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
