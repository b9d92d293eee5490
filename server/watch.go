package server

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadLag collapses the burst of events an editor produces on save
const reloadLag = 100 * time.Millisecond

// watch reloads the scene whenever a file under the dev directory changes
func (s *Server) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("server: watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(s.cfg.Assets.DevDir); err != nil {
		// a missing asset directory only disables reloading
		s.log.Warn("not watching assets", "dir", s.cfg.Assets.DevDir, "err", err)
		<-ctx.Done()
		return nil
	}
	s.log.Info("watching assets", "dir", s.cfg.Assets.DevDir)

	timer := time.NewTimer(reloadLag)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.log.Debug("asset changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(reloadLag)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", "err", err)
		case <-timer.C:
			if err := s.Reload(); err != nil {
				s.log.Warn("reload failed", "err", err)
			}
		}
	}
}
