package uploads

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Backup copies the uploads directory into a timestamped folder once a day
// and prunes copies older than Retention.
type Backup struct {
	Src       string
	Dest      string
	Retention time.Duration
	Hour      int
	now       func() time.Time
}

func NewBackup(src, dest string, retention time.Duration, hour int) *Backup {
	return &Backup{Src: src, Dest: dest, Retention: retention, Hour: hour, now: time.Now}
}

// Run blocks until ctx is cancelled, taking one backup per day at Hour:00.
func (b *Backup) Run(ctx context.Context) {
	for {
		next := b.nextRun()
		log.Printf("⏳ Next image backup scheduled at: %s", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(next.Sub(b.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if dir, err := b.Once(); err != nil {
			log.Printf("❌ Failed to back up images: %v", err)
		} else {
			log.Printf("✅ Images backed up to %s", dir)
		}
		b.Prune()
	}
}

func (b *Backup) nextRun() time.Time {
	now := b.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), b.Hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

// Once takes a backup now and returns its folder.
func (b *Backup) Once() (string, error) {
	dest := filepath.Join(b.Dest, b.now().Format("2006-01-02_15-04-05"))
	return dest, copyDir(b.Src, dest)
}

// Prune removes backup folders last modified before the retention window.
func (b *Backup) Prune() {
	entries, err := os.ReadDir(b.Dest)
	if err != nil {
		log.Printf("❌ Failed to read backup directory: %v", err)
		return
	}

	cutoff := b.now().Add(-b.Retention)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(b.Dest, e.Name())
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			log.Printf("❌ Failed to remove old backup %s: %v", path, err)
		} else {
			log.Printf("🗑️ Removed old backup: %s", path)
		}
	}
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, e := range entries {
		s, d := filepath.Join(src, e.Name()), filepath.Join(dest, e.Name())
		if e.IsDir() {
			err = copyDir(s, d)
		} else {
			err = copyFile(s, d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
