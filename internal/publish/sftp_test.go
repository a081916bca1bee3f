package publish

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// dirFS is a remoteFS backed by a local directory.
type dirFS struct {
	root      string
	renameErr error
	closed    bool
}

func (d *dirFS) local(name string) string { return filepath.Join(d.root, filepath.FromSlash(name)) }

func (d *dirFS) MkdirAll(dir string) error { return os.MkdirAll(d.local(dir), 0o755) }

func (d *dirFS) Create(name string) (io.WriteCloser, error) { return os.Create(d.local(name)) }

func (d *dirFS) Rename(oldname, newname string) error {
	if d.renameErr != nil {
		return d.renameErr
	}
	return os.Rename(d.local(oldname), d.local(newname))
}

func (d *dirFS) Remove(name string) error { return os.Remove(d.local(name)) }

func (d *dirFS) Close() error {
	d.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPublisher(t *testing.T, remote *dirFS) *SFTPPublisher {
	t.Helper()
	p, err := NewSFTPPublisher(Config{Host: "sftp.example.com", User: "u", Password: "p", RemoteDir: "/exports/jobs"}, discardLogger())
	if err != nil {
		t.Fatalf("NewSFTPPublisher: %v", err)
	}
	p.dial = func(context.Context) (remoteFS, error) { return remote, nil }
	return p
}

func writeLocal(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "live_uk_ai_jobs.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewSFTPPublisher_Validation(t *testing.T) {
	if _, err := NewSFTPPublisher(Config{Host: "h"}, discardLogger()); err == nil {
		t.Fatal("expected error for missing credentials")
	}
	p, err := NewSFTPPublisher(Config{Host: "h", User: "u", Password: "p"}, discardLogger())
	if err != nil {
		t.Fatalf("NewSFTPPublisher: %v", err)
	}
	if p.cfg.Port != 22 || p.cfg.RemoteDir != "/" {
		t.Errorf("defaults = %d %q, want 22 /", p.cfg.Port, p.cfg.RemoteDir)
	}
}

func TestPublish_UploadsAndRenames(t *testing.T) {
	remote := &dirFS{root: t.TempDir()}
	p := newTestPublisher(t, remote)
	local := writeLocal(t, "id,title\n1,ML Engineer\n")

	if err := p.Publish(context.Background(), local); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, err := os.ReadFile(remote.local("/exports/jobs/live_uk_ai_jobs.csv"))
	if err != nil {
		t.Fatalf("reading uploaded file: %v", err)
	}
	if string(got) != "id,title\n1,ML Engineer\n" {
		t.Errorf("uploaded content = %q", got)
	}
	if _, err := os.Stat(remote.local("/exports/jobs/live_uk_ai_jobs.csv.uploading")); !os.IsNotExist(err) {
		t.Error("temporary upload file left behind")
	}
	if !remote.closed {
		t.Error("remote session not closed")
	}
}

func TestPublish_RenameFailureCleansUp(t *testing.T) {
	remote := &dirFS{root: t.TempDir(), renameErr: errors.New("permission denied")}
	p := newTestPublisher(t, remote)

	err := p.Publish(context.Background(), writeLocal(t, "x"))
	if err == nil || !strings.Contains(err.Error(), "rename into place") {
		t.Fatalf("err = %v, want rename error", err)
	}
	if _, err := os.Stat(remote.local("/exports/jobs/live_uk_ai_jobs.csv.uploading")); !os.IsNotExist(err) {
		t.Error("temporary upload file left behind after failure")
	}
}

func TestPublish_MissingLocalFile(t *testing.T) {
	dialed := false
	p := newTestPublisher(t, &dirFS{root: t.TempDir()})
	p.dial = func(context.Context) (remoteFS, error) {
		dialed = true
		return nil, errors.New("unexpected dial")
	}

	if err := p.Publish(context.Background(), filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing local file")
	}
	if dialed {
		t.Error("should not dial when the local file is missing")
	}
}

func TestPublish_DialError(t *testing.T) {
	p := newTestPublisher(t, nil)
	p.dial = func(context.Context) (remoteFS, error) { return nil, errors.New("sftp: dial error: refused") }

	if err := p.Publish(context.Background(), writeLocal(t, "x")); err == nil {
		t.Fatal("expected dial error")
	}
}

func TestHostKeyCallback(t *testing.T) {
	p := &SFTPPublisher{cfg: Config{InsecureIgnoreHostKey: true}}
	if cb, err := p.hostKeyCallback(); err != nil || cb == nil {
		t.Fatalf("insecure callback = %v, %v", cb, err)
	}

	p = &SFTPPublisher{cfg: Config{KnownHostsFile: filepath.Join(t.TempDir(), "missing")}}
	if _, err := p.hostKeyCallback(); err == nil {
		t.Fatal("expected error for missing known_hosts file")
	}
}
