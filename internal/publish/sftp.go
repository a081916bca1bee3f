// Package publish uploads dataset snapshots to remote storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const dialTimeout = 20 * time.Second

// Config describes the SFTP upload target.
type Config struct {
	Host                  string
	Port                  int
	User                  string
	Password              string
	RemoteDir             string
	KnownHostsFile        string
	InsecureIgnoreHostKey bool
}

// remoteFS is the subset of an SFTP session the publisher needs.
type remoteFS interface {
	MkdirAll(dir string) error
	Create(name string) (io.WriteCloser, error)
	Rename(oldname, newname string) error
	Remove(name string) error
	Close() error
}

// SFTPPublisher uploads the snapshot file over SFTP. The upload goes to a
// temporary remote name that is then renamed over the destination, so
// remote readers never see a partial file.
type SFTPPublisher struct {
	cfg    Config
	dial   func(ctx context.Context) (remoteFS, error)
	logger *slog.Logger
}

// NewSFTPPublisher validates cfg and returns a publisher.
func NewSFTPPublisher(cfg Config, logger *slog.Logger) (*SFTPPublisher, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Password == "" {
		return nil, fmt.Errorf("sftp: host, user and password are required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 22
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}
	p := &SFTPPublisher{cfg: cfg, logger: logger}
	p.dial = p.dialSSH
	return p, nil
}

// Publish uploads localPath into the configured remote directory under the
// same base name.
func (p *SFTPPublisher) Publish(ctx context.Context, localPath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()

	remote, err := p.dial(ctx)
	if err != nil {
		return err
	}
	defer remote.Close()

	if err := remote.MkdirAll(p.cfg.RemoteDir); err != nil {
		return fmt.Errorf("sftp: mkdir %s: %w", p.cfg.RemoteDir, err)
	}

	remotePath := path.Join(p.cfg.RemoteDir, filepath.Base(localPath))
	tmpPath := remotePath + ".uploading"

	dst, err := remote.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("sftp: create remote file: %w", err)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		remote.Remove(tmpPath)
		return fmt.Errorf("sftp: upload copy: %w", err)
	}

	if err := remote.Rename(tmpPath, remotePath); err != nil {
		remote.Remove(tmpPath)
		return fmt.Errorf("sftp: rename into place: %w", err)
	}

	p.logger.Info("dataset published", "host", p.cfg.Host, "path", remotePath, "bytes", n)
	return nil
}

func (p *SFTPPublisher) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if p.cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(p.cfg.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("sftp: loading known hosts: %w", err)
	}
	return cb, nil
}

func (p *SFTPPublisher) dialSSH(ctx context.Context) (remoteFS, error) {
	cb, err := p.hostKeyCallback()
	if err != nil {
		return nil, err
	}
	sshCfg := &ssh.ClientConfig{
		User:            p.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(p.cfg.Password)},
		HostKeyCallback: cb,
		Timeout:         dialTimeout,
	}
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, sshCfg)
		ch <- dialRes{client: c, err: err}
	}()

	var sshClient *ssh.Client
	select {
	case <-ctx.Done():
		// Close the connection if the dial completes after cancellation.
		go func() {
			if r := <-ch; r.client != nil {
				r.client.Close()
			}
		}()
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial error: %w", r.err)
		}
		sshClient = r.client
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("sftp: new client: %w", err)
	}
	return &sftpFS{client: client, conn: sshClient}, nil
}

// sftpFS adapts *sftp.Client to remoteFS.
type sftpFS struct {
	client *sftp.Client
	conn   *ssh.Client
}

func (s *sftpFS) MkdirAll(dir string) error { return s.client.MkdirAll(dir) }

func (s *sftpFS) Create(name string) (io.WriteCloser, error) { return s.client.Create(name) }

// Rename replaces newname atomically when the server supports the
// posix-rename extension, and falls back to remove-then-rename otherwise.
func (s *sftpFS) Rename(oldname, newname string) error {
	if err := s.client.PosixRename(oldname, newname); err == nil {
		return nil
	}
	if err := s.client.Remove(newname); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return s.client.Rename(oldname, newname)
}

func (s *sftpFS) Remove(name string) error { return s.client.Remove(name) }

func (s *sftpFS) Close() error {
	err := s.client.Close()
	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}
	return err
}
