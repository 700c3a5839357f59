package sanmar

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/ssh"
)

// SFTPConfig holds credentials for the SanMar SFTP drop.
type SFTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	RemoteDir string
}

// Downloader fetches bulk files from the SanMar SFTP drop into a local
// data directory, where they survive restarts.
type Downloader struct {
	config SFTPConfig
}

// NewDownloader constructs a downloader. Port defaults to 22.
func NewDownloader(config SFTPConfig) *Downloader {
	if config.Port == 0 {
		config.Port = 22
	}
	return &Downloader{config: config}
}

// Configured reports whether SFTP credentials are present.
func (d *Downloader) Configured() bool {
	return d.config.Host != "" && d.config.Username != "" && d.config.Password != ""
}

// Download fetches one remote file into localDir and returns the local
// path. The file is written to a temp name and renamed so readers never
// see a partial download.
func (d *Downloader) Download(ctx context.Context, filename, localDir string) (string, error) {
	paths, err := d.DownloadAll(ctx, []string{filename}, localDir)
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// DownloadAll fetches the named remote files over a single connection.
func (d *Downloader) DownloadAll(ctx context.Context, filenames []string, localDir string) ([]string, error) {
	if !d.Configured() {
		return nil, fmt.Errorf("sftp credentials not configured")
	}
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	sshClient, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer sshClient.Close()

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		return nil, fmt.Errorf("failed to open sftp session: %w", err)
	}
	defer client.Close()

	paths := make([]string, 0, len(filenames))
	for _, filename := range filenames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		localPath, err := d.fetch(client, filename, localDir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, localPath)
	}
	return paths, nil
}

func (d *Downloader) connect(ctx context.Context) (*ssh.Client, error) {
	addr := net.JoinHostPort(d.config.Host, strconv.Itoa(d.config.Port))
	conf := &ssh.ClientConfig{
		User:            d.config.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(d.config.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}

	dialer := net.Dialer{Timeout: conf.Timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("sftp dial failed: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, conf)
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("sftp handshake failed: %w", err)
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

func (d *Downloader) fetch(client *sftp.Client, filename, localDir string) (string, error) {
	start := time.Now()
	remotePath := path.Join(d.config.RemoteDir, filename)

	src, err := client.Open(remotePath)
	if err != nil {
		return "", fmt.Errorf("failed to open remote file %s: %w", remotePath, err)
	}
	defer src.Close()

	localPath := filepath.Join(localDir, filename)
	tmpPath := localPath + ".tmp"
	dst, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create local file: %w", err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to download %s: %w", remotePath, err)
	}
	if err := os.Rename(tmpPath, localPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize download: %w", err)
	}

	log.Debug().
		Str("remote", remotePath).
		Int64("bytes", written).
		Dur("duration", time.Since(start)).
		Msg("[SANMAR] Downloaded bulk file")
	return localPath, nil
}
