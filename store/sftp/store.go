// Package sftp provides an SFTP store for tsdbjson.
//
// Basic usage with password authentication:
//
//	store, err := sftp.New(sftp.Config{
//	    Host:     "example.com",
//	    User:     "username",
//	    Password: "password",
//	})
//
// With SSH key authentication:
//
//	store, err := sftp.New(sftp.Config{
//	    Host:    "example.com",
//	    User:    "username",
//	    KeyFile: "/path/to/id_rsa",
//	})
package sftp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/tsdbkit/tsdbjson"
)

func init() {
	tsdbjson.Register("sftp", NewFromConfig)
}

// Store implements tsdbjson.Store over an SFTP connection.
type Store struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	config     Config
	closed     bool
	mu         sync.RWMutex
}

// New creates a new SFTP store with the given configuration.
func New(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30
	}

	var authMethods []ssh.AuthMethod

	if cfg.Password != "" {
		authMethods = append(authMethods, ssh.Password(cfg.Password))
	}

	if cfg.KeyFile != "" {
		keyAuth, err := keyFileAuth(cfg.KeyFile, cfg.KeyPassphrase)
		if err != nil {
			return nil, fmt.Errorf("sftp: loading key file: %w", err)
		}
		authMethods = append(authMethods, keyAuth)
	}

	if len(authMethods) == 0 {
		return nil, fmt.Errorf("sftp: no authentication method provided (password or key_file required)")
	}

	// NOTE: Host key verification is disabled when KnownHostsFile is unset.
	// Only acceptable for development and testing.
	sshConfig := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            authMethods,
		Timeout:         time.Duration(cfg.Timeout) * time.Second,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // G106: dev/test convenience
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	sshClient, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, fmt.Errorf("sftp: SSH connection failed: %w", err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		if closeErr := sshClient.Close(); closeErr != nil {
			return nil, fmt.Errorf("sftp: SFTP session failed: %w (also failed to close SSH: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("sftp: SFTP session failed: %w", err)
	}

	return &Store{
		sshClient:  sshClient,
		sftpClient: sftpClient,
		config:     cfg,
	}, nil
}

// NewFromConfig creates a new SFTP store from a config map.
// This is used by the tsdbjson registry.
func NewFromConfig(configMap map[string]string) (tsdbjson.Store, error) {
	cfg := ConfigFromMap(configMap)
	return New(cfg)
}

// keyFileAuth creates an SSH auth method from a private key file.
func keyFileAuth(keyFile, passphrase string) (ssh.AuthMethod, error) {
	keyData, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(keyData)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	return ssh.PublicKeys(signer), nil
}

// Fetch reads the full object stored under key.
func (s *Store) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.sftpClient.Open(s.fullPath(key))
	if err != nil {
		return nil, s.translateError(err, key)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("sftp: reading %s: %w", key, err)
	}
	return data, nil
}

// Put writes data under key, creating parent directories as needed.
func (s *Store) Put(ctx context.Context, key string, data []byte, opts ...tsdbjson.PutOption) error {
	if err := s.checkClosed(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// Content type and metadata have no SFTP representation.
	_ = tsdbjson.ApplyPutOptions(opts...)

	fullPath := s.fullPath(key)
	if err := s.sftpClient.MkdirAll(path.Dir(fullPath)); err != nil {
		return fmt.Errorf("sftp: creating directory: %w", err)
	}

	f, err := s.sftpClient.Create(fullPath)
	if err != nil {
		return s.translateError(err, key)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("sftp: writing %s: %w", key, err)
	}
	return f.Close()
}

// Exists checks if a key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := s.checkClosed(); err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := s.sftpClient.Stat(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, s.translateError(err, key)
	}
	return !info.IsDir(), nil
}

// Delete removes a key. Deleting a missing key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.checkClosed(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sftpClient.Remove(s.fullPath(key)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return s.translateError(err, key)
	}
	return nil
}

// List lists keys with the given prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root := s.fullPath("")
	if root == "" {
		root = "."
	}

	var keys []string
	if err := s.walkDir(ctx, root, root, prefix, &keys); err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *Store) walkDir(ctx context.Context, root, dir, prefix string, keys *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := s.sftpClient.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("sftp: listing directory: %w", err)
	}

	for _, entry := range entries {
		full := path.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := s.walkDir(ctx, root, full, prefix, keys); err != nil {
				return err
			}
			continue
		}
		key := strings.TrimPrefix(strings.TrimPrefix(full, root), "/")
		if prefix == "" || strings.HasPrefix(key, prefix) {
			*keys = append(*keys, key)
		}
	}
	return nil
}

// Close closes the SFTP session and the underlying SSH connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.sftpClient.Close(); err != nil {
		_ = s.sshClient.Close()
		return fmt.Errorf("sftp: closing SFTP session: %w", err)
	}
	return s.sshClient.Close()
}

func (s *Store) fullPath(key string) string {
	if s.config.Root == "" {
		return key
	}
	return path.Join(s.config.Root, key)
}

func (s *Store) checkClosed() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return tsdbjson.ErrStoreClosed
	}
	return nil
}

// translateError converts SFTP errors to tsdbjson errors.
func (s *Store) translateError(err error, key string) error {
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) {
		return tsdbjson.ErrNotFound
	}
	if os.IsPermission(err) {
		return tsdbjson.ErrPermissionDenied
	}
	return fmt.Errorf("sftp: %s: %w", key, err)
}

var _ tsdbjson.Store = (*Store)(nil)
