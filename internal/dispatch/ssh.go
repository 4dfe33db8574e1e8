package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"nxfacts/internal/domain"
	"nxfacts/internal/logger"
)

// ErrNoAuth is returned when a credential carries neither a password nor a key
var ErrNoAuth = errors.New("no ssh password or private key configured")

// SSHConfig describes how to reach one device
type SSHConfig struct {
	Host           string
	Port           int
	Credential     domain.Credential
	KnownHostsPath string // empty disables host key checking
	ConnectTimeout time.Duration
	CommandTimeout time.Duration
}

// SSHRunner runs commands over a single SSH connection, one session per command
type SSHRunner struct {
	cfg    SSHConfig
	log    logger.Logger
	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHRunner creates a runner; the connection is opened on first use
func NewSSHRunner(cfg SSHConfig, log logger.Logger) *SSHRunner {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = 30 * time.Second
	}
	return &SSHRunner{cfg: cfg, log: log.WithComponent("dispatch")}
}

// Addr returns host:port
func (s *SSHRunner) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// RunCommands executes commands in order and decodes each output
func (s *SSHRunner) RunCommands(ctx context.Context, commands []string) ([]any, error) {
	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]any, 0, len(commands))
	for _, cmd := range commands {
		out, err := s.runCommand(ctx, client, cmd)
		if err != nil {
			return nil, fmt.Errorf("%q on %s: %w", cmd, s.Addr(), err)
		}
		resp, ok := DecodeOutput(out)
		if !ok {
			s.log.Warn().Str("command", cmd).Str("host", s.cfg.Host).Msg("command output is not JSON")
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// Close closes the SSH connection if open
func (s *SSHRunner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// connect returns the shared client, dialing it once
func (s *SSHRunner) connect(ctx context.Context) (*ssh.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}

	config, err := s.buildClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build SSH config: %w", err)
	}

	addr := s.Addr()
	dialer := &net.Dialer{Timeout: s.cfg.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	s.client = ssh.NewClient(sshConn, chans, reqs)
	s.log.Debug().Str("addr", addr).Str("user", s.cfg.Credential.Username).Msg("ssh connected")
	return s.client, nil
}

// buildClientConfig picks key or password auth from the credential
func (s *SSHRunner) buildClientConfig() (*ssh.ClientConfig, error) {
	cred := s.cfg.Credential
	if cred.Username == "" {
		return nil, fmt.Errorf("username not configured")
	}

	var auth ssh.AuthMethod
	switch cred.Type() {
	case domain.CredentialSSHKey:
		signer, err := parseSigner(cred)
		if err != nil {
			return nil, err
		}
		auth = ssh.PublicKeys(signer)
	case domain.CredentialSSHPassword:
		auth = ssh.Password(cred.Password)
	default:
		return nil, ErrNoAuth
	}

	hostKeyCallback, err := s.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User:            cred.Username,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: hostKeyCallback,
		Timeout:         s.cfg.ConnectTimeout,
	}, nil
}

func parseSigner(cred domain.Credential) (ssh.Signer, error) {
	var (
		signer ssh.Signer
		err    error
	)
	if cred.Passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(cred.PrivateKey, []byte(cred.Passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(cred.PrivateKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return signer, nil
}

func (s *SSHRunner) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if s.cfg.KnownHostsPath == "" {
		s.log.Warn().Str("host", s.cfg.Host).Msg("no known_hosts file configured, host key is not verified")
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(s.cfg.KnownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts %s: %w", s.cfg.KnownHostsPath, err)
	}
	return cb, nil
}

type commandResult struct {
	out []byte
	err error
}

// runCommand executes one command in a new session. A non-zero exit status still
// returns the output: NX-OS exits non-zero for some commands that print valid JSON.
func (s *SSHRunner) runCommand(ctx context.Context, client *ssh.Client, cmd string) (string, error) {
	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	done := make(chan commandResult, 1)
	go func() {
		out, err := session.Output(cmd)
		done <- commandResult{out: out, err: err}
	}()

	timer := time.NewTimer(s.cfg.CommandTimeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			var exitErr *ssh.ExitError
			if errors.As(res.err, &exitErr) {
				s.log.Debug().Str("command", cmd).Int("status", exitErr.ExitStatus()).Msg("command exited non-zero")
				return string(res.out), nil
			}
			return "", fmt.Errorf("command failed: %w", res.err)
		}
		return string(res.out), nil
	case <-timer.C:
		_ = session.Signal(ssh.SIGKILL)
		return "", fmt.Errorf("command timeout after %s", s.cfg.CommandTimeout)
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return "", ctx.Err()
	}
}
