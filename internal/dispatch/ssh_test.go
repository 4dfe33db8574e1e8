package dispatch

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"

	"nxfacts/internal/domain"
	"nxfacts/internal/logger"
)

// startTestServer runs an SSH server on loopback that answers exec requests from
// outputs and exits 1 for unknown commands.
func startTestServer(t *testing.T, outputs map[string]string) (string, int) {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	cfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == "admin" && string(pass) == "secret" {
				return nil, nil
			}
			return nil, fmt.Errorf("access denied")
		},
	}
	cfg.AddHostKey(signer)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveTestConn(conn, cfg, outputs)
		}
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func serveTestConn(conn net.Conn, cfg *ssh.ServerConfig, outputs map[string]string) {
	_, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		conn.Close()
		return
	}
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "unsupported")
			continue
		}
		ch, chReqs, err := newCh.Accept()
		if err != nil {
			continue
		}
		go func() {
			defer ch.Close()
			for req := range chReqs {
				if req.Type != "exec" {
					_ = req.Reply(false, nil)
					continue
				}
				var payload struct{ Command string }
				if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
					_ = req.Reply(false, nil)
					return
				}
				_ = req.Reply(true, nil)

				status := uint32(0)
				if out, ok := outputs[payload.Command]; ok {
					_, _ = io.WriteString(ch, out)
				} else {
					status = 1
				}
				_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
				return
			}
		}()
	}
}

func TestSSHRunner_RunCommands(t *testing.T) {
	host, port := startTestServer(t, map[string]string{
		"show version | json": `{"chassis_id": "cisco Nexus9000", "host_name": "r-test-1", "rr_sys_ver": "9.3(10)"}`,
		"show vlan | json":    `{"TABLE_vlanbrief": {"ROW_vlanbrief": {"vlanshowbr-vlanid": 1323}}}`,
	})

	runner := NewSSHRunner(SSHConfig{
		Host:           host,
		Port:           port,
		Credential:     domain.Credential{Username: "admin", Password: "secret"},
		ConnectTimeout: 5 * time.Second,
		CommandTimeout: 5 * time.Second,
	}, logger.NewTestLogger())
	t.Cleanup(func() { runner.Close() })

	got, err := runner.RunCommands(context.Background(), []string{
		"show version | json",
		"show vlan | json",
		"show bogus | json",
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "r-test-1", got[0].(map[string]any)["host_name"])
	assert.Equal(t, float64(1323), got[1].(map[string]any)["TABLE_vlanbrief"].(map[string]any)["ROW_vlanbrief"].(map[string]any)["vlanshowbr-vlanid"])
	assert.Equal(t, map[string]any{}, got[2], "non-zero exit without output decodes to an empty object")

	// connection is reused
	again, err := runner.RunCommands(context.Background(), []string{"show version | json"})
	require.NoError(t, err)
	assert.Len(t, again, 1)
}

func TestSSHRunner_BadPassword(t *testing.T) {
	host, port := startTestServer(t, nil)

	runner := NewSSHRunner(SSHConfig{
		Host:       host,
		Port:       port,
		Credential: domain.Credential{Username: "admin", Password: "wrong"},
	}, logger.NewTestLogger())

	_, err := runner.RunCommands(context.Background(), []string{"show version | json"})
	assert.Error(t, err)
}

func TestSSHRunner_BuildClientConfig(t *testing.T) {
	tests := []struct {
		name    string
		cred    domain.Credential
		wantErr error
	}{
		{name: "password", cred: domain.Credential{Username: "admin", Password: "x"}},
		{name: "no auth", cred: domain.Credential{Username: "admin"}, wantErr: ErrNoAuth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSSHRunner(SSHConfig{Host: "192.0.2.1", Credential: tt.cred}, logger.NewTestLogger())
			cfg, err := r.buildClientConfig()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "admin", cfg.User)
			assert.Len(t, cfg.Auth, 1)
		})
	}

	r := NewSSHRunner(SSHConfig{Host: "192.0.2.1", Credential: domain.Credential{Password: "x"}}, logger.NewTestLogger())
	_, err := r.buildClientConfig()
	assert.Error(t, err, "username is required")

	r = NewSSHRunner(SSHConfig{Host: "192.0.2.1", Credential: domain.Credential{Username: "a", PrivateKey: []byte("garbage")}}, logger.NewTestLogger())
	_, err = r.buildClientConfig()
	assert.Error(t, err, "unparsable key")
}

func TestSSHRunner_Defaults(t *testing.T) {
	r := NewSSHRunner(SSHConfig{Host: "switch1"}, logger.NewTestLogger())
	assert.Equal(t, "switch1:22", r.Addr())
	assert.Equal(t, 10*time.Second, r.cfg.ConnectTimeout)
	assert.Equal(t, 30*time.Second, r.cfg.CommandTimeout)
	assert.NoError(t, r.Close())
}
