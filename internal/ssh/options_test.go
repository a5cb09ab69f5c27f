package ssh

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"

	"github.com/zx06/jsend/internal/errors"
)

func writeKey(t *testing.T, passphrase string) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	var block *pem.Block
	if passphrase != "" {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, "test", []byte(passphrase))
	} else {
		block, err = ssh.MarshalPrivateKey(priv, "test")
	}
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildAuthMethods_IdentityFile(t *testing.T) {
	methods, xe := buildAuthMethods(Options{IdentityFile: writeKey(t, "")})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if len(methods) != 1 {
		t.Fatalf("methods=%d want 1", len(methods))
	}
}

func TestBuildAuthMethods_Passphrase(t *testing.T) {
	path := writeKey(t, "s3cret")

	if _, xe := buildAuthMethods(Options{IdentityFile: path, Passphrase: "s3cret"}); xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}

	_, xe := buildAuthMethods(Options{IdentityFile: path, Passphrase: "wrong"})
	if xe == nil || xe.Code != errors.CodeSSHAuthFailed {
		t.Fatalf("expected %s, got %v", errors.CodeSSHAuthFailed, xe)
	}
}

func TestBuildAuthMethods_GarbageKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, xe := buildAuthMethods(Options{IdentityFile: path})
	if xe == nil || xe.Code != errors.CodeSSHAuthFailed {
		t.Fatalf("expected %s, got %v", errors.CodeSSHAuthFailed, xe)
	}
}

func TestBuildHostKeyCallback_EmptyKnownHosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	cb, xe := buildHostKeyCallback(Options{KnownHostsFile: path})
	if xe != nil {
		t.Fatalf("unexpected error: %v", xe)
	}
	if cb == nil {
		t.Fatal("expected callback")
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	t.Setenv("USER", "alice")
	o := Options{Host: "bastion"}.withDefaults()
	if o.Port != 22 || o.User != "alice" || o.KnownHostsFile != "~/.ssh/known_hosts" {
		t.Errorf("got %+v", o)
	}
	if got := o.addr(); got != "bastion:22" {
		t.Errorf("addr=%s", got)
	}

	o = Options{Host: "::1", Port: 2222, User: "bob", KnownHostsFile: "/tmp/kh"}.withDefaults()
	if o.User != "bob" || o.KnownHostsFile != "/tmp/kh" {
		t.Errorf("explicit values overwritten: %+v", o)
	}
	if got := o.addr(); got != "[::1]:2222" {
		t.Errorf("addr=%s", got)
	}
}
