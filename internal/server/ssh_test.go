package server

import (
	"bytes"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-art-map/internal/app"
	"pixel-art-map/internal/render"
	"pixel-art-map/internal/sprites"
)

// fakeTerm is a terminal stream fed through a pipe, recording all output.
type fakeTerm struct {
	in  *io.PipeReader
	mu  sync.Mutex
	out bytes.Buffer
}

func (f *fakeTerm) Read(p []byte) (int, error) { return f.in.Read(p) }

func (f *fakeTerm) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Write(p)
}

func (f *fakeTerm) Output() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.String()
}

var csiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// plainText strips escape sequences so that text drawn on one row reads back contiguously.
func plainText(out string) string {
	return csiPattern.ReplaceAllString(out, "")
}

func sgrPress(x, y int) string   { return fmt.Sprintf("\x1b[<0;%d;%dM", x+1, y+1) }
func sgrRelease(x, y int) string { return fmt.Sprintf("\x1b[<0;%d;%dm", x+1, y+1) }

type session struct {
	term  *fakeTerm
	input *io.PipeWriter
	winCh chan ssh.Window
	done  chan struct{}
}

func startSession(t *testing.T, store *sprites.Store) *session {
	t.Helper()
	logger, _ := test.NewNullLogger()
	srv := NewSSHServer(":0", "", store, logger)

	r, w := io.Pipe()
	s := &session{
		term:  &fakeTerm{in: r},
		input: w,
		winCh: make(chan ssh.Window, 1),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		srv.serve(s.term, 100, 40, s.winCh, logger)
	}()
	t.Cleanup(func() { _ = w.Close() })
	return s
}

func (s *session) send(t *testing.T, data string) {
	t.Helper()
	_, err := io.WriteString(s.input, data)
	require.NoError(t, err)
}

func (s *session) wait(t *testing.T) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end")
	}
}

func TestNewSSHServerPanicsWithoutStore(t *testing.T) {
	assert.PanicsWithValue(t, sprites.ErrNoStore, func() {
		NewSSHServer(":0", "", nil, logrus.New())
	})
}

func TestSessionSaveAndQuit(t *testing.T) {
	store := sprites.NewStore()
	s := startSession(t, store)

	save := app.NewLayout(100, 40).Save
	s.send(t, sgrPress(save.X, save.Y)+sgrRelease(save.X, save.Y)+"q")
	s.wait(t)

	assert.Equal(t, 1, store.Len())
	out := s.term.Output()
	assert.True(t, strings.HasPrefix(out, render.EnableAltScreen()))
	assert.Contains(t, out, render.EnableMouse())
	assert.Contains(t, plainText(out), "Sprite Editor")
	assert.True(t, strings.HasSuffix(out, render.DisableAltScreen()))
}

func TestSessionEndsOnInputError(t *testing.T) {
	s := startSession(t, sprites.NewStore())
	require.NoError(t, s.input.Close())
	s.wait(t)
	assert.Contains(t, s.term.Output(), render.DisableMouse())
}

func TestSessionSeesOtherSessionsSprites(t *testing.T) {
	store := sprites.NewStore()
	a := startSession(t, store)
	b := startSession(t, store)

	// Wait for b's first frame, then b must repaint when a saves.
	require.Eventually(t, func() bool {
		return strings.Contains(b.term.Output(), render.Reset)
	}, 5*time.Second, 10*time.Millisecond)
	before := len(b.term.Output())

	save := app.NewLayout(100, 40).Save
	a.send(t, sgrPress(save.X, save.Y)+sgrRelease(save.X, save.Y))

	require.Eventually(t, func() bool {
		return len(b.term.Output()) > before
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, store.Len())

	a.send(t, "q")
	b.send(t, "q")
	a.wait(t)
	b.wait(t)
}

func TestSessionResize(t *testing.T) {
	s := startSession(t, sprites.NewStore())
	s.winCh <- ssh.Window{Width: 20, Height: 10}

	require.Eventually(t, func() bool {
		return strings.Contains(plainText(s.term.Output()), "Terminal too small")
	}, 5*time.Second, 10*time.Millisecond)

	s.send(t, "q")
	s.wait(t)
}

func TestEnsureHostKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_key")

	created, err := EnsureHostKey(path)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	block, _ := pem.Decode(data)
	require.NotNil(t, block)
	assert.Equal(t, "PRIVATE KEY", block.Type)
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	require.NoError(t, err)
	assert.IsType(t, ed25519.PrivateKey{}, key)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	created, err = EnsureHostKey(path)
	require.NoError(t, err)
	assert.False(t, created)
	again, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestEnsureHostKeyBadDir(t *testing.T) {
	_, err := EnsureHostKey(filepath.Join(t.TempDir(), "missing", "host_key"))
	assert.Error(t, err)
}
