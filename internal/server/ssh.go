package server

import (
	"fmt"
	"io"

	"github.com/gliderlabs/ssh"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pixel-art-map/internal/app"
	"pixel-art-map/internal/input"
	"pixel-art-map/internal/render"
	"pixel-art-map/internal/sprites"
)

// SSHServer serves one editor and map per SSH session, all sharing one store.
type SSHServer struct {
	store   *sprites.Store
	addr    string
	hostKey string
	log     logrus.FieldLogger
}

// NewSSHServer creates a new SSH server bound to the given address.
// It panics with sprites.ErrNoStore if store is nil.
func NewSSHServer(addr string, hostKey string, store *sprites.Store, log logrus.FieldLogger) *SSHServer {
	return &SSHServer{
		store:   sprites.MustUse(store),
		addr:    addr,
		hostKey: hostKey,
		log:     log,
	}
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	s.log.WithField("addr", s.addr).Info("SSH server listening")
	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	log := s.log.WithFields(logrus.Fields{
		"user":    username,
		"session": uuid.NewString(),
	})
	log.WithField("remote", sess.RemoteAddr().String()).Info("Session started")
	defer log.Info("Session ended")

	s.serve(sess, ptyReq.Window.Width, ptyReq.Window.Height, winCh, log)
}

// serve runs one application against a terminal stream until the user quits
// or the stream fails. Only this goroutine touches the application.
func (s *SSHServer) serve(rw io.ReadWriter, termW, termH int, winCh <-chan ssh.Window, log logrus.FieldLogger) {
	a := app.New(s.store, app.WithLogger(log))
	a.Resize(termW, termH)
	engine := render.NewEngine(termW, termH)

	io.WriteString(rw, render.EnableAltScreen()+render.HideCursor()+render.EnableMouse()+render.ClearScreen())
	defer io.WriteString(rw, render.DisableMouse()+render.ShowCursor()+render.DisableAltScreen())

	subID, changed := s.store.Subscribe()
	defer s.store.Unsubscribe(subID)

	events := make(chan input.Event, 64)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	// Goroutine: read input
	go func() {
		var dec input.Decoder
		buf := make([]byte, 256)
		for {
			n, err := rw.Read(buf)
			for _, ev := range dec.Feed(buf[:n]) {
				select {
				case events <- ev:
				case <-done:
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	redraw := func() error {
		if !a.NeedsRedraw() {
			return nil
		}
		output := engine.Render(a.Draw())
		if len(output) == 0 {
			return nil
		}
		_, err := io.WriteString(rw, output)
		return err
	}

	for {
		if err := redraw(); err != nil {
			log.WithError(err).Debug("Session output failed")
			return
		}

		select {
		case ev := <-events:
			if a.Handle(ev) {
				return
			}
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			a.Resize(win.Width, win.Height)
			if _, err := io.WriteString(rw, render.ClearScreen()); err != nil {
				log.WithError(err).Debug("Session output failed")
				return
			}
			engine.Invalidate()
		case <-changed:
			a.MarkDirty()
		case err := <-readErr:
			log.WithError(err).Debug("Session input closed")
			return
		}
	}
}
