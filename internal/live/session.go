package live

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/drawkit/drawkit/internal/document"
	"github.com/drawkit/drawkit/internal/editor"
)

var ErrUnknownMessage = errors.New("unknown message type")

const saveTimeout = 10 * time.Second

// session drives one editor session from a single goroutine.
type session struct {
	drawingID string
	editor    *editor.Session
	save      Saver
	out       func(*Message)
	log       *slog.Logger

	lastFrame []byte
	lastState []byte
	lastSaved []byte
}

func newSession(drawingID string, doc *document.Shape, opts editor.Options, save Saver, out func(*Message)) *session {
	ed := editor.New(doc, opts)
	ed.SetPlaying(true)
	s := &session{
		drawingID: drawingID,
		editor:    ed,
		save:      save,
		out:       out,
		log:       opts.Logger.With("drawing", drawingID, "session", ed.ID),
	}
	s.lastSaved, _ = document.Marshal(doc)
	return s
}

// run processes events and frame ticks until ctx is done, then saves the
// drawing.
func (s *session) run(ctx context.Context, events <-chan *Message, frameRate int) {
	interval := time.Second / time.Duration(frameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.frame(0)
	for {
		select {
		case msg := <-events:
			s.handle(ctx, msg)
		case <-ticker.C:
			s.frame(interval.Seconds())
		case <-ctx.Done():
			saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			if err := s.persist(saveCtx); err != nil {
				s.log.Error("save on close", "error", err)
			}
			cancel()
			return
		}
	}
}

func (s *session) handle(ctx context.Context, msg *Message) {
	if err := s.apply(ctx, msg); err != nil {
		s.sendError(err)
	}
	if msg.Type != TypeMouse {
		s.state()
	}
}

func (s *session) apply(ctx context.Context, msg *Message) error {
	ed := s.editor
	switch msg.Type {
	case TypeKey:
		var p KeyPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		ed.KeyChange(p.Key, p.Down)

	case TypeMouse:
		var p MousePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		ed.MouseMove(p.X, p.Y)

	case TypeMouseButton:
		var p MouseButtonPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		ed.MouseButton(p.Down)

	case TypeDelete:
		var p DeletePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		// Rejections are reported through the state message.
		_ = ed.Delete(p.Confirmed)

	case TypeImport:
		var p ImportPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		return ed.Import(p.Document)

	case TypeSave:
		if err := s.persist(ctx); err != nil {
			return err
		}
		s.send(TypeSaved, SavedPayload{DrawingID: s.drawingID})

	case TypeResize:
		var p ResizePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("resize to %gx%g: size must be positive", p.Width, p.Height)
		}
		ed.Resize(p.Width, p.Height)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

// frame advances the editor and sends the picture when it changed. A stopped
// frame loop sends nothing, which leaves the client on its last frame.
func (s *session) frame(dt float64) {
	if !s.editor.Playing() {
		return
	}
	s.editor.Tick(dt)
	data, err := json.Marshal(FramePayload{Commands: s.editor.Frame()})
	if err != nil {
		s.log.Error("encode frame", "error", err)
		return
	}
	if bytes.Equal(data, s.lastFrame) {
		return
	}
	s.lastFrame = data
	s.out(&Message{Type: TypeFrame, Payload: data})
}

func (s *session) state() {
	data, err := json.Marshal(s.editor.State())
	if err != nil {
		s.log.Error("encode state", "error", err)
		return
	}
	if bytes.Equal(data, s.lastState) {
		return
	}
	s.lastState = data
	s.out(&Message{Type: TypeState, Payload: data})
}

// persist saves the drawing unless it is unchanged since the last save.
func (s *session) persist(ctx context.Context) error {
	data, err := document.Marshal(s.editor.Document())
	if err != nil {
		return fmt.Errorf("marshal drawing: %w", err)
	}
	if bytes.Equal(data, s.lastSaved) {
		return nil
	}
	if err := s.save(ctx, s.drawingID, s.editor.Document()); err != nil {
		return fmt.Errorf("save drawing: %w", err)
	}
	s.lastSaved = data
	s.log.Info("drawing saved")
	return nil
}

func (s *session) send(typ string, payload any) {
	msg, err := newMessage(typ, payload)
	if err != nil {
		s.log.Error("encode message", "type", typ, "error", err)
		return
	}
	s.out(msg)
}

func (s *session) sendError(err error) {
	s.log.Warn("message rejected", "error", err)
	s.send(TypeError, ErrorPayload{Message: err.Error()})
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", msg.Type, err)
	}
	return nil
}
