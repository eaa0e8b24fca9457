package notifier

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"shelter-registry/config"
	"shelter-registry/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	messages []*gomail.Message
	err      error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	s.messages = append(s.messages, m...)
	return s.err
}

func newTestNotifier(cfg config.SMTPConfig, s sender) *SMTPNotifier {
	log := logrus.New()
	log.SetOutput(io.Discard)
	n := NewSMTPNotifier(cfg, log)
	n.dialer = s
	return n
}

func TestSMTPNotifier_NotConfigured(t *testing.T) {
	s := &recordingSender{}
	n := newTestNotifier(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, s)

	assert.False(t, n.Configured())
	err := n.Send(context.Background(), []string{"a@example.com"}, "s", "b", usecase.Attachment{})
	assert.ErrorIs(t, err, usecase.ErrNotifierNotConfigured)
	assert.Empty(t, s.messages)
}

func TestSMTPNotifier_SendBuildsMessage(t *testing.T) {
	s := &recordingSender{}
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, User: "albergue@example.com", Password: "secret"}
	n := newTestNotifier(cfg, s)

	err := n.Send(context.Background(), []string{"a@example.com", "b@example.com"}, "Reporte", "Cuerpo",
		usecase.Attachment{Name: "Reporte_Movimientos.pdf", Content: []byte("%PDF-1.3")})
	require.NoError(t, err)
	require.Len(t, s.messages, 1)

	m := s.messages[0]
	assert.Equal(t, []string{"albergue@example.com"}, m.GetHeader("From"))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Reporte"}, m.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err = m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), `filename="Reporte_Movimientos.pdf"`)
}

func TestSMTPNotifier_SendFailure(t *testing.T) {
	s := &recordingSender{err: errors.New("connection refused")}
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, User: "u", Password: "p"}
	n := newTestNotifier(cfg, s)

	err := n.Send(context.Background(), []string{"a@example.com"}, "s", "b", usecase.Attachment{})
	assert.ErrorContains(t, err, "connection refused")
}
