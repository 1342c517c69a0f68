package mail

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"emotionserver/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		EmailSender:   "bot@example.com",
		EmailReceiver: "team@example.com",
		EmailPassword: "app-token",
		SMTPHost:      "127.0.0.1",
		SMTPPort:      587,
		SMTPTimeout:   2 * time.Second,
	}
}

func validSuggestion() Suggestion {
	return Suggestion{
		Name:  "Asha",
		Email: "asha@example.com",
		Phone: "+91 98765 43210",
		Text:  "Please add more calm music for the Neutral mood.",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Suggestion)
		wantErr bool
	}{
		{"all fields", func(*Suggestion) {}, false},
		{"blank name", func(s *Suggestion) { s.Name = "  " }, true},
		{"missing email", func(s *Suggestion) { s.Email = "" }, true},
		{"missing phone", func(s *Suggestion) { s.Phone = "" }, true},
		{"empty suggestion", func(s *Suggestion) { s.Text = "\n\t" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSuggestion()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingFields)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubmit_SendsExactlyOneEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(testConfig(), sender)

	sg := validSuggestion()
	require.NoError(t, svc.Submit(context.Background(), sg))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, Subject, msg.Subject)
	assert.Equal(t, "New Suggestion from Emotion Recognition App", msg.Subject)
	assert.Equal(t, "bot@example.com", msg.From)
	assert.Equal(t, "team@example.com", msg.To)
	assert.Equal(t, "asha@example.com", msg.ReplyTo)
	assert.Contains(t, msg.Body, sg.Text)
	assert.Contains(t, msg.Body, "👤 Name: Asha")
	assert.Contains(t, msg.Body, "📧 Email: asha@example.com")
	assert.Contains(t, msg.Body, "📱 Phone: +91 98765 43210")
	assert.Contains(t, string(msg.Bytes()), sg.Text)
}

func TestSubmit_EmptySuggestionSendsNothing(t *testing.T) {
	sender := &fakeSender{}
	svc := NewService(testConfig(), sender)

	sg := validSuggestion()
	sg.Text = ""
	err := svc.Submit(context.Background(), sg)

	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Empty(t, sender.sent)
}

func TestSubmit_SenderFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("535 auth failed")}
	svc := NewService(testConfig(), sender)

	err := svc.Submit(context.Background(), validSuggestion())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "535 auth failed")
	assert.Len(t, sender.sent, 1, "no retry on failure")
}

func TestMessage_Bytes(t *testing.T) {
	msg := Message{
		From:    "bot@example.com",
		To:      "team@example.com",
		Subject: "Hello\r\nBcc: evil@example.com",
		Body:    "line one\nline two",
		Date:    time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC),
	}
	raw := string(msg.Bytes())

	assert.Contains(t, raw, "From: bot@example.com\r\n")
	assert.Contains(t, raw, "To: team@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=\"utf-8\"\r\n")
	assert.NotContains(t, raw, "\r\nBcc:")
	assert.Contains(t, raw, "\r\n\r\nline one\r\nline two\r\n")
	assert.NotContains(t, raw, "Reply-To")
}

func TestReplyAddress(t *testing.T) {
	assert.Equal(t, "asha@example.com", replyAddress(" Asha <asha@example.com> "))
	assert.Empty(t, replyAddress("not an address"))
}

func TestSMTPSender_NotConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.EmailPassword = ""
	err := NewSMTPSender(cfg).Send(context.Background(), Message{To: "team@example.com"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

// fakeSMTPServer accepts one connection and speaks just enough ESMTP to
// advertise its extensions.
func fakeSMTPServer(t *testing.T, extensions []string) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		conn.Write([]byte("220 localhost ESMTP test\r\n"))
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch cmd := strings.ToUpper(strings.TrimSpace(line)); {
			case strings.HasPrefix(cmd, "EHLO"):
				reply := "250-localhost\r\n"
				for _, ext := range extensions {
					reply += "250-" + ext + "\r\n"
				}
				reply += "250 8BITMIME\r\n"
				conn.Write([]byte(reply))
			case strings.HasPrefix(cmd, "QUIT"):
				conn.Write([]byte("221 bye\r\n"))
				return
			default:
				conn.Write([]byte("502 not implemented\r\n"))
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

func TestSMTPSender_RequiresStartTLS(t *testing.T) {
	host, port := fakeSMTPServer(t, []string{"AUTH PLAIN"})
	cfg := testConfig()
	cfg.SMTPHost = host
	cfg.SMTPPort = port

	err := NewSMTPSender(cfg).Send(context.Background(), Message{From: cfg.EmailSender, To: cfg.EmailReceiver})
	assert.ErrorIs(t, err, ErrStartTLSUnsupported)
}

func TestSMTPSender_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	cfg := testConfig()
	cfg.SMTPPort = port
	err = NewSMTPSender(cfg).Send(context.Background(), Message{To: cfg.EmailReceiver})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial 127.0.0.1:"+strconv.Itoa(port))
}
