package storage

import (
	"bufio"
	"context"
	"net"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"farmer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRelay accepts one SMTP session and sends the DATA payload on the
// returned channel.
func fakeRelay(t *testing.T) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		tp := textproto.NewConn(conn)
		tp.PrintfLine("220 localhost ESMTP")
		for {
			line, err := tp.ReadLine()
			if err != nil {
				return
			}
			switch cmd := strings.ToUpper(strings.SplitN(line, " ", 2)[0]); cmd {
			case "EHLO", "HELO":
				tp.PrintfLine("250 localhost")
			case "MAIL", "RCPT":
				tp.PrintfLine("250 OK")
			case "DATA":
				tp.PrintfLine("354 go ahead")
				payload, err := tp.ReadDotBytes()
				if err != nil {
					return
				}
				received <- string(payload)
				tp.PrintfLine("250 queued")
			case "QUIT":
				tp.PrintfLine("221 bye")
				return
			default:
				tp.PrintfLine("500 unknown command")
			}
		}
	}()
	return ln.Addr().String(), received
}

func TestSMTPNotifier_Notify(t *testing.T) {
	addr, received := fakeRelay(t)
	notifier := NewSMTPNotifier(addr, "shop@farm.test", "farmer@farm.test", 2*time.Second)

	require.NoError(t, notifier.Notify(context.Background(), &domain.Order{ID: 5}))

	select {
	case payload := <-received:
		assert.Contains(t, payload, "To: farmer@farm.test")
		assert.Contains(t, payload, "X-Farmer-Order: 5")
		assert.Contains(t, payload, "une nouvelle commande a été enregistré")
	case <-time.After(2 * time.Second):
		t.Fatal("relay never received the message")
	}
}

func TestSMTPNotifier_RelayDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	notifier := NewSMTPNotifier(addr, "shop@farm.test", "farmer@farm.test", time.Second)
	err = notifier.Notify(context.Background(), &domain.Order{ID: 1})
	assert.ErrorContains(t, err, "dial mail relay")
}

func TestComposeMessage(t *testing.T) {
	msg := string(composeMessage("a@farm.test", "b@farm.test", &domain.Order{ID: 12}))

	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)
	assert.Contains(t, headers, "Subject: =?utf-8?q?une_commande_a_=C3=A9t=C3=A9_soumise?=")
	assert.Contains(t, headers, "Content-Type: text/plain; charset=utf-8")
	assert.True(t, strings.HasPrefix(body, "une nouvelle commande"))
	assert.NotContains(t, strings.ReplaceAll(body, "\r\n", ""), "\n")

	_, err := textproto.NewReader(bufio.NewReader(strings.NewReader(headers + "\r\n\r\n"))).ReadMIMEHeader()
	assert.NoError(t, err)
}
