package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"time"

	"farmer/internal/domain"
)

const (
	notificationSubject = "une commande a été soumise"
	notificationBody    = `une nouvelle commande a été enregistré dans le système.

rentrez à la ferme et veuillez la préparer dans les meilleures
délais.
`
)

// SMTPNotifier mails the farm whenever an order is placed.
type SMTPNotifier struct {
	Addr    string
	From    string
	To      string
	Timeout time.Duration
}

func NewSMTPNotifier(addr, from, to string, timeout time.Duration) *SMTPNotifier {
	return &SMTPNotifier{Addr: addr, From: from, To: to, Timeout: timeout}
}

func (n *SMTPNotifier) Notify(ctx context.Context, order *domain.Order) error {
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", n.Addr)
	if err != nil {
		return fmt.Errorf("dial mail relay: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	host, _, err := net.SplitHostPort(n.Addr)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail relay address: %w", err)
	}
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := client.Mail(n.From); err != nil {
		return fmt.Errorf("smtp MAIL: %w", err)
	}
	if err := client.Rcpt(n.To); err != nil {
		return fmt.Errorf("smtp RCPT: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(composeMessage(n.From, n.To, order)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	return client.Quit()
}

func composeMessage(from, to string, order *domain.Order) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", notificationSubject))
	if order != nil {
		fmt.Fprintf(&b, "X-Farmer-Order: %d\r\n", order.ID)
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.Write(bytes.ReplaceAll([]byte(notificationBody), []byte("\n"), []byte("\r\n")))
	return b.Bytes()
}
