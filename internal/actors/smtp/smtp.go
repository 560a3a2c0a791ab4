package smtp

import (
	"context"
	"errors"
	"fmt"
	"mime/quotedprintable"
	"net/smtp"
	"strings"

	"github.com/rbroggi/oneclick/internal/core/model"
)

const boundary = "oneclick-mail-boundary"

// Transport delivers composed mail over SMTP.
type Transport struct {
	addr string
	from string
	auth smtp.Auth
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// TransportArgs are the mandatory arguments for the creation of a Transport.
type TransportArgs struct {
	// Host is the SMTP server host.
	Host string

	// Port is the SMTP server port.
	Port int

	// Username authenticates against the server. Empty disables auth.
	Username string

	// Password authenticates against the server.
	Password string

	// From is the sender address.
	From string
}

// NewTransport creates a new Transport.
func NewTransport(args TransportArgs) (*Transport, error) {
	if args.Host == "" || args.Port == 0 {
		return nil, errors.New("missing smtp server address")
	}
	if args.From == "" {
		return nil, errors.New("missing sender address")
	}

	transport := &Transport{
		addr: fmt.Sprintf("%s:%d", args.Host, args.Port),
		from: args.From,
		send: smtp.SendMail,
	}
	if args.Username != "" {
		transport.auth = smtp.PlainAuth("", args.Username, args.Password, args.Host)
	}
	return transport, nil
}

// SendMail delivers the message. Messages carrying an HTML body are sent as
// multipart/alternative with the plain-text part first.
func (t *Transport) SendMail(ctx context.Context, mail model.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := composeMessage(t.from, mail)
	if err != nil {
		return fmt.Errorf("error composing message: %w", err)
	}
	if err := t.send(t.addr, t.auth, t.from, []string{mail.To}, msg); err != nil {
		return fmt.Errorf("error sending mail to %s: %w", mail.To, err)
	}
	return nil
}

func composeMessage(from string, mail model.Mail) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", mail.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mail.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if mail.HTML == "" {
		b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
		b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		if err := writeQuotedPrintable(&b, mail.Text); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	if err := writeQuotedPrintable(&b, mail.Text); err != nil {
		return nil, err
	}
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
	if err := writeQuotedPrintable(&b, mail.HTML); err != nil {
		return nil, err
	}
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String()), nil
}

func writeQuotedPrintable(b *strings.Builder, body string) error {
	w := quotedprintable.NewWriter(b)
	if _, err := w.Write([]byte(body)); err != nil {
		return err
	}
	return w.Close()
}
