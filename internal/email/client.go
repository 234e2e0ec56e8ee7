package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strconv"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Client sends HTML mail through an SMTP relay.
type Client struct {
	host      string
	port      int
	user      string
	password  string
	fromName  string
	fromEmail string
	logger    *zap.Logger
}

// NewClient creates an SMTP client. portStr is parsed here so a bad value
// fails at startup.
func NewClient(host, portStr, user, password, fromName, fromEmail string, logger *zap.Logger) (*Client, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		host:      host,
		port:      port,
		user:      user,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
		logger:    logger,
	}, nil
}

func (c *Client) newMessage(to, subject, htmlBody string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail)); err != nil {
		return nil, fmt.Errorf("error setting sender: %w", err)
	}
	if err := m.To(to); err != nil {
		return nil, fmt.Errorf("error setting recipient: %w", err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, htmlBody)
	return m, nil
}

// SendEmail delivers one HTML message.
func (c *Client) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	m, err := c.newMessage(to, subject, htmlBody)
	if err != nil {
		return err
	}

	c.logger.Debug("smtp connect", zap.String("host", c.host), zap.Int("port", c.port), zap.String("user", c.user))
	client, err := mail.NewClient(c.host,
		mail.WithPort(c.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.user),
		mail.WithPassword(c.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{ServerName: c.host}),
	)
	if err != nil {
		return fmt.Errorf("error creating SMTP client (host=%s port=%d user=%s): %w", c.host, c.port, c.user, err)
	}

	// credentials stay out of the error
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("error sending mail (host=%s port=%d user=%s): %w", c.host, c.port, c.user, err)
	}
	return nil
}
