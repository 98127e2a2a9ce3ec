// Package mail delivers donation confirmation mails.
package mail

import (
	"context"
	"fmt"
	"strings"

	"donaciones/pkg/types"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPSender struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// Send delivers msg. Any failure is reported as types.ErrDeliveryFailure.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrDeliveryFailure, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %w", types.ErrDeliveryFailure, err)
	}

	return nil
}

// LogSender writes mails to the log instead of sending them. It is used when
// no SMTP host is configured.
type LogSender struct {
	logger *logrus.Logger
}

func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("mail not sent, smtp is not configured")
	s.logger.Debug(msg.Body)
	return nil
}

// DonationConfirmation builds the mail sent to the user who registered a
// donation. The classification is optional.
func DonationConfirmation(username string, d *types.Donation, c *types.FoodClassification) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Hola %s,\n\n", username)
	b.WriteString("Tu donación ha sido registrada exitosamente en nuestro sistema.\n\n")
	b.WriteString("--- DETALLE DE LA DONACIÓN ---\n")
	fmt.Fprintf(&b, "ID: %d\n", d.ID)
	fmt.Fprintf(&b, "Donante: %s\n", d.DonorCity)
	fmt.Fprintf(&b, "Tipo de Alimento: %s\n", d.FoodType)
	fmt.Fprintf(&b, "Cantidad: %d kg\n", d.Quantity)
	fmt.Fprintf(&b, "Destino: %s\n", d.Destination)
	fmt.Fprintf(&b, "Fecha de Llegada: %s\n", d.ArrivalDate.Format("2006-01-02"))

	if c != nil {
		b.WriteString("\n--- CLASIFICACIÓN DEL ALIMENTO ---\n")
		fmt.Fprintf(&b, "Perecible: %s\n", yesNo(c.Perishable))
		fmt.Fprintf(&b, "No perecible: %s\n", yesNo(c.NonPerishable))
		fmt.Fprintf(&b, "Estado: %s\n", types.ChoiceLabel(types.FoodConditionChoices, c.Condition))
		if c.ExpiryDate != nil {
			fmt.Fprintf(&b, "Fecha de Caducidad: %s\n", c.ExpiryDate.Format("2006-01-02"))
		}
	}

	b.WriteString("\nGracias por tu aporte a la comunidad.\n")

	return Message{
		Subject: fmt.Sprintf("Confirmación de Donación #%d - Sistema Donaciones", d.ID),
		Body:    b.String(),
	}
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
