package email

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/parishops/parish-api/internal/model"
)

// Service sends transactional mail. Receipt delivery is best effort:
// callers log failures instead of failing the payment.
type Service interface {
	SendReceipt(to string, payment *model.Payment, apt *model.Appointment) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg Config) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendReceipt(to string, payment *model.Payment, apt *model.Appointment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Official Receipt %s", payment.ReceiptNumber))
	m.SetBody("text/html", receiptBody(payment, apt))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}
	return nil
}

func receiptBody(payment *model.Payment, apt *model.Appointment) string {
	var b strings.Builder
	b.WriteString("<h2>Official Receipt</h2>")
	fmt.Fprintf(&b, "<p>Receipt No: <strong>%s</strong></p>", payment.ReceiptNumber)
	fmt.Fprintf(&b, "<p>Service: %s on %s</p>", apt.ServiceType, apt.AppointmentDate.Format("January 2, 2006"))
	fmt.Fprintf(&b, "<p>Parishioner: %s</p>", apt.ParishionerName)

	if len(payment.Offerings) > 0 {
		b.WriteString("<ul>")
		for _, o := range payment.Offerings {
			fmt.Fprintf(&b, "<li>%s: %.2f</li>", o.Description, o.Amount)
		}
		b.WriteString("</ul>")
	}

	fmt.Fprintf(&b, "<p>Amount due: %.2f</p>", payment.AmountDue)
	fmt.Fprintf(&b, "<p>Amount tendered: %.2f</p>", payment.AmountTendered)
	fmt.Fprintf(&b, "<p>Change: %.2f</p>", payment.ChangeGiven)
	b.WriteString("<p>Thank you for your generosity.</p>")
	return b.String()
}
