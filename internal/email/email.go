package email

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/kafka"
)

// Sender delivers booking confirmations. Delivery is a line written to out
// until a mail provider is configured.
type Sender struct {
	out io.Writer
}

func NewSender() *Sender {
	return &Sender{out: os.Stdout}
}

func NewSenderTo(out io.Writer) *Sender {
	return &Sender{out: out}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.Email == "" {
		return nil
	}
	_, err := fmt.Fprintf(s.out, "send email to %s: booked %d ticket(s) for %s (%s %s)\n",
		event.Email, event.Quantity, event.EventTitle, domain.FormatAmount(event.TotalPaidCents), event.Currency)
	return err
}
