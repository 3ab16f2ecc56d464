package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/staybooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

const (
	DefaultFrom = "noreply@alojamientosapp.com"
	dateLayout  = "02/01/2006"
)

type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Transport delivers a rendered message.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// LogTransport writes messages to the log instead of delivering them.
type LogTransport struct {
	Log logrus.FieldLogger
}

func (t LogTransport) Deliver(_ context.Context, msg Message) error {
	t.Log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info(msg.Body)
	return nil
}

type Sender struct {
	from      string
	transport Transport
	log       logrus.FieldLogger
}

func NewSender(transport Transport, log logrus.FieldLogger) *Sender {
	return &Sender{from: DefaultFrom, transport: transport, log: log}
}

// Send renders the event and delivers it. Unknown event types and events
// without a recipient are skipped.
func (s *Sender) Send(ctx context.Context, event kafka.Event) error {
	msg, ok := Render(event)
	if !ok {
		s.log.WithField("event", event.Type).Debug("no notification for event")
		return nil
	}
	msg.From = s.from
	if err := s.transport.Deliver(ctx, msg); err != nil {
		return fmt.Errorf("deliver %s to %s: %w", event.Type, msg.To, err)
	}
	return nil
}

func Render(event kafka.Event) (Message, bool) {
	place := event.PlaceTitle
	if place == "" {
		place = fmt.Sprintf("alojamiento #%d", event.PlaceID)
	}
	stay := fmt.Sprintf("del %s al %s", event.CheckIn.Format(dateLayout), event.CheckOut.Format(dateLayout))

	var msg Message
	switch event.Type {
	case kafka.EventBookingCreated:
		msg = Message{
			To:      event.HostEmail,
			Subject: "Nueva solicitud de reserva - " + place,
			Body:    fmt.Sprintf("Tienes una nueva solicitud de reserva para %s %s (%d huéspedes).", place, stay, event.GuestCount),
		}
	case kafka.EventBookingConfirmed:
		msg = Message{
			To:      event.GuestEmail,
			Subject: "Reserva confirmada - " + place,
			Body:    fmt.Sprintf("Tu reserva en %s %s ha sido confirmada.", place, stay),
		}
	case kafka.EventBookingRejected:
		msg = Message{
			To:      event.GuestEmail,
			Subject: "Reserva rechazada - " + place,
			Body:    fmt.Sprintf("El anfitrión rechazó tu reserva en %s %s.", place, stay),
		}
	case kafka.EventBookingCancelled:
		msg = Message{
			To:      event.HostEmail,
			Subject: "Reserva cancelada - " + place,
			Body:    fmt.Sprintf("El huésped canceló la reserva en %s %s.", place, stay),
		}
	case kafka.EventBookingCompleted:
		msg = Message{
			To:      event.GuestEmail,
			Subject: "¿Cómo estuvo tu estadía? - " + place,
			Body:    fmt.Sprintf("Tu estadía en %s ha finalizado. Puedes dejar un comentario sobre tu experiencia.", place),
		}
	case kafka.EventCommentCreated:
		msg = Message{
			To:      event.HostEmail,
			Subject: "Nuevo comentario - " + place,
			Body:    fmt.Sprintf("%s calificó %s con %d/5: %q", event.AuthorName, place, event.Rating, event.Comment),
		}
	default:
		return Message{}, false
	}

	if strings.TrimSpace(msg.To) == "" {
		return Message{}, false
	}
	return msg, true
}
