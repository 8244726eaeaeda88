package notify

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Marg0n/CourierAndParcelManagementSystem/internal/models"
)

// EmailService sends parcel lifecycle notifications via SendGrid.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

// NewEmailService returns nil when no API key is configured; a nil service
// is safe to call and sends nothing.
func NewEmailService(apiKey, sender string) *EmailService {
	if apiKey == "" || sender == "" {
		return nil
	}
	return &EmailService{
		client: sendgrid.NewSendClient(apiKey),
		sender: sender,
	}
}

func (s *EmailService) send(toEmail, subject, body string) error {
	if s == nil {
		return nil
	}

	from := mail.NewEmail("Courier Service", s.sender)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("email rejected with status %d", resp.StatusCode)
	}
	return nil
}

// SendAssignmentNotice tells a delivery agent about a newly assigned parcel.
func (s *EmailService) SendAssignmentNotice(agentEmail string, parcel models.Parcel) error {
	subject := "New parcel assigned"
	body := fmt.Sprintf(
		"A parcel has been assigned to you.\nBarcode: %s\nPickup: %s\nDelivery: %s",
		parcel.Barcode,
		parcel.PickupAddress,
		parcel.DeliveryAddress,
	)
	return s.send(agentEmail, subject, body)
}

// SendDeliveryNotice tells the owning customer their parcel reached a
// terminal state.
func (s *EmailService) SendDeliveryNotice(customerEmail string, parcel models.Parcel) error {
	subject := fmt.Sprintf("Parcel %s: %s", parcel.Barcode, parcel.Status)
	body := fmt.Sprintf(
		"Your parcel with barcode %s is now marked %s.\nDelivery address: %s",
		parcel.Barcode,
		parcel.Status,
		parcel.DeliveryAddress,
	)
	return s.send(customerEmail, subject, body)
}
