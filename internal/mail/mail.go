package mail

import (
	"context"
	"io"
	"log"

	"falcon-storefront/internal/domain"
)

// Sender delivers transactional mail. Delivery is stubbed: the shipped
// implementation only records what would have been sent.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, to, name string, order domain.Order) error
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, resetToken string) error
}

// LogSender writes each would-be mail to the logger.
type LogSender struct {
	logger *log.Logger
}

func NewLogSender(logger *log.Logger) *LogSender {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendOrderConfirmation(_ context.Context, to, name string, order domain.Order) error {
	s.logger.Printf("mail: order confirmation to=%s name=%q order=%s total=%d items=%d delivery=%s",
		to, name, order.OrderNumber, order.Total, len(order.Items), order.EstimatedDelivery.Format("2006-01-02"))
	return nil
}

func (s *LogSender) SendWelcome(_ context.Context, to, name string) error {
	s.logger.Printf("mail: welcome to=%s name=%q", to, name)
	return nil
}

func (s *LogSender) SendPasswordReset(_ context.Context, to, resetToken string) error {
	s.logger.Printf("mail: password reset to=%s token=%s", to, resetToken)
	return nil
}
