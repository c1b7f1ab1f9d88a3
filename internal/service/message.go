package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/domain"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/notifier"
	"github.com/mukesh2644009/darshan-style-hub-sub000/internal/repository"
	apperrors "github.com/mukesh2644009/darshan-style-hub-sub000/pkg/errors"
	"github.com/mukesh2644009/darshan-style-hub-sub000/pkg/pagination"
)

// maxMessageLength caps the contact form body.
const maxMessageLength = 5000

// MessageService implements the contact form and its admin inbox.
type MessageService struct {
	messageRepo repository.MessageRepository
	senders     []notifier.Sender
	ownerEmail  string
	logger      *slog.Logger
}

// NewMessageService creates a new message service.
func NewMessageService(
	messageRepo repository.MessageRepository,
	senders []notifier.Sender,
	ownerEmail string,
	logger *slog.Logger,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		senders:     senders,
		ownerEmail:  ownerEmail,
		logger:      logger,
	}
}

// SubmitInput holds a contact form submission.
type SubmitInput struct {
	Name  string
	Email string
	Phone string
	Body  string
}

// Submit stores a contact message and alerts the store owner.
func (s *MessageService) Submit(ctx context.Context, input SubmitInput) (*domain.Message, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Body == "" {
		return nil, apperrors.InvalidInput("message is required")
	}
	if len(input.Body) > maxMessageLength {
		return nil, apperrors.InvalidInput("message is too long")
	}

	msg := &domain.Message{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
		Body:  input.Body,
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	for _, sender := range s.senders {
		if err := sender.Send(ctx, &notifier.Notification{
			Recipient: s.ownerEmail,
			Subject:   "New enquiry from " + msg.Name,
			Body:      fmt.Sprintf("From: %s <%s> %s\n\n%s", msg.Name, msg.Email, msg.Phone, msg.Body),
		}); err != nil {
			s.logger.WarnContext(ctx, "contact notification failed",
				slog.String("sender", sender.Name()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "contact message received",
		slog.String("message_id", msg.ID),
	)

	return msg, nil
}

// List returns messages for the admin inbox.
func (s *MessageService) List(ctx context.Context, unreadOnly bool, params pagination.Params) ([]domain.Message, int, error) {
	messages, total, err := s.messageRepo.List(ctx, unreadOnly, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}
	return messages, total, nil
}

// MarkRead flags a message as handled.
func (s *MessageService) MarkRead(ctx context.Context, id string) error {
	if err := s.messageRepo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id string) error {
	if err := s.messageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
