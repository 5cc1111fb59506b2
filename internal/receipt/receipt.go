package receipt

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/frahmantamala/course-platform/internal"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	transactionDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/transaction"
	"github.com/frahmantamala/course-platform/internal/signing"
)

// Receipt is the shareable purchase record. It carries no payment
// credentials; the token in the URL is the only authorization.
type Receipt struct {
	TransactionID int64     `json:"transactionId"`
	OrderID       string    `json:"orderId"`
	PaymentID     string    `json:"paymentId"`
	CourseTitle   string    `json:"courseTitle"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	PurchasedAt   time.Time `json:"purchasedAt"`
}

type RepositoryAPI interface {
	GetTransaction(id int64) (*transactionDatamodel.Transaction, error)
	GetCourse(id int64) (*courseDatamodel.Course, error)
}

type Service struct {
	repo   RepositoryAPI
	secret string
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, secret string, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		secret: secret,
		logger: logger,
	}
}

// TokenFor derives the access token embedded in receipt links.
func (s *Service) TokenFor(transactionID int64, orderID string) string {
	return signing.ReceiptToken(s.secret, transactionID, orderID)
}

// GetReceipt validates the token against the stored transaction before
// returning anything. A wrong token and a missing transaction are
// indistinguishable to the caller.
func (s *Service) GetReceipt(ctx context.Context, transactionID int64, token string) (*Receipt, error) {
	txn, err := s.repo.GetTransaction(transactionID)
	if err != nil {
		s.logger.Warn("receipt lookup for unknown transaction", "transaction_id", transactionID)
		return nil, errors.ErrTransactionNotFound
	}

	if !signing.VerifyReceiptToken(s.secret, transactionID, txn.OrderID, token) {
		s.logger.Warn("receipt token mismatch", "transaction_id", transactionID)
		return nil, errors.ErrTransactionNotFound
	}

	if txn.Status != transactionDatamodel.StatusSuccess {
		s.logger.Warn("receipt requested for non-successful transaction",
			"transaction_id", transactionID,
			"status", txn.Status)
		return nil, errors.ErrTransactionNotFound
	}

	courseTitle := ""
	if c, err := s.repo.GetCourse(txn.CourseID); err == nil {
		courseTitle = c.Title
	}

	return &Receipt{
		TransactionID: txn.ID,
		OrderID:       txn.OrderID,
		PaymentID:     txn.PaymentID,
		CourseTitle:   courseTitle,
		Amount:        txn.Amount,
		Currency:      txn.Currency,
		PurchasedAt:   txn.CreatedAt,
	}, nil
}
