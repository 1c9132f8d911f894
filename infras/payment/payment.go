package payment

//go:generate go run go.uber.org/mock/mockgen -source=./payment.go -destination=./mocks/payment_mock.go -package=mocks

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"boatbook/infras/otel"
	"boatbook/shared/constant"
	"boatbook/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	otelScopeName = "payment"

	transactionPrefix    = "TXN"
	transactionSuffixLen = 9
	base36               = "0123456789abcdefghijklmnopqrstuvwxyz"
)

type ChargeRequest struct {
	BookingID     string
	ReferenceCode string
	Amount        float64
	Method        string
}

type ChargeResult struct {
	Approved      bool
	TransactionID string
	Reason        string
}

type RefundRequest struct {
	BookingID     string
	TransactionID string
	Amount        float64
	Reason        string
}

// Gateway charges a booking amount. A declined charge is a result, not an error.
// Charge runs while the booking row is locked; when the approved charge cannot be
// recorded the caller must Refund it.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	Refund(ctx context.Context, req RefundRequest) error
}

type gatewayImpl struct {
	otel otel.Otel
}

// New returns the built-in gateway, which approves every charge.
func New(otel otel.Otel) Gateway {
	return &gatewayImpl{otel: otel}
}

func (g *gatewayImpl) Charge(ctx context.Context, req ChargeRequest) (res ChargeResult, err error) {
	_, scope := g.otel.NewScope(ctx, otelScopeName, otelScopeName+".Charge")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("payment.booking_id", req.BookingID)

	id, err := TransactionID()
	if err != nil {
		log.Error().Err(err).Str("booking_id", req.BookingID).Msg("failed to issue transaction id")

		return res, err
	}

	log.Info().
		Str("booking_id", req.BookingID).
		Str("reference", req.ReferenceCode).
		Float64("amount", req.Amount).
		Str("transaction_id", id).
		Msg("payment approved")

	return ChargeResult{Approved: true, TransactionID: id}, nil
}

// Refund voids an approved charge. The built-in gateway holds no funds, so it only logs.
func (g *gatewayImpl) Refund(ctx context.Context, req RefundRequest) (err error) {
	_, scope := g.otel.NewScope(ctx, otelScopeName, otelScopeName+".Refund")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("payment.booking_id", req.BookingID)
	scope.SetAttribute("payment.transaction_id", req.TransactionID)

	log.Warn().
		Str("booking_id", req.BookingID).
		Str("transaction_id", req.TransactionID).
		Float64("amount", req.Amount).
		Str("reason", req.Reason).
		Msg("payment refunded")

	return nil
}

// TransactionID returns "TXN" + unix millis + 9 random base36 characters.
func TransactionID() (string, error) {
	var builder strings.Builder

	fmt.Fprintf(&builder, "%s%d", transactionPrefix, timezone.Now().UnixMilli())

	limit := big.NewInt(int64(len(base36)))

	for range transactionSuffixLen {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return constant.Empty, fmt.Errorf("failed to generate transaction id: %w", err)
		}

		builder.WriteByte(base36[n.Int64()])
	}

	return builder.String(), nil
}
