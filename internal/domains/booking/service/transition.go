package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"boatbook/internal/domains/booking/model"
	notificationModel "boatbook/internal/domains/notification/model"
	notificationDto "boatbook/internal/domains/notification/model/dto"
	paymentModel "boatbook/internal/domains/payment/model"
	scheduleModel "boatbook/internal/domains/schedule/model"
	"boatbook/shared"
	"boatbook/shared/constant"
	gModel "boatbook/shared/model"
	"boatbook/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceLength   = 8
)

// change is the target state of one transition.
type change struct {
	bookingStatus string
	paymentStatus string
	paymentMethod string
	transactionID string
}

// applyTx moves a locked booking to the target state. Seats, the booking row
// and the payment row change in the caller's transaction.
func (s *serviceImpl) applyTx(ctx context.Context, tx *sqlx.Tx, booking model.Booking, to change, user string) error {
	switch model.SeatMovement(booking.BookingStatus, to.bookingStatus) {
	case model.SeatsRelease:
		if _, err := s.scheduleRepo.ReleaseTx(ctx, tx, booking.ScheduleID, booking.NumberOfPassengers); err != nil {
			return fmt.Errorf("failed to release seats: %w", err)
		}
	case model.SeatsReserve:
		if _, err := s.scheduleRepo.ReserveTx(ctx, tx, booking.ScheduleID, booking.NumberOfPassengers, scheduleModel.ReopenStatuses); err != nil {
			return err
		}
	}

	now := timezone.Now()

	fields := map[string]any{
		model.FieldBookingStatus: to.bookingStatus,
		model.FieldPaymentStatus: to.paymentStatus,
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if to.paymentMethod != constant.Empty {
		fields[model.FieldPaymentMethod] = to.paymentMethod
	}

	filter := shared.FilterByID(booking.ID, model.FieldID, model.TableName)
	if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if to.paymentStatus == booking.PaymentStatus && to.transactionID == constant.Empty {
		return nil
	}

	payment := map[string]any{
		paymentModel.FieldStatus: paymentStatusOf(to.paymentStatus),
		constant.FieldModifiedAt: now,
		constant.FieldModifiedBy: user,
	}

	if to.paymentMethod != constant.Empty {
		payment[paymentModel.FieldPaymentMethod] = to.paymentMethod
	}

	if to.transactionID != constant.Empty {
		payment[paymentModel.FieldTransactionID] = to.transactionID
	}

	if to.paymentStatus == model.PaymentPaid {
		payment[paymentModel.FieldPaymentDate] = now
	}

	paymentFilter := shared.FilterByID(booking.ID, paymentModel.FieldBookingID, paymentModel.TableName)
	if err := s.paymentRepo.UpdateTx(ctx, tx, payment, paymentFilter); err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}

	return nil
}

// paymentStatusOf maps a booking payment status onto the payment row vocabulary.
func paymentStatusOf(status string) string {
	switch status {
	case model.PaymentPaid:
		return paymentModel.StatusCompleted
	case model.PaymentFailed:
		return paymentModel.StatusFailed
	case model.PaymentRefunded:
		return paymentModel.StatusRefunded
	default:
		return paymentModel.StatusPending
	}
}

func newPayment(booking model.Booking, user string) paymentModel.Payment {
	return paymentModel.Payment{
		ID:            uuid.NewString(),
		BookingID:     booking.ID,
		Amount:        booking.TotalAmount,
		PaymentMethod: booking.PaymentMethod,
		Status:        paymentModel.StatusPending,
		Metadata:      gModel.NewMetadata(user, timezone.Now()),
	}
}

// newReferenceCode returns prefix followed by 8 random uppercase alphanumerics.
func newReferenceCode(prefix string) (string, error) {
	code := make([]byte, referenceLength)
	size := big.NewInt(int64(len(referenceAlphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return constant.Empty, errors.Wrap(err, "failed to generate reference code")
		}

		code[i] = referenceAlphabet[n.Int64()]
	}

	return prefix + string(code), nil
}

// notify enqueues after the transition committed. Failures are only logged.
func (s *serviceImpl) notify(ctx context.Context, req notificationDto.EnqueueRequest) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.notification.Enqueue(c, req); err != nil {
			log.Error().Err(err).Str("user_id", req.UserID).Msg("failed to notify booking change")
		}
	}()
}

func createdNotification(booking model.Booking) notificationDto.EnqueueRequest {
	next := "Please complete payment to confirm your booking."
	if booking.PaymentMethod == model.MethodCash {
		next = "Please pay cash on arrival."
	}

	return notificationDto.EnqueueRequest{
		UserID:  booking.UserID,
		Title:   "Booking Created",
		Message: fmt.Sprintf("Your booking %s has been created successfully. %s", booking.ReferenceCode, next),
		Type:    notificationModel.TypeBooking,
	}
}

// statusNotification picks the text by the target booking status.
func statusNotification(booking model.Booking, bookingStatus, paymentStatus string) notificationDto.EnqueueRequest {
	req := notificationDto.EnqueueRequest{UserID: booking.UserID, Type: notificationModel.TypeBooking}

	switch {
	case bookingStatus == booking.BookingStatus:
		req.Title = "Booking Updated"
		req.Message = fmt.Sprintf("Booking %s status is now %s/%s.", booking.ReferenceCode, bookingStatus, paymentStatus)
	case bookingStatus == model.StatusConfirmed:
		req.Title = "Booking Confirmed"
		req.Message = fmt.Sprintf("Your booking %s for %q has been confirmed!", booking.ReferenceCode, booking.TripTitle)
	case bookingStatus == model.StatusCancelled:
		req.Title = "Booking Cancelled"
		req.Message = fmt.Sprintf("Booking %s has been cancelled successfully.", booking.ReferenceCode)
	case bookingStatus == model.StatusCompleted:
		req.Title = "Booking Completed"
		req.Message = fmt.Sprintf("Your booking %s for %q has been completed. Thank you for sailing with us!", booking.ReferenceCode, booking.TripTitle)
	default:
		req.Title = "Booking Updated"
		req.Message = fmt.Sprintf("Booking %s status is now %s/%s.", booking.ReferenceCode, bookingStatus, paymentStatus)
	}

	return req
}

func paymentNotification(booking model.Booking, transactionID string) notificationDto.EnqueueRequest {
	return notificationDto.EnqueueRequest{
		UserID:  booking.UserID,
		Title:   "Payment Successful",
		Message: fmt.Sprintf("Payment for booking %s has been processed successfully. Transaction ID: %s", booking.ReferenceCode, transactionID),
		Type:    notificationModel.TypePayment,
	}
}

func paymentFailedNotification(booking model.Booking) notificationDto.EnqueueRequest {
	return notificationDto.EnqueueRequest{
		UserID:  booking.UserID,
		Title:   "Payment Failed",
		Message: fmt.Sprintf("Payment for booking %s was declined. Please try again.", booking.ReferenceCode),
		Type:    notificationModel.TypePayment,
	}
}
