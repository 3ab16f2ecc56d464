package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds. Every *Error unwraps to exactly one of them.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)

type Reason string

const (
	ReasonPlaceNotFound     Reason = "PLACE_NOT_FOUND"
	ReasonUserNotFound      Reason = "USER_NOT_FOUND"
	ReasonBookingNotFound   Reason = "BOOKING_NOT_FOUND"
	ReasonCommentNotFound   Reason = "COMMENT_NOT_FOUND"
	ReasonPlaceUnavailable  Reason = "PLACE_UNAVAILABLE"
	ReasonPastDates         Reason = "PAST_DATES"
	ReasonMinimumNights     Reason = "MINIMUM_ONE_NIGHT"
	ReasonGuestCount        Reason = "GUEST_COUNT"
	ReasonCapacityExceeded  Reason = "CAPACITY_EXCEEDED"
	ReasonOverlap           Reason = "DATES_UNAVAILABLE"
	ReasonRequestInProgress Reason = "REQUEST_IN_PROGRESS"
	ReasonInvalidState      Reason = "INVALID_STATE"
	ReasonCancelWindow      Reason = "CANCELLATION_WINDOW"
	ReasonNotGuest          Reason = "NOT_BOOKING_GUEST"
	ReasonNotHost           Reason = "NOT_PLACE_HOST"
	ReasonInvalidPage       Reason = "INVALID_PAGE"
	ReasonInvalidRange      Reason = "INVALID_RANGE"
	ReasonFutureBookings    Reason = "FUTURE_BOOKINGS"
	ReasonDuplicateComment  Reason = "DUPLICATE_COMMENT"
	ReasonInvalidRating     Reason = "INVALID_RATING"
	ReasonEmptyText         Reason = "EMPTY_TEXT"
)

// Error is a business-rule failure. Message is the client-facing text.
type Error struct {
	Kind    error
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NotFound(reason Reason, msg string) *Error {
	return &Error{Kind: ErrNotFound, Reason: reason, Message: msg}
}

func Invalid(reason Reason, msg string) *Error {
	return &Error{Kind: ErrValidation, Reason: reason, Message: msg}
}

func Forbidden(reason Reason, msg string) *Error {
	return &Error{Kind: ErrForbidden, Reason: reason, Message: msg}
}

var (
	ErrPlaceNotFound   = NotFound(ReasonPlaceNotFound, "Alojamiento no encontrado")
	ErrUserNotFound    = NotFound(ReasonUserNotFound, "Usuario no encontrado")
	ErrBookingNotFound = NotFound(ReasonBookingNotFound, "Reserva no encontrada")
	ErrCommentNotFound = NotFound(ReasonCommentNotFound, "Comentario no encontrado")

	ErrPlaceUnavailable  = Invalid(ReasonPlaceUnavailable, "El alojamiento no está disponible para reservas")
	ErrPastDates         = Invalid(ReasonPastDates, "No se pueden reservar fechas pasadas")
	ErrMinimumOneNight   = Invalid(ReasonMinimumNights, "La reserva debe ser mínimo de una noche")
	ErrGuestCount        = Invalid(ReasonGuestCount, "Debe haber al menos un huésped")
	ErrCapacityExceeded  = Invalid(ReasonCapacityExceeded, "No se puede superar la capacidad máxima")
	ErrDatesUnavailable  = Invalid(ReasonOverlap, "El alojamiento no está disponible en esas fechas")
	ErrRequestInProgress = Invalid(ReasonRequestInProgress, "Ya hay una solicitud de reserva en curso para este alojamiento")

	ErrApproveNotPending  = Invalid(ReasonInvalidState, "Solo reservas pendientes pueden ser aprobadas")
	ErrRejectNotPending   = Invalid(ReasonInvalidState, "Solo reservas pendientes pueden ser rechazadas")
	ErrCancelState        = Invalid(ReasonInvalidState, "Solo reservas pendientes o confirmadas pueden ser canceladas")
	ErrCompleteState      = Invalid(ReasonInvalidState, "Solo reservas confirmadas pueden ser completadas")
	ErrCancellationWindow = CancellationWindowError(48 * time.Hour)

	ErrCancelNotGuest     = Forbidden(ReasonNotGuest, "No puedes cancelar reservas de otros usuarios")
	ErrApproveNotHost     = Forbidden(ReasonNotHost, "Solo el anfitrión puede aprobar la reserva")
	ErrRejectNotHost      = Forbidden(ReasonNotHost, "Solo el anfitrión puede rechazar la reserva")
	ErrCompleteNotHost    = Forbidden(ReasonNotHost, "Solo el anfitrión puede completar la reserva")
	ErrListNotHost        = Forbidden(ReasonNotHost, "Solo el anfitrión puede ver las reservas de su alojamiento")
	ErrDeletePlaceNotHost = Forbidden(ReasonNotHost, "Solo el anfitrión puede eliminar este alojamiento")
	ErrCommentNotGuest    = Forbidden(ReasonNotGuest, "Solo puedes comentar tus reservas")
	ErrReplyNotHost       = Forbidden(ReasonNotHost, "Solo el anfitrión puede responder este comentario")

	ErrPageSize   = Invalid(ReasonInvalidPage, "El tamaño de página debe ser mayor que cero")
	ErrPageNumber = Invalid(ReasonInvalidPage, "El número de página no puede ser negativo")
	ErrDateRange  = Invalid(ReasonInvalidRange, "El rango de fechas no es válido")
	ErrPriceRange = Invalid(ReasonInvalidRange, "El rango de precios no es válido")
	ErrHasFuture  = Invalid(ReasonFutureBookings, "No puedes eliminar el alojamiento porque tiene reservas futuras")

	ErrCommentNotCompleted = Invalid(ReasonInvalidState, "Solo puedes comentar reservas completadas")
	ErrDuplicateComment    = Invalid(ReasonDuplicateComment, "Solo puedes dejar un comentario por reserva")
	ErrInvalidRating       = Invalid(ReasonInvalidRating, "La calificación debe estar entre 1 y 5")
	ErrEmptyComment        = Invalid(ReasonEmptyText, "El comentario no puede estar vacío")
	ErrCommentTooLong      = Invalid(ReasonEmptyText, "El comentario no puede superar los 500 caracteres")
	ErrEmptyReply          = Invalid(ReasonEmptyText, "La respuesta no puede estar vacía")
)

// CancellationWindowError reports a cancellation attempted inside window before check-in.
func CancellationWindowError(window time.Duration) *Error {
	return Invalid(ReasonCancelWindow, fmt.Sprintf("Solo puedes cancelar reservas hasta %d horas antes del check-in", int(window.Hours())))
}
