/*
Package errs provides the application's custom error type and business error
code constants.

This file maps each error code to its CustomError template.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Envelope and Content Errors
	ErrMalformedEnvelope:       {Code: ErrMalformedEnvelope, Message: "Message could not be understood."},
	ErrUnsupportedEnvelopeType: {Code: ErrUnsupportedEnvelopeType, Message: "Unsupported message type."},
	ErrMessageContentTooLong:   {Code: ErrMessageContentTooLong, Message: "Message is too long."},

	// 3xxx: Session Errors
	ErrSessionSuperseded: {Code: ErrSessionSuperseded, Message: "You connected from another tab or device."},

	// 4xxx: AI Query Errors
	ErrAIQuotaExceeded:  {Code: ErrAIQuotaExceeded, Message: "You have reached the AI query limit of %d for this session."},
	ErrAIServiceFailure: {Code: ErrAIServiceFailure, Message: "The AI service could not answer right now. Please try again later."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
