/*
Package errs provides the application's custom error type and business error
code constants.

These codes identify specific failures both in server logs and in error frames
sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrRateLimitExceeded indicates that the request rate exceeded the limit.
	ErrRateLimitExceeded = 1002
)

// 2xxx: Envelope and Content Errors
const (
	// ErrMalformedEnvelope indicates the client sent an unparseable envelope.
	ErrMalformedEnvelope = 2001

	// ErrUnsupportedEnvelopeType indicates an envelope with an unknown type field.
	ErrUnsupportedEnvelopeType = 2002

	// ErrMessageContentTooLong indicates content exceeding the size limit.
	ErrMessageContentTooLong = 2003
)

// 3xxx: Session Errors
const (
	// ErrSessionSuperseded indicates the connection was replaced by a newer
	// connection claiming the same identity.
	ErrSessionSuperseded = 3001
)

// 4xxx: AI Query Errors
const (
	// ErrAIQuotaExceeded indicates the identity has used up its AI queries.
	ErrAIQuotaExceeded = 4001

	// ErrAIServiceFailure indicates the completion service call failed.
	ErrAIServiceFailure = 4002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000
)
