package errors

// Outcome taxonomy for the ingestion pipeline. MethodNotAllowed and
// Unauthorized are detected explicitly; everything else collapses into
// InternalError at the handler boundary. The constants double as metric
// labels.
const (
	OutcomeMethodNotAllowed = "method_not_allowed"
	OutcomeUnauthorized     = "unauthorized"
	OutcomeBodyTooLarge     = "body_too_large"
	OutcomeInternalError    = "internal_error"
)

// Response messages. Internal failure detail is logged for operators but
// never echoed to the caller.
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgInvalidToken     = "Invalid HOTTOK"
	MsgBodyTooLarge     = "Request body too large"
	MsgInternalError    = "Internal error"
	MsgNotFound         = "Not found"
)

// Response is the JSON envelope for every webhook endpoint reply.
type Response struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// Success builds the 200 envelope carrying the idempotency key.
func Success(id string) Response {
	return Response{OK: true, ID: id}
}

// Failure builds an error envelope with a caller-safe message.
func Failure(msg string) Response {
	return Response{OK: false, Error: msg}
}
