package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// OrderParseError represents an error parsing a wire-level order line.
	OrderParseError ErrorCode = "order_parse_error"
	// OrderRejectedError represents an order rejected before reaching the engine.
	OrderRejectedError ErrorCode = "order_rejected_error"

	// TradePublishError represents an error publishing a trade downstream.
	TradePublishError ErrorCode = "trade_publish_error"
	// TradeLogError represents an error appending to the trade log.
	TradeLogError ErrorCode = "trade_log_error"

	// ConfigError represents an invalid or unreadable configuration.
	ConfigError ErrorCode = "config_error"
)

// String returns the error code as a plain string.
func (c ErrorCode) String() string {
	return string(c)
}
