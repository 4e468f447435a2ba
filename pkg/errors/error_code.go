package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Configuration errors (100-199). These are fatal and abort startup
	// before the run loop begins.
	ErrCodeInvalidConfiguration ErrorCode = 100
	ErrCodeMissingBarFile       ErrorCode = 101
	ErrCodeInvalidBarFile       ErrorCode = 102
	ErrCodeInvalidParameter     ErrorCode = 103
	ErrCodeNoSymbols            ErrorCode = 104
	ErrCodeInvalidSignal        ErrorCode = 105
	ErrCodeInvalidOrder         ErrorCode = 106
	ErrCodeInvalidFill          ErrorCode = 107

	// Lookup errors (200-299). Surfaced to the caller at runtime, never
	// retried, not fatal to the whole run.
	ErrCodeSymbolNotFound ErrorCode = 200
	ErrCodeInvalidField   ErrorCode = 201
	ErrCodeNoBars         ErrorCode = 202

	// Strategy errors (400-499)
	ErrCodeStrategyConfigError  ErrorCode = 400
	ErrCodeUnsupportedStrategy  ErrorCode = 401
	ErrCodeStrategyRuntimeError ErrorCode = 402

	// Execution and broker errors (500-599). Logged and non-fatal to the
	// run loop; no retry or backoff is performed.
	ErrCodeOrderRejected       ErrorCode = 500
	ErrCodeBrokerSession       ErrorCode = 501
	ErrCodeUnknownOrderID      ErrorCode = 502
	ErrCodeUnsupportedExchange ErrorCode = 503

	// Backtest errors (600-699)
	ErrCodeBacktestNotInitialized ErrorCode = 600
	ErrCodeBacktestNoStrategy     ErrorCode = 601
	ErrCodeBacktestNoDataHandler  ErrorCode = 602
	ErrCodeBacktestFinalizeFailed ErrorCode = 603
	ErrCodeBacktestAlreadyRun     ErrorCode = 604
	ErrCodeBacktestCanceled       ErrorCode = 605

	// Reference data errors (700-799)
	ErrCodeRefDataStoreFailed ErrorCode = 700
	ErrCodeRefDataQueryFailed ErrorCode = 701
)
