package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidConfiguration, "invalid configuration")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidConfiguration, err.Code)
	suite.Equal("invalid configuration", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeSymbolNotFound, "symbol %s not tracked", "AAPL")
	suite.NotNil(err)
	suite.Equal(ErrCodeSymbolNotFound, err.Code)
	suite.Equal("symbol AAPL not tracked", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeMissingBarFile, "failed to open bar file", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeMissingBarFile, err.Code)
	suite.Equal("failed to open bar file", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeMissingBarFile, cause, "failed to open bar file for symbol: %s", "AAPL")
	suite.NotNil(err)
	suite.Equal(ErrCodeMissingBarFile, err.Code)
	suite.Equal("failed to open bar file for symbol: AAPL", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidConfiguration, "invalid configuration")
	suite.Equal("[100] invalid configuration", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeSymbolNotFound, "symbol not tracked", cause)
	suite.Equal("[200] symbol not tracked: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeSymbolNotFound, "symbol not tracked", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeInvalidConfiguration, "invalid configuration")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeInvalidField, "unrecognized bar field")
	suite.Equal(ErrCodeInvalidField, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeSymbolNotFound, "symbol not tracked")
	err := fmt.Errorf("lookup failed: %w", cause)
	suite.Equal(ErrCodeSymbolNotFound, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeUnknown() {
	err := errors.New("plain error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeBrokerSession, "session dropped")
	suite.True(HasCode(err, ErrCodeBrokerSession))
	suite.False(HasCode(err, ErrCodeSymbolNotFound))
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataError(400, 12, "AAPL", "not enough bars for long window")
	suite.Equal(400, err.Required)
	suite.Equal(12, err.Actual)
	suite.Equal("AAPL", err.Symbol)
	suite.Equal("not enough bars for long window", err.Error())
	suite.True(IsInsufficientDataError(err))
}

func (suite *ErrorTestSuite) TestInsufficientDataErrorf() {
	err := NewInsufficientDataErrorf(100, 3, "GOOG", "window needs %d bars, have %d", 100, 3)
	suite.Equal("window needs 100 bars, have 3", err.Error())
}

func (suite *ErrorTestSuite) TestInsufficientDataErrorWrapped() {
	cause := NewInsufficientDataError(100, 3, "GOOG", "short window")
	err := fmt.Errorf("signal calculation: %w", cause)
	suite.True(IsInsufficientDataError(err))
}

func (suite *ErrorTestSuite) TestIsInsufficientDataErrorFalse() {
	err := New(ErrCodeSymbolNotFound, "symbol not tracked")
	suite.False(IsInsufficientDataError(err))
}
