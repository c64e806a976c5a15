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
	err := New(ErrCodeTypeMismatch, "block not allowed here")
	suite.NotNil(err)
	suite.Equal(ErrCodeTypeMismatch, err.Code)
	suite.Equal("block not allowed here", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeUnknownType, "type %q inconnu", "super_block")
	suite.NotNil(err)
	suite.Equal(ErrCodeUnknownType, err.Code)
	suite.Equal(`type "super_block" inconnu`, err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeParseError, "failed to parse YAML", cause)
	suite.NotNil(err)
	suite.Equal(ErrCodeParseError, err.Code)
	suite.Equal("failed to parse YAML", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("underlying error")
	err := Wrapf(ErrCodeImportFailed, cause, "failed to import file %q", "strategy.yaml")
	suite.NotNil(err)
	suite.Equal(ErrCodeImportFailed, err.Code)
	suite.Equal(`failed to import file "strategy.yaml"`, err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeTypeMismatch, "block not allowed here")
	suite.Equal("[101] block not allowed here", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetworkError, "save transport failed", cause)
	suite.Equal("[300] save transport failed: underlying error", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeParseError, "failed to parse YAML", cause)
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestUnwrapNil() {
	err := New(ErrCodeTypeMismatch, "block not allowed here")
	suite.Nil(err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	err := New(ErrCodeEmptyClipboard, "nothing to paste")
	suite.Equal(ErrCodeEmptyClipboard, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeServerError, "server rejected the strategy")
	err := fmt.Errorf("save failed: %w", cause)
	suite.Equal(ErrCodeServerError, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeUnknown() {
	err := errors.New("plain error")
	suite.Equal(ErrCodeUnknown, GetCode(err))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeSaveBlocked, "document is invalid")
	suite.True(HasCode(err, ErrCodeSaveBlocked))
	suite.False(HasCode(err, ErrCodeNetworkError))
}

func (suite *ErrorTestSuite) TestPathError() {
	err := NewPathError("Condition #2 > Logique > Bloc 1", "champ requis manquant")
	suite.Equal("Condition #2 > Logique > Bloc 1 — champ requis manquant", err.Error())
	suite.True(IsPathError(err))
}

func (suite *ErrorTestSuite) TestPathErrorf() {
	err := NewPathErrorf("Action #1", "type %q inconnu", "warp")
	suite.Equal(`Action #1 — type "warp" inconnu`, err.Error())
}

func (suite *ErrorTestSuite) TestPathErrorWithoutPath() {
	err := NewPathError("", "Ajoutez au moins une condition.")
	suite.Equal("Ajoutez au moins une condition.", err.Error())
}

func (suite *ErrorTestSuite) TestIsPathErrorWrapped() {
	cause := NewPathError("Condition #1", "valeur invalide")
	err := fmt.Errorf("validation: %w", cause)
	suite.True(IsPathError(err))
	suite.False(IsPathError(errors.New("plain error")))
}
