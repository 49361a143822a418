package logger

import "go.uber.org/zap"

type Field = zap.Field

var (
	String     = zap.String
	ByteString = zap.ByteString
	Int        = zap.Int
	Int64      = zap.Int64
	Uint64     = zap.Uint64
	Bool       = zap.Bool
	Duration   = zap.Duration
	Any        = zap.Any
	Stringer   = zap.Stringer
	Err        = zap.Error
	Stack      = zap.Stack
)

func GetError(e error) Field {
	return zap.Error(e)
}
