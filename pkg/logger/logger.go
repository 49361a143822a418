package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
	PanicLevel = zapcore.PanicLevel
	FatalLevel = zapcore.FatalLevel
)

// Logger 基于zap的日志实现，级别可在运行时调整
type Logger struct {
	l      *zap.Logger
	al     zap.AtomicLevel
	closer io.Closer
}

func New(out io.Writer, level Level, opts ...Option) *Logger {
	if out == nil {
		out = os.Stderr
	}

	al := zap.NewAtomicLevelAt(level)
	core := zapcore.NewCore(
		GetEncoder(),
		zapcore.AddSync(out),
		al,
	)
	return &Logger{l: zap.New(core, opts...), al: al}
}

// NewNop 返回丢弃所有输出的日志器
func NewNop() *Logger {
	return &Logger{l: zap.NewNop(), al: zap.NewAtomicLevel()}
}

// GetEncoder 自定义Encoder
func GetEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(
		zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller_line",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    cEncodeLevel,
			EncodeTime:     cEncodeTime,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   cEncodeCaller,
			EncodeName:     cEncodeName,
		})
}

// 自定义日志级别显示
func cEncodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

const defaultTimeFormat = "2006-01-02 15:04:05"

// 自定义时间格式显示
func cEncodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format(defaultTimeFormat) + "]")
}

// 自定义行号显示
func cEncodeCaller(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + caller.TrimmedPath() + "]")
}

func cEncodeName(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("<" + name + ">")
}

// ParseLevel 解析配置中的级别字符串，空串视为 info
func ParseLevel(s string) (Level, error) {
	if strings.TrimSpace(s) == "" {
		return InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return InfoLevel, fmt.Errorf("logger: %w", err)
	}
	return lvl, nil
}

func (l *Logger) SetLevel(level Level) {
	l.al.SetLevel(level)
}

func (l *Logger) Level() Level {
	return l.al.Level()
}

// Enabled 判断级别是否会输出，用于避免构造昂贵的字段
func (l *Logger) Enabled(level Level) bool {
	return l.l.Core().Enabled(level)
}

// With 返回携带固定字段的子日志器，共享级别
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{l: l.l.With(fields...), al: l.al}
}

// Named 返回带名称的子日志器
func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), al: l.al}
}

// Zap 暴露底层 zap.Logger
func (l *Logger) Zap() *zap.Logger {
	return l.l
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.l.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.l.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.l.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.l.Error(msg, fields...)
}

func (l *Logger) Panic(msg string, fields ...Field) {
	l.l.Panic(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...Field) {
	l.l.Fatal(msg, fields...)
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

// Close 刷新缓冲并关闭文件输出，子日志器不持有输出
func (l *Logger) Close() error {
	_ = l.l.Sync()
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.l.Debug(fmt.Sprintf(format, v...))
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.l.Info(fmt.Sprintf(format, v...))
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.l.Warn(fmt.Sprintf(format, v...))
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.l.Error(fmt.Sprintf(format, v...))
}

var std = New(os.Stderr, InfoLevel, AddCaller(), AddCallerSkip(1))

func Default() *Logger         { return std }
func ReplaceDefault(l *Logger) { std = l }

func SetLevel(level Level) { std.SetLevel(level) }

func Debug(msg string, fields ...Field) { std.Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { std.Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { std.Warn(msg, fields...) }
func Error(msg string, fields ...Field) { std.Error(msg, fields...) }

func Debugf(format string, v ...interface{}) { std.Debugf(format, v...) }
func Infof(format string, v ...interface{})  { std.Infof(format, v...) }
func Warnf(format string, v ...interface{})  { std.Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { std.Errorf(format, v...) }

func Sync() error { return std.Sync() }
