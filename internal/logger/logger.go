package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// Fields 是 logrus.Fields 的别名，避免调用方直接依赖 logrus。
type Fields = logrus.Fields

// Init 初始化全局日志器。logDir 为空时仅输出到标准错误，不写日志文件。
func Init(logDir, level string) *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()

		parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
		if err != nil {
			parsed = logrus.InfoLevel
		}
		logger.SetLevel(parsed)

		logger.SetFormatter(&formatter.Formatter{
			TimestampFormat: "2006-01-02 15:04:05",
			HideKeys:        false,
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
			},
		})

		writers := []io.Writer{os.Stderr}
		if strings.TrimSpace(logDir) != "" {
			fileWriter := &lumberjack.Logger{
				Filename:   filepath.Join(logDir, fmt.Sprintf("app-%s.log", time.Now().Format("2006-01-02"))),
				LocalTime:  true,
				Compress:   true,
				MaxSize:    100,
				MaxAge:     7,
				MaxBackups: 3,
			}
			writers = append(writers, fileWriter)
		}

		logger.SetOutput(io.MultiWriter(writers...))
		logger.SetReportCaller(true)
	})

	return logger
}

// L 返回全局日志器，未初始化时退回到仅标准错误输出。
func L() *logrus.Logger {
	if logger == nil {
		return Init("", "info")
	}
	return logger
}

// Info 记录一条带字段的 info 日志。
func Info(fields Fields, msg string) {
	L().WithFields(ensure(fields)).Info(msg)
}

// Warn 记录一条带字段的 warn 日志。
func Warn(fields Fields, msg string) {
	L().WithFields(ensure(fields)).Warn(msg)
}

// Error 记录一条带字段的 error 日志。
func Error(fields Fields, msg string) {
	L().WithFields(ensure(fields)).Error(msg)
}

func ensure(fields Fields) Fields {
	if fields == nil {
		return Fields{}
	}
	return fields
}
