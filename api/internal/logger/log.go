package logger

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	log  *logrus.Logger
	once sync.Once
)

type Fields = logrus.Fields

// New инициализирует общий логгер процесса: stderr + ротация файла.
// В тестовом окружении файл не пишем.
func New() *logrus.Logger {
	once.Do(func() {
		log = logrus.New()

		level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
		if err != nil {
			level = logrus.InfoLevel
		}
		log.SetLevel(level)

		log.SetFormatter(&formatter.Formatter{
			TimestampFormat: "02 Jan 06 - 15:04",
			HideKeys:        false,
			CallerFirst:     true,
			CustomCallerFormatter: func(f *runtime.Frame) string {
				s := strings.Split(f.Function, ".")
				funcName := s[len(s)-1]
				return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
			},
		})

		writers := []io.Writer{os.Stderr}
		if os.Getenv("APP_ENV") != "test" {
			writers = append(writers, &lumberjack.Logger{
				Filename:   fmt.Sprintf("./storage/logs/app-%s.log", time.Now().Format("2006-01-02")),
				LocalTime:  true,
				Compress:   true,
				MaxSize:    100,
				MaxAge:     7,
				MaxBackups: 3,
			})
		}
		log.SetOutput(io.MultiWriter(writers...))
		log.SetReportCaller(true)
	})

	return log
}

func Debug(msg string, fields Fields) { entry(fields).Debug(msg) }
func Info(msg string, fields Fields)  { entry(fields).Info(msg) }
func Warn(msg string, fields Fields)  { entry(fields).Warn(msg) }
func Error(msg string, fields Fields) { entry(fields).Error(msg) }
func Fatal(msg string, fields Fields) { entry(fields).Fatal(msg) }

func entry(fields Fields) *logrus.Entry {
	if fields == nil {
		fields = Fields{}
	}
	return New().WithFields(fields)
}
