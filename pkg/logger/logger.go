package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init он пишет в stderr с уровнем warn, поэтому пакеты и тесты
// могут логировать без обязательной инициализации.
var Log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// Init инициализирует глобальный логгер из окружения.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	InitWith(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stdout)
}

// InitWith настраивает логгер явно (уровень, формат, вывод).
// Неизвестный уровень превращается в info.
func InitWith(levelName, format string, out io.Writer) {
	l := logrus.New()

	if levelName == "" {
		levelName = "info"
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	// "json" - для продакшена и сбора логов, "text" - для разработки.
	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	l.SetOutput(out)
	Log = l
}

// Component returns an entry pre-tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
