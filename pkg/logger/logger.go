package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log - глобальный логгер приложения.
// Инициализируется один раз в main.go через Init().
var Log *logrus.Logger

// Init настраивает глобальный логгер из переменных окружения.
func Init() {
	Log = logrus.New()

	// Уровень логирования. По умолчанию "info", для отладки - "debug".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// Форматтер: "json" для продакшена и сбора логов, текст для разработки.
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Component возвращает entry с проставленным полем "component".
// Пакеты, которые логируют регулярно (bridge, server, journal),
// берут свой entry через эту функцию.
func Component(name string) *logrus.Entry {
	if Log == nil {
		// Тесты и утилиты могут логировать до вызова Init в main.
		Init()
	}
	return Log.WithField("component", name)
}
