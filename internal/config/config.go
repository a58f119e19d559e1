// Package config builds runtime settings from flags, the environment and an
// optional .env file, and sets up logging from them.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	DefaultAddr     = ":2222"
	DefaultHostKey  = "host_key"
	DefaultLogLevel = "info"

	// DefaultLocalLogFile is where the local program logs, since it owns the terminal.
	DefaultLocalLogFile = "pixel-art-map-local.log"
)

// Config holds settings shared by both programs.
type Config struct {
	Addr     string
	HostKey  string
	LogLevel string
	LogFile  string
	Mute     bool
}

// LoadEnv reads .env from the working directory if present.
func LoadEnv() {
	_ = godotenv.Load(".env")
}

// ServerFlags returns the flags of the SSH server.
func ServerFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			EnvVars: []string{"PIXELMAP_ADDR"},
			Value:   DefaultAddr,
			Usage:   "listen address; PORT overrides the port",
		},
		&cli.StringFlag{
			Name:    "host-key",
			EnvVars: []string{"PIXELMAP_HOST_KEY"},
			Value:   DefaultHostKey,
			Usage:   "path to the SSH host key, generated when missing",
		},
	}, logFlags("")...)
}

// LocalFlags returns the flags of the local terminal program.
func LocalFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.BoolFlag{
			Name:    "mute",
			EnvVars: []string{"PIXELMAP_MUTE"},
			Usage:   "do not play a chime on save",
		},
	}, logFlags(DefaultLocalLogFile)...)
}

func logFlags(defaultFile string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			EnvVars: []string{"PIXELMAP_LOG_LEVEL"},
			Value:   DefaultLogLevel,
			Usage:   "panic, fatal, error, warn, info, debug or trace",
		},
		&cli.StringFlag{
			Name:    "log-file",
			EnvVars: []string{"PIXELMAP_LOG_FILE"},
			Value:   defaultFile,
			Usage:   "write logs to a rotating file instead of stderr",
		},
	}
}

// FromContext reads the parsed flags. Flags a program does not define stay
// at their zero value.
func FromContext(c *cli.Context) Config {
	cfg := Config{
		Addr:     c.String("addr"),
		HostKey:  c.String("host-key"),
		LogLevel: c.String("log-level"),
		LogFile:  c.String("log-file"),
		Mute:     c.Bool("mute"),
	}
	if port := os.Getenv("PORT"); port != "" && cfg.Addr != "" {
		cfg.Addr = ":" + port
	}
	return cfg
}

// NewLogger builds the process logger. When LogFile is set, output goes to a
// rotating file; otherwise to stderr.
func NewLogger(cfg Config) (*logrus.Logger, error) {
	level := cfg.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var out io.Writer = os.Stderr
	if cfg.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log, nil
}
