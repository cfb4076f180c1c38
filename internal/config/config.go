package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Server holds the relay daemon settings.
type Server struct {
	Host           string        `env:"CHAT_HOST,default=127.0.0.1" validate:"required"`
	Port           int           `env:"CHAT_PORT,default=55555" validate:"min=0,max=65535"`
	MetricsAddr    string        `env:"CHAT_METRICS_ADDR,default=:9090"`
	ReadBufferSize int           `env:"CHAT_READ_BUFFER_SIZE,default=1024" validate:"min=1,max=65536"`
	WriteTimeout   time.Duration `env:"CHAT_WRITE_TIMEOUT,default=0s" validate:"gte=0"`
	LogLevel       string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
}

// Addr joins host and port for net.Listen.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Client holds the terminal client settings. An empty nickname means the
// user is prompted for one.
type Client struct {
	ServerAddr     string `env:"CHAT_SERVER_ADDR,default=127.0.0.1:55555" validate:"required,hostname_port"`
	Nickname       string `env:"CHAT_NICKNAME" validate:"max=64"`
	ReadBufferSize int    `env:"CHAT_READ_BUFFER_SIZE,default=1024" validate:"min=1,max=65536"`
	Color          bool   `env:"CHAT_COLOR,default=true"`
	LogLevel       string `env:"LOG_LEVEL,default=WARN" validate:"oneof=DEBUG INFO WARN ERROR"`
}

func LoadServer() (Server, error) {
	var cfg Server
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Server{}, fmt.Errorf("load server config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func LoadClient() (Client, error) {
	var cfg Client
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Client{}, fmt.Errorf("load client config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags of a Server or Client config.
func Validate(cfg any) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
