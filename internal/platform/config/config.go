package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

type DBConfig struct {
	Host         string `long:"host" env:"HOST" default:"localhost"`
	Port         string `long:"port" env:"PORT" default:"5432"`
	User         string `long:"user" env:"USER" default:"postgres"`
	Password     string `long:"password" env:"PASSWORD"`
	Name         string `long:"name" env:"NAME" default:"transit_ticket"`
	MaxOpenConns int    `long:"max-open-conns" env:"MAX_OPEN_CONNS" default:"25"`
}

type RedisConfig struct {
	Addr string `long:"addr" env:"ADDR" default:"localhost:6379"`
	DB   int    `long:"db" env:"DB" default:"0"`
}

type JWTConfig struct {
	Secret        string        `long:"secret" env:"SECRET"`
	RefreshSecret string        `long:"refresh-secret" env:"REFRESH_SECRET"`
	TTL           time.Duration `long:"ttl" env:"TTL" default:"15m"`
	RefreshTTL    time.Duration `long:"refresh-ttl" env:"REFRESH_TTL" default:"168h"`
	ResetTTL      time.Duration `long:"reset-ttl" env:"RESET_TTL" default:"1h"`
}

type BookingConfig struct {
	Hold          time.Duration `long:"hold" env:"HOLD" default:"30m"`
	MaxExtensions int           `long:"max-extensions" env:"MAX_EXTENSIONS" default:"3"`
	MaxHold       time.Duration `long:"max-hold" env:"MAX_HOLD" default:"2h"`
}

type SweepConfig struct {
	Interval time.Duration `long:"interval" env:"INTERVAL" default:"1m"`
	Batch    int           `long:"batch" env:"BATCH" default:"100"`
}

type RateLimitConfig struct {
	Requests int           `long:"requests" env:"REQUESTS" default:"100"`
	Window   time.Duration `long:"window" env:"WINDOW" default:"15m"`
}

type VNPayConfig struct {
	TmnCode    string `long:"tmn-code" env:"TMN_CODE"`
	HashSecret string `long:"hash-secret" env:"HASH_SECRET"`
	URL        string `long:"url" env:"URL" default:"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"`
	APIURL     string `long:"api-url" env:"API_URL" default:"https://sandbox.vnpayment.vn/merchant_webapi/api/transaction"`
	ReturnURL  string `long:"return-url" env:"RETURN_URL" default:"http://localhost:8080/api/v1/payments/vnpay/return"`
}

type Config struct {
	HTTPAddr       string `long:"http-addr" env:"HTTP_ADDR" default:":8080"`
	GinMode        string `long:"gin-mode" env:"GIN_MODE" default:"release"`
	LogLevel       string `long:"log-level" env:"LOG_LEVEL" default:"info"`
	DevMode        bool   `long:"dev" env:"DEV_MODE"`
	CORSOrigins    string `long:"cors-allowed-origins" env:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT"`
	TicketQRSecret string `long:"ticket-qr-secret" env:"TICKET_QR_SECRET"`
	TimeZone       string `long:"timezone" env:"TIMEZONE" default:"Asia/Ho_Chi_Minh"`

	DB        DBConfig        `group:"database" namespace:"db" env-namespace:"DB"`
	Redis     RedisConfig     `group:"redis" namespace:"redis" env-namespace:"REDIS"`
	JWT       JWTConfig       `group:"jwt" namespace:"jwt" env-namespace:"JWT"`
	Booking   BookingConfig   `group:"booking" namespace:"booking" env-namespace:"BOOKING"`
	Sweep     SweepConfig     `group:"sweep" namespace:"sweep" env-namespace:"SWEEP"`
	RateLimit RateLimitConfig `group:"rate-limit" namespace:"rate-limit" env-namespace:"RATE_LIMIT"`
	VNPay     VNPayConfig     `group:"vnpay" namespace:"vnpay" env-namespace:"VNPAY"`
}

// Load reads envFile into the process environment, then parses flags and
// environment variables into a Config.
func Load(envFile string, args []string) (Config, error) {
	if envFile != "" {
		loadEnv(envFile)
	}

	var cfg Config
	parser := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash|flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(args); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWT.RefreshSecret == "" {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET is required"))
	}
	if c.TicketQRSecret == "" {
		errs = append(errs, errors.New("TICKET_QR_SECRET is required"))
	}
	if c.Booking.Hold <= 0 || c.Booking.MaxHold < c.Booking.Hold {
		errs = append(errs, errors.New("BOOKING_MAX_HOLD must be at least BOOKING_HOLD"))
	}
	if c.Booking.MaxExtensions < 0 {
		errs = append(errs, errors.New("BOOKING_MAX_EXTENSIONS must not be negative"))
	}
	if c.Sweep.Interval <= 0 || c.Sweep.Batch <= 0 {
		errs = append(errs, errors.New("SWEEP_INTERVAL and SWEEP_BATCH must be positive"))
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.Requests <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW and RATE_LIMIT_REQUESTS must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Location is the zone tickets are printed in, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// VNPayEnabled reports whether merchant credentials were provided.
func (c Config) VNPayEnabled() bool {
	return c.VNPay.TmnCode != "" && c.VNPay.HashSecret != ""
}
