package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

type Config struct {
	Addr        string
	DBUrl       string
	TokenSecret string
	TokenTTL    time.Duration
	MinDwell    time.Duration
	SubmitRate  int
	Debug       bool
}

func ParseFlags() (cfg Config, err error) {
	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 80, "listen port number (default 80)")
	flag.StringVar(&cfg.DBUrl, "db-url", "formforge.sqlite", "path to SQLite3 DB file (default formforge.sqlite)")
	flag.StringVar(&cfg.TokenSecret, "token-secret", "", "secret key for token encryption and decryption")
	var ttl uint
	flag.UintVar(&ttl, "token-ttl", 120, "token TTL in seconds (default 120)")
	flag.DurationVar(&cfg.MinDwell, "min-dwell", 2*time.Second,
		"minimum time between form load and submit before a submission counts as a bot (0 disables)")
	flag.IntVar(&cfg.SubmitRate, "submit-rate", 20,
		"max public submissions per client IP per hour (0 disables)")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	var errs *multierror.Error
	if cfg.TokenSecret == "" {
		errs = multierror.Append(errs, errors.New("missing parameter -token-secret"))
	}
	if cfg.MinDwell < 0 {
		errs = multierror.Append(errs, errors.New("-min-dwell must not be negative"))
	}
	if cfg.SubmitRate < 0 {
		errs = multierror.Append(errs, errors.New("-submit-rate must not be negative"))
	}
	return errs.ErrorOrNil()
}

func (cfg Config) Url() string {
	url := cfg.Addr
	if strings.HasPrefix(url, "0.0.0.0") {
		url = "localhost" + strings.TrimPrefix(url, "0.0.0.0")
	}
	return "http://" + url
}
