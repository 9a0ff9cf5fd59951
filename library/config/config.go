package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	cb "github.com/Astemirdum/school-library/pkg/circuit_breaker"
	"github.com/Astemirdum/school-library/pkg/kafka"
	"github.com/Astemirdum/school-library/pkg/logger"
	"github.com/Astemirdum/school-library/pkg/postgres"
)

// FileEnv names the optional YAML file read before the environment.
const FileEnv = "LIBRARY_CONFIG_FILE"

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	Kafka    kafka.Config `yaml:"kafka"`
	Breaker  cb.Config    `yaml:"breaker"`
	Log      logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from defaults, options, the optional YAML file and
// the environment, later sources overriding earlier ones.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		config, err := Load(ops...)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(os.Stdout, cfg)
	})

	return cfg
}

func Load(ops ...Option) (*Config, error) {
	config := defaultConfig()
	for _, op := range ops {
		op(&config)
	}
	if path := os.Getenv(FileEnv); path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(buf, &config); err != nil {
			return nil, errors.Wrap(err, "parse config file")
		}
	}
	if err := envconfig.Process("", &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func defaultConfig() Config {
	return Config{
		Server: HTTPServer{
			Host:         "0.0.0.0",
			Port:         "8060",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: postgres.DB{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			NAME:    "library",
			SSLMode: "disable",
		},
		Breaker: cb.Config{
			RecordLength:     20,
			Timeout:          10 * time.Second,
			Percentile:       0.5,
			RecoveryRequests: 5,
		},
		Log: logger.Log{LogLevel: zapcore.InfoLevel},
	}
}

func printConfig(w io.Writer, cfg *Config) {
	masked := *cfg
	masked.Database.Password = "***"
	jscfg, _ := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(masked, "", "	") //nolint:errcheck
	fmt.Fprintln(w, string(jscfg))
}
