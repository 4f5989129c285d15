package config

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration for cmd/server.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
		LogLevel   string `yaml:"log_level"`
		LogFormat  string `yaml:"log_format"`
	} `yaml:"server"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Enabled  bool   `yaml:"enabled"`
	} `yaml:"redis"`

	Kafka struct {
		BrokerAddr string `yaml:"broker_addr"`
		Topic      string `yaml:"topic"`
		Enabled    bool   `yaml:"enabled"`
	} `yaml:"kafka"`
}

// Default configuration values.
var (
	configFile = flag.String("config", "", "Path to config file (YAML)")
	listenPort = flag.Int("port", 8888, "The TCP server port")
	logLevel   = flag.String("log_level", "info", "Log level: debug, info, warn, error")
	logFormat  = flag.String("log_format", "pretty", "Log format: json, pretty")
)

// LoadConfig loads configuration from command line flags and, if
// specified, layers a YAML file on top.
func LoadConfig() (*Config, error) {
	flag.Parse()

	config := &Config{}
	config.Server.ListenAddr = fmt.Sprintf(":%d", *listenPort)
	config.Server.LogLevel = *logLevel
	config.Server.LogFormat = *logFormat
	config.Redis.Addr = "localhost:6379"
	config.Kafka.BrokerAddr = "localhost:9092"
	config.Kafka.Topic = "execution-reports"

	if *configFile != "" {
		yamlFile, err := os.ReadFile(*configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(yamlFile, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		log.Printf("loaded configuration from %s", *configFile)
	}

	return config, nil
}
