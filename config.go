package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/restcontract/rest-contract-tests/framework/contract"

	yaml "gopkg.in/yaml.v3"
)

// configFile is the schema of the file named by -config.
type configFile struct {
	BaseURL           string            `yaml:"baseUrl"`
	TimeoutMs         int               `yaml:"timeoutMs"`
	DefaultHeaders    map[string]string `yaml:"defaultHeaders"`
	RequestsPerSecond float64           `yaml:"requestsPerSecond"`
	ProbePath         string            `yaml:"probePath"`
}

func loadConfigFile(path string) (configFile, error) {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return configFile{}, fmt.Errorf("cannot read config file: %w", err)
	}
	return parseConfigFile(raw)
}

func parseConfigFile(raw []byte) (configFile, error) {
	var c configFile
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return configFile{}, fmt.Errorf("invalid config file: %w", err)
	}
	if c.TimeoutMs < 0 {
		return configFile{}, fmt.Errorf("invalid config file: timeoutMs cannot be negative (was %d)", c.TimeoutMs)
	}
	return c, nil
}

func (c configFile) engineConfig() contract.Config {
	return contract.Config{
		BaseURL:           c.BaseURL,
		Timeout:           time.Duration(c.TimeoutMs) * time.Millisecond,
		DefaultHeaders:    c.DefaultHeaders,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}
