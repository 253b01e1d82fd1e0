package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/restcontract/rest-contract-tests/framework/contract"
	"github.com/restcontract/rest-contract-tests/framework/runner"
)

const defaultProbePath = "/"

type commandParams struct {
	engine         contract.Config
	probePath      string
	filters        runner.RegexFilters
	debug          bool
	debugAll       bool
	jUnitFile      string
	skipFile       string
	recordFailures string
}

// headerFlags collects repeated -header "Name: value" flags.
type headerFlags map[string]string

func (h headerFlags) String() string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+h[name])
	}
	return strings.Join(parts, ", ")
}

func (h headerFlags) Set(value string) error {
	name, headerValue, ok := strings.Cut(value, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf(`header must be in the form "Name: value" (was %q)`, value)
	}
	h[strings.TrimSpace(name)] = strings.TrimSpace(headerValue)
	return nil
}

func (c *commandParams) Read(args []string) bool {
	if err := c.parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	return true
}

func (c *commandParams) parse(args []string) error {
	var (
		configPath string
		baseURL    string
		timeout    time.Duration
		rps        float64
		probePath  string
	)
	headers := make(headerFlags)

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&baseURL, "url", "", "base URL of the API under test")
	fs.StringVar(&configPath, "config", "", "YAML configuration file; flags override its values")
	fs.DurationVar(&timeout, "timeout", 0, "how long to wait for responses (default 10s)")
	fs.Float64Var(&rps, "rps", 0, "maximum requests per second (default unlimited)")
	fs.Var(headers, "header", `header to send with every request, as "Name: value" (can be repeated)`)
	fs.StringVar(&probePath, "probe", defaultProbePath, "path to request while waiting for the API to start")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.StringVar(&c.skipFile, "skip-from", "", "file containing scenario names to skip, one per line")
	fs.StringVar(&c.recordFailures, "record-failures", "", "write the names of failed scenarios to this file")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed scenarios")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all scenarios")
	fs.StringVar(&c.jUnitFile, "junit", "", "write JUnit XML output to the specified path")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	var file configFile
	if configPath != "" {
		var err error
		if file, err = loadConfigFile(configPath); err != nil {
			return err
		}
	}
	c.engine = file.engineConfig()
	c.probePath = file.ProbePath

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "url":
			c.engine.BaseURL = baseURL
		case "timeout":
			c.engine.Timeout = timeout
		case "rps":
			c.engine.RequestsPerSecond = rps
		case "probe":
			c.probePath = probePath
		case "header":
			merged := make(map[string]string, len(c.engine.DefaultHeaders)+len(headers))
			for name, value := range c.engine.DefaultHeaders {
				merged[name] = value
			}
			for name, value := range headers {
				merged[name] = value
			}
			c.engine.DefaultHeaders = merged
		}
	})
	if c.probePath == "" {
		c.probePath = defaultProbePath
	}

	if c.engine.BaseURL == "" {
		return fmt.Errorf("-url is required, either as a flag or as baseUrl in the config file")
	}
	return c.engine.Validate()
}
