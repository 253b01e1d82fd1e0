package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/restcontract/rest-contract-tests/apitests"
	"github.com/restcontract/rest-contract-tests/data"
	"github.com/restcontract/rest-contract-tests/framework"
	"github.com/restcontract/rest-contract-tests/framework/contract"
	"github.com/restcontract/rest-contract-tests/framework/harness"
	h "github.com/restcontract/rest-contract-tests/framework/helpers"
	"github.com/restcontract/rest-contract-tests/framework/runner"
)

const startupTimeout = time.Second * 10

func main() {
	fmt.Println("rest-contract-tests")

	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	results, err := run(params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !results.OK() {
		os.Exit(1)
	}
}

func run(params commandParams) (*runner.Results, error) {
	if params.skipFile != "" {
		names, err := readSuppressions(params.skipFile)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if err := params.filters.MustNotMatch.Set(regexp.QuoteMeta(name)); err != nil {
				return nil, fmt.Errorf("cannot parse suppression %q: %w", name, err)
			}
		}
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	fixtures, err := data.LoadResourceFixtures()
	if err != nil {
		return nil, err
	}

	apiHarness, err := harness.NewHarness(
		params.engine.BaseURL,
		params.probePath,
		startupTimeout,
		h.IfElse(params.engine.Timeout == 0, contract.DefaultTimeout, params.engine.Timeout),
		mainDebugLogger,
		os.Stdout,
	)
	if err != nil {
		return nil, err
	}

	fmt.Println()
	runner.PrintFilterDescription(os.Stdout, params.filters)

	scenarioLogger := newScenarioLogger(params, apiHarness.ServerInfo())
	results, err := apitests.RunAPITestSuite(
		apiHarness.Transport(),
		params.engine,
		fixtures,
		params.filters,
		scenarioLogger,
	)
	if err != nil {
		return nil, err
	}

	fmt.Println()
	if err := scenarioLogger.EndLog(results); err != nil {
		return nil, fmt.Errorf("error writing log: %w", err)
	}

	if params.recordFailures != "" {
		failed := make([]string, 0, len(results.Failures))
		for _, f := range results.Failures {
			failed = append(failed, f.ID.String())
		}
		if err := writeSuppressions(params.recordFailures, failed); err != nil {
			return nil, err
		}
	}

	return &results, nil
}

// newScenarioLogger returns the console logger, plus a JUnit logger if -junit was given.
func newScenarioLogger(params commandParams, serverInfo harness.ServerInfo) runner.ScenarioLogger {
	console := runner.ConsoleLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	if params.jUnitFile == "" {
		return console
	}
	return &runner.MultiLogger{Loggers: []runner.ScenarioLogger{
		console,
		runner.NewJUnitLogger(params.jUnitFile, serverInfo, params.filters),
	}}
}
