package apitests

import (
	"github.com/restcontract/rest-contract-tests/data"
	"github.com/restcontract/rest-contract-tests/framework/contract"
	"github.com/restcontract/rest-contract-tests/framework/runner"
)

// APITestContext is the runner context value shared by all of the scenarios.
type APITestContext struct {
	fixtures data.FixtureSet
}

func requireContext(t *runner.T) APITestContext {
	if c, ok := t.Context().(APITestContext); ok {
		return c
	}
	panic("APITestContext was not included in the global run configuration!" +
		" This is a basic mistake in the initialization logic.")
}

// RunAPITestSuite runs the scenarios for every collection that has a fixture. The error return is
// only for configuration problems; scenario failures are in the Results.
func RunAPITestSuite(
	transport contract.Transport,
	engineConfig contract.Config,
	fixtures data.FixtureSet,
	filter runner.Filter,
	scenarioLogger runner.ScenarioLogger,
) (runner.Results, error) {
	config := runner.Config{
		Filter:    filter,
		Logger:    scenarioLogger,
		Context:   APITestContext{fixtures: fixtures},
		Engine:    engineConfig,
		Transport: transport,
	}
	return runner.Run(config, doAllResourceTests)
}

func doAllResourceTests(t *runner.T) {
	fixtures := requireContext(t).fixtures
	for _, collection := range fixtures.Collections() {
		fixture, _ := fixtures.Get(collection)
		t.Run(collection, func(t *runner.T) {
			doResourceTests(t, fixture)
		})
	}
}

func doResourceTests(t *runner.T, f data.ResourceFixture) {
	t.Run("create", func(t *runner.T) { doCreateTests(t, f) })
	t.Run("read", func(t *runner.T) { doReadTests(t, f) })
	t.Run("pagination", func(t *runner.T) { doPaginationTests(t, f) })
	t.Run("update", func(t *runner.T) { doUpdateTests(t, f) })
	t.Run("delete", func(t *runner.T) { doDeleteTests(t, f) })
}
