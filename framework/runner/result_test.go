package runner

import (
	"testing"

	"github.com/restcontract/rest-contract-tests/framework/contract"

	"github.com/stretchr/testify/assert"
)

func TestScenarioIDString(t *testing.T) {
	assert.Equal(t, "", ScenarioID{}.String())
	assert.Equal(t, "albums", ScenarioID{"albums"}.String())
	assert.Equal(t, "albums/create/duplicate id", ScenarioID{"albums", "create", "duplicate id"}.String())
}

func TestScenarioIDPlus(t *testing.T) {
	assert.Equal(t, ScenarioID{"name 1", "name 2"}, ScenarioID{}.Plus("name 1").Plus("name 2"))

	// Calling Plus does not modify the original value
	id1 := ScenarioID{"name 1"}
	id2a := id1.Plus("name 2a")
	id2b := id1.Plus("name 2b")
	assert.Equal(t, ScenarioID{"name 1"}, id1)
	assert.Equal(t, ScenarioID{"name 1", "name 2a"}, id2a)
	assert.Equal(t, ScenarioID{"name 1", "name 2b"}, id2b)
}

func TestResultsOKIncludesExpectations(t *testing.T) {
	assert.True(t, Results{}.OK())
	assert.False(t, Results{Failures: []ScenarioResult{{}}}.OK())
	assert.False(t, Results{Expectations: contract.Summary{Total: 1, Errors: 1}}.OK())
}
