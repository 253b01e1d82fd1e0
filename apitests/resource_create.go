package apitests

import (
	"net/http"

	"github.com/restcontract/rest-contract-tests/data"
	"github.com/restcontract/rest-contract-tests/framework/contract"
	"github.com/restcontract/rest-contract-tests/framework/runner"
	"github.com/restcontract/rest-contract-tests/servicedef"
)

func doCreateTests(t *runner.T, f data.ResourceFixture) {
	group := t

	t.Run("creates a new record", func(t *runner.T) {
		created := t.Post(f.Collection, f.Create.Record).
			Expect("status", createdStatus(f.Create)).
			Expect(servicedef.DataTarget(servicedef.IDProperty), isPresent())
		resp := t.Await(created)
		if !t.Wait() {
			t.FailNow()
		}
		id := resp.Body.GetByKey(servicedef.EnvelopeKey).GetByKey(servicedef.IDProperty)
		path := servicedef.ResourcePath(f.Collection, id)

		if f.Create.Cleanup {
			group.Defer(func() {
				group.Debug("removing created record %s", path)
				group.Delete(path).ExpectStatus(http.StatusOK)
				group.Wait()
			})
		}

		readBack := t.Get(path).ExpectStatus(http.StatusOK)
		expectDataProperties(readBack, f.Create.ReadBack)
		expectDataPropertyTypes(readBack, f.Create.ReadBackTypes)
		t.Wait()
	})

	if !f.Create.Duplicate.IsNull() {
		t.Run("rejects a record with an existing id", func(t *runner.T) {
			t.Post(f.Collection, f.Create.Duplicate).ExpectStatus(http.StatusInternalServerError)
			t.Wait()
		})
	}

	if f.Create.UnknownCollection != "" {
		t.Run("rejects a record for an unknown collection", func(t *runner.T) {
			t.Post(f.Create.UnknownCollection, f.Create.Record).ExpectStatus(http.StatusNotFound)
			t.Wait()
		})
	}
}

func createdStatus(c data.CreateFixture) contract.Expectation {
	if c.StatusPattern != "" {
		return contract.MatchesPattern(c.StatusPattern)
	}
	return contract.Equals(c.Status.IntValue())
}
