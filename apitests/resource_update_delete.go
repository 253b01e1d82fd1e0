package apitests

import (
	"net/http"

	"github.com/restcontract/rest-contract-tests/data"
	"github.com/restcontract/rest-contract-tests/framework/runner"
	"github.com/restcontract/rest-contract-tests/servicedef"
)

func doUpdateTests(t *runner.T, f data.ResourceFixture) {
	t.Run("updates an existing record", func(t *runner.T) {
		path := servicedef.ResourcePath(f.Collection, f.Update.ID)
		t.Await(t.Put(path, f.Update.Record).ExpectStatus(http.StatusOK))

		expectDataProperties(t.Get(path).ExpectStatus(http.StatusOK), f.Update.Expect)
		t.Wait()
	})

	t.Run("does not update a missing record", func(t *runner.T) {
		record := f.Update.MissingRecord
		if record.IsNull() {
			record = f.Update.Record
		}
		t.Put(servicedef.ResourcePath(f.Collection, f.Update.MissingID), record).
			ExpectStatus(http.StatusNotFound)
		t.Wait()
	})
}

func doDeleteTests(t *runner.T, f data.ResourceFixture) {
	t.Run("deletes a record by id", func(t *runner.T) {
		if f.Delete.Pending {
			t.Pending()
		}
		path := servicedef.ResourcePath(f.Collection, f.Delete.ID)
		t.Await(t.Delete(path).ExpectStatus(http.StatusOK))

		t.Get(path).ExpectStatus(http.StatusNotFound)
		t.Wait()
	})

	t.Run("does not delete a missing record", func(t *runner.T) {
		if f.Delete.Pending {
			t.Pending()
		}
		t.Delete(servicedef.ResourcePath(f.Collection, f.Delete.MissingID)).
			ExpectStatus(http.StatusNotFound)
		t.Wait()
	})
}
