package apitests

import (
	"net/http"
	"sort"
	"strings"

	"github.com/restcontract/rest-contract-tests/data"
	"github.com/restcontract/rest-contract-tests/framework/contract"
	"github.com/restcontract/rest-contract-tests/framework/runner"
	"github.com/restcontract/rest-contract-tests/servicedef"
)

func doReadTests(t *runner.T, f data.ResourceFixture) {
	t.Run("lists existing records", func(t *runner.T) {
		list := expectDataArray(t.Get(f.Collection))
		if f.Read.Count.IsDefined() {
			list.Expect(servicedef.DataTarget(), contract.LengthEquals(f.Read.Count.IntValue()))
		} else {
			list.Expect(servicedef.DataTarget(), isNonEmpty())
		}
		t.Wait()
	})

	if !f.Read.ExistingID.IsNull() {
		t.Run("reads a record by id", func(t *runner.T) {
			t.Get(servicedef.ResourcePath(f.Collection, f.Read.ExistingID)).
				ExpectStatus(http.StatusOK).
				Expect(servicedef.DataTarget(servicedef.IDProperty), contract.Equals(f.Read.ExistingID))
			t.Wait()
		})
	}

	t.Run("does not find a missing id", func(t *runner.T) {
		t.Get(servicedef.ResourcePath(f.Collection, f.Read.MissingID)).ExpectStatus(http.StatusNotFound)
		t.Wait()
	})

	for _, path := range f.Read.NotFoundPaths {
		path := path
		t.Run("does not find "+strings.ReplaceAll(path, "/", " "), func(t *runner.T) {
			t.Get(path).ExpectStatus(http.StatusNotFound)
			t.Wait()
		})
	}

	for _, filter := range f.Read.Filters {
		filter := filter
		t.Run("filters "+filter.Name, func(t *runner.T) {
			names := make([]string, 0, len(filter.Query))
			for name := range filter.Query {
				names = append(names, name)
			}
			sort.Strings(names)
			options := make([]contract.RequestOption, 0, len(names))
			for _, name := range names {
				options = append(options, contract.WithQuery(name, filter.Query[name]))
			}
			t.Get(f.Collection, options...).ExpectStatus(filter.Status.OrElse(http.StatusOK))
			t.Wait()
		})
	}
}
