package apitests

import (
	"net/http"

	"github.com/restcontract/rest-contract-tests/data"
	"github.com/restcontract/rest-contract-tests/framework/contract"
	"github.com/restcontract/rest-contract-tests/framework/runner"
	"github.com/restcontract/rest-contract-tests/servicedef"
)

func doPaginationTests(t *runner.T, f data.ResourceFixture) {
	t.Run("first page has total count", func(t *runner.T) {
		all := t.Get(f.Collection).ExpectStatus(http.StatusOK)
		page := expectDataArray(t.Get(f.Collection, contract.WithPage(1))).
			Expect("header."+servicedef.TotalCountHeader, contract.MatchesPattern(`^[0-9]+$`))

		total := t.Await(all).Body.GetByKey(servicedef.EnvelopeKey).Count()
		page.Expect("header."+servicedef.TotalCountHeader, contract.Equals(total)).
			Expect(servicedef.DataTarget(), contract.LengthEquals(min(total, servicedef.DefaultPageSize)))
		t.Wait()
	})

	t.Run("page past the end is empty", func(t *runner.T) {
		total := t.Await(t.Get(f.Collection).ExpectStatus(http.StatusOK)).
			Body.GetByKey(servicedef.EnvelopeKey).Count()
		pastEnd := total/servicedef.DefaultPageSize + 2
		expectDataArray(t.Get(f.Collection, contract.WithPage(pastEnd))).
			Expect(servicedef.DataTarget(), contract.LengthEquals(0))
		t.Wait()
	})
}
