package apitests

import (
	"github.com/restcontract/rest-contract-tests/framework/contract"
	h "github.com/restcontract/rest-contract-tests/framework/helpers"
	"github.com/restcontract/rest-contract-tests/servicedef"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

func isPresent() contract.Expectation {
	return contract.Custom(func(value ldvalue.Value, a *contract.Assertions) {
		if value.IsNull() {
			a.Errorf("expected a value, got null")
		}
	})
}

func isNonEmpty() contract.Expectation {
	return contract.Custom(func(value ldvalue.Value, a *contract.Assertions) {
		if value.Count() == 0 {
			a.Errorf("expected at least one item, got none")
		}
	})
}

// expectDataProperties expects each property of want to appear with the same value in the
// response payload.
func expectDataProperties(req *contract.PendingRequest, want ldvalue.Value) *contract.PendingRequest {
	for _, key := range h.SortedKeys(want) {
		req.Expect(servicedef.DataTarget(key), contract.Equals(want.GetByKey(key)))
	}
	return req
}

// expectDataPropertyTypes expects each property named in types to have the JSON type given as
// its value.
func expectDataPropertyTypes(req *contract.PendingRequest, types ldvalue.Value) *contract.PendingRequest {
	for _, key := range h.SortedKeys(types) {
		req.Expect(servicedef.DataTarget(key), contract.MatchesType(types.GetByKey(key).StringValue()))
	}
	return req
}

func expectDataArray(req *contract.PendingRequest) *contract.PendingRequest {
	return req.ExpectStatus(200).Expect(servicedef.DataTarget(), contract.IsArray())
}
