// Package apitests contains the scenarios that exercise the resource API.
//
// Scenarios in this package use other packages as follows:
//
// data: the fixture records and expected results for each collection
//
// runner: the scenario scope framework
//
// contract: the requests and expectations within a scenario
//
// servicedef: the API's conventions for paths, envelopes, and pagination
package apitests
