// Package mockapi is an in-memory implementation of the resource API, used to test the suite
// itself. It follows the conventions in servicedef and is seeded from the fixture data files.
package mockapi
