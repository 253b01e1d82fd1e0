package servicedef

import (
	"net/url"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const (
	ResourceAlbums   = "albums"
	ResourcePhotos   = "photos"
	ResourceComments = "comments"
	ResourceTodos    = "todos"
	ResourceUsers    = "users"
)

// AllResources lists every collection the API serves, in the order the suite tests them.
var AllResources = []string{ //nolint:gochecknoglobals
	ResourceAlbums,
	ResourcePhotos,
	ResourceComments,
	ResourceTodos,
	ResourceUsers,
}

const (
	// EnvelopeKey is the property of every response body that holds the payload.
	EnvelopeKey = "data"

	// IDProperty is the property of a record that identifies it within its collection.
	IDProperty = "id"

	// PageParam selects a page of a collection listing. Pages are numbered from 1.
	PageParam = "_page"

	// TotalCountHeader carries the size of the whole collection in a paginated listing.
	TotalCountHeader = "X-Total-Count"

	// DefaultPageSize is the number of records in a page of a listing.
	DefaultPageSize = 10
)

// Envelope is the shape of every successful response body.
type Envelope struct {
	Data ldvalue.Value `json:"data"`
}

// IsResource returns true if name is one of the collections in AllResources.
func IsResource(name string) bool {
	for _, r := range AllResources {
		if r == name {
			return true
		}
	}
	return false
}

// ResourcePath builds the URL path of a collection, or of one of its records if id is not null.
// Ids that are strings are escaped as path segments.
func ResourcePath(collection string, id ldvalue.Value) string {
	if id.IsNull() {
		return collection
	}
	return collection + "/" + url.PathEscape(IDString(id))
}

// IDString returns the form of a record id that appears in a URL path.
func IDString(id ldvalue.Value) string {
	if id.IsString() {
		return id.StringValue()
	}
	return id.JSONString()
}

// DataTarget returns the target string for a property of the enveloped payload, in the form
// accepted by the contract engine: DataTarget("title") is "body.data.title". With no properties it
// addresses the payload itself.
func DataTarget(properties ...string) string {
	return strings.Join(append([]string{"body", EnvelopeKey}, properties...), ".")
}
