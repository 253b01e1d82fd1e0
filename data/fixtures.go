package data

import (
	"errors"
	"fmt"
	"sort"

	"github.com/restcontract/rest-contract-tests/servicedef"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const resourcesPath = "resources"

// ResourceFixture holds the records and expected results that the scenarios for one collection
// use. It is loaded from data-files/resources/<collection>.yaml. All record data is held as
// ldvalue.Value, which is immutable; scenarios must not modify the slices.
type ResourceFixture struct {
	Collection string        `json:"collection"`
	Seed       SeedFixture   `json:"seed"`
	Create     CreateFixture `json:"create"`
	Read       ReadFixture   `json:"read"`
	Update     UpdateFixture `json:"update"`
	Delete     DeleteFixture `json:"delete"`
}

// SeedFixture describes the records a mock API starts out with. It is not used when testing a
// real API.
type SeedFixture struct {
	// Count is the number of records generated from Template. Each copy has <ID> replaced with
	// its id, starting at 1.
	Count    int           `json:"count"`
	Template ldvalue.Value `json:"template"`

	// Records replace the generated record with the same id, or are added after them.
	Records []ldvalue.Value `json:"records"`
}

// CreateFixture drives the "Create" scenarios.
type CreateFixture struct {
	Record ldvalue.Value `json:"record"`

	// Either Status or StatusPattern is the expected status of a successful POST.
	Status        ldvalue.OptionalInt `json:"status"`
	StatusPattern string              `json:"statusPattern"`

	// ReadBack maps properties of the created record to the values they must have when it is read
	// back. ReadBackTypes maps properties to the JSON type they must have.
	ReadBack      ldvalue.Value `json:"readBack"`
	ReadBackTypes ldvalue.Value `json:"readBackTypes"`

	// Duplicate, if present, is a record whose id already exists. Posting it must fail with a 500.
	Duplicate ldvalue.Value `json:"duplicate"`

	// UnknownCollection, if present, is a collection name that a POST must get a 404 from.
	UnknownCollection string `json:"unknownCollection"`

	// Cleanup causes the created record to be deleted when the scenario group ends.
	Cleanup bool `json:"cleanup"`
}

// ReadFixture drives the "Read" scenarios.
type ReadFixture struct {
	// Count is the exact size of the listing. If it is undefined, the listing only has to be
	// non-empty.
	Count ldvalue.OptionalInt `json:"count"`

	ExistingID ldvalue.Value `json:"existingId"`
	MissingID  ldvalue.Value `json:"missingId"`

	// NotFoundPaths are paths, relative to the API base, that must get a 404.
	NotFoundPaths []string `json:"notFoundPaths"`

	Filters []FilterFixture `json:"filters"`
}

// FilterFixture is a listing request with query parameters.
type FilterFixture struct {
	Name  string            `json:"name"`
	Query map[string]string `json:"query"`

	// Status defaults to 200.
	Status ldvalue.OptionalInt `json:"status"`
}

// UpdateFixture drives the "Update" scenarios.
type UpdateFixture struct {
	ID     ldvalue.Value `json:"id"`
	Record ldvalue.Value `json:"record"`

	// Expect maps properties of the updated record to the values they must have afterward.
	Expect ldvalue.Value `json:"expect"`

	MissingID     ldvalue.Value `json:"missingId"`
	MissingRecord ldvalue.Value `json:"missingRecord"`
}

// DeleteFixture drives the "Delete" scenarios.
type DeleteFixture struct {
	ID        ldvalue.Value `json:"id"`
	MissingID ldvalue.Value `json:"missingId"`

	// Pending marks the delete scenarios as declared but not yet implemented.
	Pending bool `json:"pending"`
}

// Validate checks that the fixture has everything its scenarios need.
func (f ResourceFixture) Validate() error {
	var errs []error
	if !servicedef.IsResource(f.Collection) {
		errs = append(errs, fmt.Errorf("unknown collection %q", f.Collection))
	}
	if f.Create.Record.Type() != ldvalue.ObjectType {
		errs = append(errs, errors.New("create.record must be an object"))
	}
	if f.Create.Status.IsDefined() == (f.Create.StatusPattern != "") {
		errs = append(errs, errors.New("exactly one of create.status and create.statusPattern must be set"))
	}
	for name, v := range map[string]ldvalue.Value{
		"create.readBack":      f.Create.ReadBack,
		"create.readBackTypes": f.Create.ReadBackTypes,
		"update.expect":        f.Update.Expect,
	} {
		if !v.IsNull() && v.Type() != ldvalue.ObjectType {
			errs = append(errs, fmt.Errorf("%s must be an object", name))
		}
	}
	if f.Read.MissingID.IsNull() {
		errs = append(errs, errors.New("read.missingId is required"))
	}
	if f.Update.ID.IsNull() || f.Update.Record.Type() != ldvalue.ObjectType {
		errs = append(errs, errors.New("update.id and update.record are required"))
	}
	if f.Update.MissingID.IsNull() {
		errs = append(errs, errors.New("update.missingId is required"))
	}
	if !f.Delete.Pending && (f.Delete.ID.IsNull() || f.Delete.MissingID.IsNull()) {
		errs = append(errs, errors.New("delete.id and delete.missingId are required unless delete.pending is set"))
	}
	if f.Read.Count.OrElse(0) < 0 {
		errs = append(errs, errors.New("read.count must not be negative"))
	}
	if f.Seed.Count < 0 || (f.Seed.Count > 0 && f.Seed.Template.Type() != ldvalue.ObjectType) {
		errs = append(errs, errors.New("seed.count must not be negative, and needs an object seed.template"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid fixture for %q: %w", f.Collection, errors.Join(errs...))
}

// Expand expands the seed into the full list of records, ordered by id with any extra records
// last.
func (s SeedFixture) Expand() ([]ldvalue.Value, error) {
	ret := make([]ldvalue.Value, 0, s.Count+len(s.Records))
	positions := make(map[string]int)
	if s.Count > 0 {
		template := []byte(s.Template.JSONString())
		for i := 1; i <= s.Count; i++ {
			record := ldvalue.Parse(substitutionSet{"ID": ldvalue.Int(i)}.apply(template))
			if record.Type() != ldvalue.ObjectType {
				return nil, fmt.Errorf("seed template did not produce an object for id %d", i)
			}
			positions[servicedef.IDString(record.GetByKey(servicedef.IDProperty))] = len(ret)
			ret = append(ret, record)
		}
	}
	for _, record := range s.Records {
		id := record.GetByKey(servicedef.IDProperty)
		if record.Type() != ldvalue.ObjectType || id.IsNull() {
			return nil, errors.New("every seed record must be an object with an id")
		}
		if pos, ok := positions[servicedef.IDString(id)]; ok {
			ret[pos] = record
			continue
		}
		positions[servicedef.IDString(id)] = len(ret)
		ret = append(ret, record)
	}
	return ret, nil
}

// FixtureSet is the complete set of resource fixtures for a run.
type FixtureSet struct {
	byCollection map[string]ResourceFixture
}

// NewFixtureSet validates the fixtures and indexes them by collection.
func NewFixtureSet(fixtures ...ResourceFixture) (FixtureSet, error) {
	set := FixtureSet{byCollection: make(map[string]ResourceFixture, len(fixtures))}
	for _, f := range fixtures {
		if err := f.Validate(); err != nil {
			return FixtureSet{}, err
		}
		if _, exists := set.byCollection[f.Collection]; exists {
			return FixtureSet{}, fmt.Errorf("more than one fixture for %q", f.Collection)
		}
		set.byCollection[f.Collection] = f
	}
	return set, nil
}

// LoadResourceFixtures reads all of the embedded resource fixtures.
func LoadResourceFixtures() (FixtureSet, error) {
	sources, err := LoadAllDataFiles(resourcesPath)
	if err != nil {
		return FixtureSet{}, err
	}
	fixtures := make([]ResourceFixture, 0, len(sources))
	for _, source := range sources {
		var f ResourceFixture
		if err := source.ParseInto(&f); err != nil {
			return FixtureSet{}, err
		}
		fixtures = append(fixtures, f)
	}
	return NewFixtureSet(fixtures...)
}

// Get returns the fixture for a collection.
func (s FixtureSet) Get(collection string) (ResourceFixture, bool) {
	f, ok := s.byCollection[collection]
	return f, ok
}

// Collections returns the names of the collections that have fixtures, in the order of
// servicedef.AllResources.
func (s FixtureSet) Collections() []string {
	ret := make([]string, 0, len(s.byCollection))
	for name := range s.byCollection {
		ret = append(ret, name)
	}
	order := make(map[string]int, len(servicedef.AllResources))
	for i, name := range servicedef.AllResources {
		order[name] = i
	}
	sort.Slice(ret, func(i, j int) bool { return order[ret[i]] < order[ret[j]] })
	return ret
}
