package mockapi

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/restcontract/rest-contract-tests/framework"
	"github.com/restcontract/rest-contract-tests/servicedef"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/launchdarkly/go-test-helpers/v2/jsonhelpers"
)

// Service is an http.Handler that serves the collections in a Store, with every successful
// response wrapped in a servicedef.Envelope.
type Service struct {
	store       *Store
	pageSize    int
	handler     http.Handler
	debugLogger framework.Logger
}

// NewService creates a Service. The logger receives one line per request; it may be nil.
func NewService(store *Store, debugLogger framework.Logger) *Service {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	s := &Service{
		store:       store,
		pageSize:    servicedef.DefaultPageSize,
		debugLogger: debugLogger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/{collection}", s.serveList).Methods("GET")
	router.HandleFunc("/{collection}", s.serveCreate).Methods("POST")
	router.HandleFunc("/{collection}/{id}", s.serveGet).Methods("GET")
	router.HandleFunc("/{collection}/{id}", s.serveReplace).Methods("PUT")
	router.HandleFunc("/{collection}/{id}", s.serveRemove).Methods("DELETE")
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "no such resource")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	s.handler = router

	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Service) serveList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(mux.Vars(r)["collection"])
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	query := r.URL.Query()
	records = filterRecords(records, query)

	if pageParam := query.Get(servicedef.PageParam); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil || page < 1 {
			s.writeError(w, r, http.StatusBadRequest, "invalid page number")
			return
		}
		w.Header().Set(servicedef.TotalCountHeader, strconv.Itoa(len(records)))
		records = pageOf(records, page, s.pageSize)
	}
	s.writeData(w, r, http.StatusOK, ldvalue.ArrayOf(records...))
}

func (s *Service) serveCreate(w http.ResponseWriter, r *http.Request) {
	record, ok := s.readRecord(w, r)
	if !ok {
		return
	}
	stored, err := s.store.Insert(mux.Vars(r)["collection"], record)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusCreated, stored)
}

func (s *Service) serveGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	record, err := s.store.Get(vars["collection"], vars["id"])
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, record)
}

func (s *Service) serveReplace(w http.ResponseWriter, r *http.Request) {
	record, ok := s.readRecord(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	stored, err := s.store.Replace(vars["collection"], vars["id"], record)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, stored)
}

func (s *Service) serveRemove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.store.Remove(vars["collection"], vars["id"]); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.writeData(w, r, http.StatusOK, ldvalue.ObjectBuild().Build())
}

func (s *Service) readRecord(w http.ResponseWriter, r *http.Request) (ldvalue.Value, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "could not read request body")
		return ldvalue.Null(), false
	}
	record := ldvalue.Parse(body)
	if record.Type() != ldvalue.ObjectType {
		s.writeError(w, r, http.StatusBadRequest, ErrNotAnObject.Error())
		return ldvalue.Null(), false
	}
	return record, true
}

func (s *Service) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUnknownCollection), errors.Is(err, ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotAnObject):
		s.writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

func (s *Service) writeData(w http.ResponseWriter, r *http.Request, status int, payload ldvalue.Value) {
	s.writeJSON(w, r, status, jsonhelpers.ToJSON(servicedef.Envelope{Data: payload}))
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.writeJSON(w, r, status, jsonhelpers.ToJSON(map[string]string{"error": message}))
}

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	s.debugLogger.Printf("[mockapi] %s %s -> %d", r.Method, r.URL.RequestURI(), status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// filterRecords keeps the records that match every query parameter other than the pagination
// ones. A parameter name is a dotted property path. An empty value only requires the property to
// be present; otherwise its string form must equal the value.
func filterRecords(records []ldvalue.Value, query map[string][]string) []ldvalue.Value {
	names := make([]string, 0, len(query))
	for name := range query {
		if !strings.HasPrefix(name, "_") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return records
	}
	sort.Strings(names)
	var ret []ldvalue.Value
	for _, record := range records {
		matched := true
		for _, name := range names {
			value, ok := propertyAt(record, strings.Split(name, "."))
			want := query[name][0]
			if !ok || (want != "" && servicedef.IDString(value) != want) {
				matched = false
				break
			}
		}
		if matched {
			ret = append(ret, record)
		}
	}
	return ret
}

func propertyAt(value ldvalue.Value, path []string) (ldvalue.Value, bool) {
	for _, prop := range path {
		if value.Type() != ldvalue.ObjectType {
			return ldvalue.Null(), false
		}
		next, ok := value.TryGetByKey(prop)
		if !ok {
			return ldvalue.Null(), false
		}
		value = next
	}
	return value, true
}

func pageOf(records []ldvalue.Value, page, pageSize int) []ldvalue.Value {
	start := (page - 1) * pageSize
	if start >= len(records) {
		return nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
