package runner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/restcontract/rest-contract-tests/framework/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, config Config, action func(*T)) Results {
	results, err := Run(config, action)
	require.NoError(t, err)
	return results
}

// fixedTransport answers every request with the same status and body.
func fixedTransport(status int, body string) contract.Transport {
	return contract.TransportFunc(func(ctx context.Context, req contract.Request) (contract.RawResponse, error) {
		return contract.RawResponse{StatusCode: status, Body: []byte(body)}, nil
	})
}

func engineConfig(transport contract.Transport) Config {
	return Config{Engine: contract.Config{BaseURL: "http://api.test"}, Transport: transport}
}

func TestScenarioInheritsContext(t *testing.T) {
	myContextValue := "hi"
	_ = run(t, Config{Context: myContextValue}, func(s *T) {
		assert.Equal(t, myContextValue, s.Context())

		s.Run("child", func(s1 *T) {
			assert.Equal(t, myContextValue, s1.Context())
		})
	})
}

func TestScenarioExitsImmediatelyOnFailNow(t *testing.T) {
	executed1 := false
	executed2 := false
	executed3 := false
	_ = run(t, Config{}, func(s *T) {
		s.Run("", func(s *T) {
			executed1 = true
			s.FailNow()
			executed2 = true
		})
		executed3 = true
	})
	assert.True(t, executed1)
	assert.False(t, executed2)
	assert.True(t, executed3)
}

func TestScenarioExitsImmediatelyOnSkip(t *testing.T) {
	executed1 := false
	executed2 := false
	executed3 := false
	_ = run(t, Config{}, func(s *T) {
		s.Run("", func(s *T) {
			executed1 = true
			s.Skip()
			executed2 = true
		})
		executed3 = true
	})
	assert.True(t, executed1)
	assert.False(t, executed2)
	assert.True(t, executed3)
}

func TestScenarioPassedResult(t *testing.T) {
	result := run(t, Config{}, func(s *T) {
		s.Run("parent", func(s0 *T) {
			s0.Run("child1", func(s1 *T) {})
			s0.Run("child2", func(s2 *T) {})
		})
	})

	assert.True(t, result.OK())
	require.Len(t, result.Scenarios, 4)
	assert.Len(t, result.Failures, 0)

	assert.Equal(t, ScenarioID{"parent", "child1"}, result.Scenarios[0].ID)
	assert.Equal(t, ScenarioID{"parent", "child2"}, result.Scenarios[1].ID)
	assert.Equal(t, ScenarioID{"parent"}, result.Scenarios[2].ID)
	assert.Nil(t, result.Scenarios[3].ID)
	for _, r := range result.Scenarios {
		assert.Len(t, r.Errors, 0)
	}
}

func TestScenarioFailedResult(t *testing.T) {
	result := run(t, Config{}, func(s *T) {
		s.Run("parent", func(s0 *T) {
			s0.Run("child1", func(s1 *T) {})
			s0.Run("child2", func(s2 *T) {
				s2.Errorf("failed because %s", "reasons")
				s2.Errorf("and failed some more")
			})
			s0.Errorf("and parent failed")
		})
	})

	assert.False(t, result.OK())
	require.Len(t, result.Scenarios, 4)
	assert.Len(t, result.Failures, 2)

	assert.Len(t, result.Scenarios[0].Errors, 0)

	assert.Equal(t, ScenarioID{"parent", "child2"}, result.Scenarios[1].ID)
	require.Len(t, result.Scenarios[1].Errors, 2)
	assert.Equal(t, "failed because reasons", result.Scenarios[1].Errors[0].Error())
	assert.Equal(t, "and failed some more", result.Scenarios[1].Errors[1].Error())

	assert.Equal(t, ScenarioID{"parent"}, result.Scenarios[2].ID)
	require.Len(t, result.Scenarios[2].Errors, 1)
	assert.Equal(t, "and parent failed", result.Scenarios[2].Errors[0].Error())
}

func TestScenarioPanicIsFailure(t *testing.T) {
	ran := false
	result := run(t, Config{}, func(s *T) {
		s.Run("panics", func(s *T) {
			panic("oops")
		})
		s.Run("still runs", func(s *T) {
			ran = true
		})
	})
	assert.True(t, ran)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, ScenarioID{"panics"}, result.Failures[0].ID)
	assert.True(t, strings.HasPrefix(result.Failures[0].Errors[0].Error(), "unexpected panic in scenario: oops"))
}

func TestScenarioSkippedResult(t *testing.T) {
	result := run(t, Config{}, func(s *T) {
		s.Run("parent", func(s0 *T) {
			s0.Run("child1", func(s1 *T) {
				s1.Skip()
			})
			s0.Run("child2", func(s2 *T) {
				s2.SkipWithReason("why not")
			})
			s0.Run("child3", func(s3 *T) {
				s3.Pending()
			})
		})
	})

	assert.True(t, result.OK())
	assert.Len(t, result.Scenarios, 5)
	assert.Len(t, result.Failures, 0)
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, "", result.Skipped[0].SkipReason)
	assert.Equal(t, "why not", result.Skipped[1].SkipReason)
	assert.Equal(t, "pending", result.Skipped[2].SkipReason)
}

func TestScenarioFilter(t *testing.T) {
	filter := FilterFunc(func(id ScenarioID) bool {
		return len(id) == 0 || id[0] == "b"
	})

	result := run(t, Config{Filter: filter}, func(s *T) {
		s.Run("a", func(s0 *T) {
			s0.Run("sub1a", func(s1 *T) {})
			s0.Run("sub2a", func(s1 *T) {})
		})
		s.Run("b", func(s0 *T) {
			s0.Run("sub1b", func(s1 *T) {})
			s0.Run("sub2b", func(s1 *T) {})
		})
	})

	assert.True(t, result.OK())
	require.Len(t, result.Scenarios, 4)

	assert.Equal(t, ScenarioID{"b", "sub1b"}, result.Scenarios[0].ID)
	assert.Equal(t, ScenarioID{"b", "sub2b"}, result.Scenarios[1].ID)
	assert.Equal(t, ScenarioID{"b"}, result.Scenarios[2].ID)
	assert.Equal(t, ScenarioID(nil), result.Scenarios[3].ID)
}

func TestDeferredCleanupsRunInReverseOrder(t *testing.T) {
	var calls []string
	_ = run(t, Config{}, func(s *T) {
		s.Run("x", func(s *T) {
			s.Defer(func() { calls = append(calls, "first") })
			s.Defer(func() { calls = append(calls, "second") })
			s.FailNow()
		})
	})
	assert.Equal(t, []string{"second", "first"}, calls)
}

func TestWaitReportsFailedExpectations(t *testing.T) {
	result := run(t, engineConfig(fixedTransport(404, "{}")), func(s *T) {
		s.Run("found", func(s *T) {
			s.Get("users/1").ExpectStatus(200)
			assert.False(t, s.Wait())
		})
		s.Run("not found", func(s *T) {
			s.Get("users/99").ExpectStatus(404)
			assert.True(t, s.Wait())
		})
	})

	assert.False(t, result.OK())
	require.Len(t, result.Failures, 1)
	assert.Equal(t, ScenarioID{"found"}, result.Failures[0].ID)
	require.Len(t, result.Failures[0].Errors, 1)
	assert.Contains(t, result.Failures[0].Errors[0].Error(), "status differs: expected 200, got 404")
	assert.Equal(t, 2, result.Expectations.Total)
	assert.Equal(t, 1, result.Expectations.Failed)
}

func TestUnwaitedExpectationsAreEvaluatedWhenScenarioEnds(t *testing.T) {
	result := run(t, engineConfig(fixedTransport(500, "{}")), func(s *T) {
		s.Run("forgot to wait", func(s *T) {
			s.Post("albums", map[string]int{"id": 1}).ExpectStatus(201)
		})
		s.Run("next", func(s *T) {})
	})

	require.Len(t, result.Failures, 1)
	assert.Equal(t, ScenarioID{"forgot to wait"}, result.Failures[0].ID)
	assert.Equal(t, 1, result.Expectations.Failed)
}

func TestAwaitReturnsResponse(t *testing.T) {
	result := run(t, engineConfig(fixedTransport(201, `{"data":{"id":101}}`)), func(s *T) {
		s.Run("create then read", func(s *T) {
			resp := s.Await(s.Post("albums", map[string]string{"title": "x"}))
			id := resp.Body.GetByKey("data").GetByKey("id").IntValue()
			assert.Equal(t, 101, id)
		})
	})
	assert.True(t, result.OK())
}

func TestAwaitFailsScenarioWhenNoResponse(t *testing.T) {
	transport := contract.TransportFunc(func(ctx context.Context, req contract.Request) (contract.RawResponse, error) {
		return contract.RawResponse{}, errors.New("connection refused")
	})
	reachedEnd := false
	result := run(t, engineConfig(transport), func(s *T) {
		s.Run("dependent request", func(s *T) {
			s.Await(s.Get("users/1"))
			reachedEnd = true
		})
	})
	assert.False(t, reachedEnd)
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0].Errors[0].Error(), "connection refused")
}

func TestEngineRequiresTransport(t *testing.T) {
	result := run(t, Config{}, func(s *T) {
		s.Run("no engine", func(s *T) {
			s.Get("users")
		})
	})
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "no transport was configured for this run", result.Failures[0].Errors[0].Error())
}

func TestInvalidEngineConfigIsError(t *testing.T) {
	_, err := Run(Config{Transport: fixedTransport(200, "")}, func(*T) {})
	assert.Error(t, err)
}

func TestEngineOutputGoesToRunningScenario(t *testing.T) {
	logger := &recordingLogger{}
	config := engineConfig(fixedTransport(200, "{}"))
	config.Logger = logger
	_ = run(t, config, func(s *T) {
		s.Run("a", func(s *T) {
			s.Get("users").ExpectStatus(200)
			s.Wait()
		})
	})
	require.Contains(t, logger.output, "a")
	assert.Contains(t, logger.output["a"].ToString(""), "GET http://api.test/users -> 200")
}
