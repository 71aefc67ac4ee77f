package client

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jpequegn/powclient/internal/config"
	"github.com/jpequegn/powclient/internal/oracle"
	"github.com/jpequegn/powclient/internal/pow"
)

// fixedNonceOracle is satisfied by exactly the nonce the test server
// expects, letting the whole fetch/solve/submit sequence run against a
// real HTTP round trip without waiting on SHA-256 difficulty odds.
type fixedNonceOracle struct {
	solution int64
}

func (o fixedNonceOracle) Evaluate(params []byte, nonce int64) (digest [32]byte, satisfies bool) {
	return digest, nonce == o.solution
}

func newTestServer(t *testing.T, solution int64) *httptest.Server {
	t.Helper()
	params := []byte("server-params")

	mux := http.NewServeMux()
	mux.HandleFunc("/request", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"status":  200,
			"message": "ok",
			"challenge": pow.Challenge{
				Params:              params,
				LeadingZeroBits:     8,
				RecommendedAttempts: 256,
				IssuedAt:            time.Now(),
				ExpiresAt:           time.Now().Add(time.Minute),
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/response", func(w http.ResponseWriter, r *http.Request) {
		var body pow.ChallengeResponse
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.Solution != solution || base64.StdEncoding.EncodeToString(body.Params) != base64.StdEncoding.EncodeToString(params) {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]any{"status": 403, "message": "invalid solution"})
			return
		}
		resp := map[string]any{
			"status":  200,
			"message": "ok",
			"token":   pow.Token{Value: "tok-abc123", ExpiresAt: time.Now().Add(time.Hour)},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	return httptest.NewServer(mux)
}

func TestFacade_Validate_FullSequence(t *testing.T) {
	srv := newTestServer(t, 42)
	defer srv.Close()

	cfg := config.Default()
	cfg.APIBaseURL = srv.URL
	cfg.TestingProfile = true

	f := New(cfg, func(int) oracle.Oracle { return fixedNonceOracle{solution: 42} }, nil)

	token, err := f.Validate(t.Context(), "/protected", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token.Value != "tok-abc123" {
		t.Errorf("token.Value = %q, want tok-abc123", token.Value)
	}
}

func TestFacade_ValidateDetailed_ExposesResponseAndThreadCount(t *testing.T) {
	srv := newTestServer(t, 7)
	defer srv.Close()

	cfg := config.Default()
	cfg.APIBaseURL = srv.URL
	cfg.TestingProfile = true

	f := New(cfg, func(int) oracle.Oracle { return fixedNonceOracle{solution: 7} }, nil)

	result, err := f.ValidateDetailed(t.Context(), "/protected", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Response.Solution != 7 {
		t.Errorf("Response.Solution = %d, want 7", result.Response.Solution)
	}
	if result.ThreadCount != 1 {
		t.Errorf("ThreadCount = %d, want 1", result.ThreadCount)
	}
}

func TestFacade_Validate_ServerRejectsSolution(t *testing.T) {
	srv := newTestServer(t, 42)
	defer srv.Close()

	cfg := config.Default()
	cfg.APIBaseURL = srv.URL
	cfg.TestingProfile = true

	// The oracle is satisfied by a nonce the server does not accept,
	// exercising the submit-rejected path.
	f := New(cfg, func(int) oracle.Oracle { return fixedNonceOracle{solution: 99} }, nil)

	_, err := f.Validate(t.Context(), "/protected", false)
	if err == nil {
		t.Fatal("expected an error when the server rejects the submitted solution")
	}
}

func TestFacade_Validate_UsesServerIssuedDifficulty(t *testing.T) {
	srv := newTestServer(t, 42)
	defer srv.Close()

	cfg := config.Default()
	cfg.APIBaseURL = srv.URL
	cfg.TestingProfile = true

	var gotBits int
	f := New(cfg, func(leadingZeroBits int) oracle.Oracle {
		gotBits = leadingZeroBits
		return fixedNonceOracle{solution: 42}
	}, nil)

	if _, err := f.Validate(t.Context(), "/protected", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBits != 8 {
		t.Errorf("oracle factory invoked with leadingZeroBits=%d, want the server-issued 8", gotBits)
	}
}

func TestFacade_SubmitSolution_RejectsNegativeSolution(t *testing.T) {
	srv := newTestServer(t, 42)
	defer srv.Close()

	cfg := config.Default()
	cfg.APIBaseURL = srv.URL
	cfg.TestingProfile = true

	f := New(cfg, func(int) oracle.Oracle { return fixedNonceOracle{solution: 42} }, nil)

	_, err := f.SubmitSolution(t.Context(), &pow.ChallengeResponse{Params: []byte("server-params"), Solution: -1})
	if err == nil {
		t.Fatal("expected an error for a negative Solution")
	}
}

func TestFacade_FetchChallenge_PropagatesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.APIBaseURL = srv.URL
	cfg.TestingProfile = true

	f := New(cfg, func(int) oracle.Oracle { return fixedNonceOracle{solution: 1} }, nil)

	_, err := f.FetchChallenge(t.Context(), "/protected")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
