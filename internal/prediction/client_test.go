package prediction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/penilaian-api/internal/grading"
	"github.com/sekolahku/penilaian-api/pkg/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.PredictionConfig{
		URL:     url,
		Timeout: 2 * time.Second,
		Enabled: true,
	}, nil)
}

func TestPredictSendsSubjectPayload(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediksi_semester_berikutnya":{"Matematika":90}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	raw := client.Predict(context.Background(), grading.Scores{
		Matematika: 80, IPA: 81, IPS: 82, BIndonesia: 83, BInggris: 84,
	}, "ganjil")

	require.NotNil(t, raw)
	assert.Equal(t, 80.0, received["Matematika"])
	assert.Equal(t, 83.0, received["B.Indonesia"])
	assert.Equal(t, 84.0, received["B.Inggris"])
	assert.Equal(t, "ganjil", received["Semester"])
}

func TestPredictReturnsNilOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.Nil(t, client.Predict(context.Background(), grading.Scores{}, "ganjil"))
}

func TestPredictReturnsNilOnInvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not-json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.Nil(t, client.Predict(context.Background(), grading.Scores{}, "ganjil"))
}

func TestPredictDisabled(t *testing.T) {
	client := NewClient(config.PredictionConfig{Enabled: false}, nil)
	assert.Nil(t, client.Predict(context.Background(), grading.Scores{}, "ganjil"))
}
