package extraction

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ortoflow/internal/core/types"
	"ortoflow/internal/domain/orderparse"
)

// responsesServer fakes POST /responses, answering with outputText.
func responsesServer(t *testing.T, status int, outputText string, captured *map[string]any) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/responses"), r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if captured != nil {
			require.NoError(t, json.Unmarshal(body, captured))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":         "resp_1",
			"object":     "response",
			"created_at": 1767225600,
			"model":      "gpt-4o-mini",
			"status":     "completed",
			"output": []any{map[string]any{
				"type":   "message",
				"id":     "msg_1",
				"status": "completed",
				"role":   "assistant",
				"content": []any{map[string]any{
					"type":        "output_text",
					"text":        outputText,
					"annotations": []any{},
				}},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestExtractor(baseURL string, lenient bool) *Extractor {
	e := New(Config{
		APIKey:   "test-key",
		BaseURL:  baseURL,
		Model:    "gpt-4o-mini",
		Timeout:  5 * time.Second,
		Lenient:  lenient,
		Location: time.UTC,
	})
	e.now = func() time.Time { return time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC) }
	return e
}

func TestExtract_OK(t *testing.T) {
	var body map[string]any
	srv, _ := responsesServer(t, http.StatusOK, `{
		"items": [
			{"product_name": "pomodori san marzano", "quantity": 5, "unit": "KG"},
			{"product_name": "basilico", "unit": "MAZZO"},
			{"product_name": "mele", "quantity": 2.5}
		],
		"customer_name": "Trattoria Da Mario",
		"delivery_date": "2026-03-14",
		"notes": "lasciare sul retro"
	}`, &body)

	e := newTestExtractor(srv.URL, false)
	img := &orderparse.Image{MIMEType: "image/png", Data: []byte("png")}
	out, err := e.Extract(context.Background(), orderparse.ExtractRequest{
		Text:         "5 kg pomodori san marzano, un mazzo di basilico, 2,5 kg mele. Domani.",
		Image:        img,
		CatalogNames: []string{"Pomodori San Marzano", "Basilico Genovese"},
	})
	require.NoError(t, err)

	require.Len(t, out.Items, 3)
	assert.Equal(t, "pomodori san marzano", out.Items[0].ProductName)
	require.NotNil(t, out.Items[0].Quantity)
	assert.True(t, out.Items[0].Quantity.Equal(types.MustQuantity("5")))
	assert.Equal(t, orderparse.UnitKilogram, out.Items[0].Unit)
	assert.Nil(t, out.Items[1].Quantity)
	assert.Equal(t, orderparse.UnitBunch, out.Items[1].Unit)
	assert.True(t, out.Items[2].Quantity.Equal(types.MustQuantity("2.5")))
	assert.Equal(t, orderparse.Unit(""), out.Items[2].Unit)

	require.NotNil(t, out.CustomerName)
	assert.Equal(t, "Trattoria Da Mario", *out.CustomerName)
	require.NotNil(t, out.DeliveryDate)
	assert.Equal(t, "2026-03-14", out.DeliveryDate.Format("2006-01-02"))
	require.NotNil(t, out.Notes)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	instructions, _ := body["instructions"].(string)
	assert.Contains(t, instructions, "- Pomodori San Marzano")
	assert.Contains(t, instructions, "Today is 2026-03-13 (venerdì)")

	raw, _ := json.Marshal(body["input"])
	assert.Contains(t, string(raw), "data:image/png;base64,cG5n")
	assert.Contains(t, string(raw), "un mazzo di basilico")

	format, _ := json.Marshal(body["text"])
	assert.Contains(t, string(format), `"json_schema"`)
	assert.Contains(t, string(format), `"order_extraction"`)
}

func TestExtract_CodeFence(t *testing.T) {
	srv, _ := responsesServer(t, http.StatusOK, "```json\n{\"items\":[{\"product_name\":\"zucchine\",\"quantity\":3}]}\n```", nil)

	out, err := newTestExtractor(srv.URL, false).Extract(context.Background(), orderparse.ExtractRequest{Text: "3 zucchine"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "zucchine", out.Items[0].ProductName)
}

func TestExtract_LenientSanitize(t *testing.T) {
	output := `{
		"items": [{"product_name": " carote ", "quantity": "2,5", "unit": "kg", "price": 3}],
		"delivery_date": "14/03/2026",
		"customer_name": "",
		"confidence": 0.9
	}`

	t.Run("strict rejects", func(t *testing.T) {
		srv, _ := responsesServer(t, http.StatusOK, output, nil)
		_, err := newTestExtractor(srv.URL, false).Extract(context.Background(), orderparse.ExtractRequest{Text: "carote"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
	})

	t.Run("lenient repairs", func(t *testing.T) {
		srv, _ := responsesServer(t, http.StatusOK, output, nil)
		out, err := newTestExtractor(srv.URL, true).Extract(context.Background(), orderparse.ExtractRequest{Text: "carote"})
		require.NoError(t, err)
		require.Len(t, out.Items, 1)
		assert.Equal(t, "carote", out.Items[0].ProductName)
		assert.True(t, out.Items[0].Quantity.Equal(types.MustQuantity("2.5")))
		assert.Equal(t, orderparse.UnitKilogram, out.Items[0].Unit)
		assert.Nil(t, out.CustomerName)
		require.NotNil(t, out.DeliveryDate)
		assert.Equal(t, "2026-03-14", out.DeliveryDate.Format("2006-01-02"))
	})
}

func TestExtract_Failures(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		srv, _ := responsesServer(t, http.StatusOK, "Mi dispiace, non ho capito.", nil)
		_, err := newTestExtractor(srv.URL, true).Extract(context.Background(), orderparse.ExtractRequest{Text: "?"})
		assert.Error(t, err)
	})

	t.Run("missing items", func(t *testing.T) {
		srv, _ := responsesServer(t, http.StatusOK, `{"notes":"boh"}`, nil)
		_, err := newTestExtractor(srv.URL, true).Extract(context.Background(), orderparse.ExtractRequest{Text: "?"})
		assert.Error(t, err)
	})

	t.Run("empty output", func(t *testing.T) {
		srv, _ := responsesServer(t, http.StatusOK, "", nil)
		_, err := newTestExtractor(srv.URL, true).Extract(context.Background(), orderparse.ExtractRequest{Text: "?"})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("upstream error", func(t *testing.T) {
		srv, _ := responsesServer(t, http.StatusInternalServerError, "", nil)
		_, err := newTestExtractor(srv.URL, true).Extract(context.Background(), orderparse.ExtractRequest{Text: "2 kg mele"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "openai responses error")
	})
}

func TestExtract_EmptyInputSkipsCall(t *testing.T) {
	srv, calls := responsesServer(t, http.StatusOK, `{"items":[]}`, nil)

	out, err := newTestExtractor(srv.URL, false).Extract(context.Background(), orderparse.ExtractRequest{Text: "   "})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestExtract_RateLimitHonoursContext(t *testing.T) {
	srv, calls := responsesServer(t, http.StatusOK, `{"items":[]}`, nil)
	e := New(Config{APIKey: "k", BaseURL: srv.URL, RatePerMinute: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Extract(ctx, orderparse.ExtractRequest{Text: "2 kg mele"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
	assert.Zero(t, atomic.LoadInt32(calls))
}
