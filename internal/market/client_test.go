package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chartBody(price float64) string {
	return fmt.Sprintf(`{"chart":{"result":[{
		"meta":{"regularMarketPrice":%f},
		"timestamp":[1700000000,1700000060],
		"indicators":{"quote":[{"close":[%f,null]}]}
	}],"error":null}}`, price, price)
}

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	return NewClient(server.URL, 2*time.Second), server
}

func TestCurrentPrice(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(150.25))
	})
	defer server.Close()

	price, err := client.CurrentPrice(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("CurrentPrice failed: %v", err)
	}
	if price != 150.25 {
		t.Errorf("expected 150.25, got %f", price)
	}
}

func TestCurrentPrice_NonPositiveIsError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartBody(0))
	})
	defer server.Close()

	_, err := client.CurrentPrice(context.Background(), "AAPL")
	if !errors.Is(err, ErrNoPrice) {
		t.Fatalf("expected ErrNoPrice, got: %v", err)
	}
}

func TestCurrentPrice_EmptyResult(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
	})
	defer server.Close()

	_, err := client.CurrentPrice(context.Background(), "NOPE")
	if !errors.Is(err, ErrNoPrice) {
		t.Fatalf("expected ErrNoPrice, got: %v", err)
	}
}

func TestCurrentPrice_FeedError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	})
	defer server.Close()

	_, err := client.CurrentPrice(context.Background(), "NOPE")
	if err == nil {
		t.Fatal("expected error for feed-reported failure")
	}
}

func TestCurrentPrice_HTTPError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := client.CurrentPrice(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestSeries(t *testing.T) {
	var gotPath string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		fmt.Fprint(w, chartBody(42.5))
	})
	defer server.Close()

	series, err := client.Series(context.Background(), "MSFT", "1mo", "1d")
	if err != nil {
		t.Fatalf("Series failed: %v", err)
	}

	if gotPath != "/v8/finance/chart/MSFT?range=1mo&interval=1d" {
		t.Errorf("unexpected request: %s", gotPath)
	}
	if series.CurrentPrice != 42.5 {
		t.Errorf("expected current price 42.5, got %f", series.CurrentPrice)
	}
	if len(series.Timestamps) != 2 || len(series.Prices) != 2 {
		t.Errorf("unexpected series shape: %+v", series)
	}
	if series.Prices[0] == nil || *series.Prices[0] != 42.5 {
		t.Errorf("expected first close 42.5, got %+v", series.Prices[0])
	}
	if series.Prices[1] != nil {
		t.Errorf("expected nil for missing interval, got %+v", series.Prices[1])
	}
}

func TestTimeoutIsBounded(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, chartBody(1))
	})
	defer server.Close()

	client.httpClient.Timeout = 50 * time.Millisecond
	_, err := client.CurrentPrice(context.Background(), "SLOW")
	if err == nil {
		t.Fatal("expected timeout error")
	}
}
