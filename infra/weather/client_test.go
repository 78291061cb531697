package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haulware/routeopt/core/geo"
)

type nopLog struct{}

func (nopLog) Debugf(string, ...any)         {}
func (nopLog) Debugw(string, map[string]any) {}
func (nopLog) Infof(string, ...any)          {}
func (nopLog) Warnf(string, ...any)          {}
func (nopLog) Errorf(string, ...any)         {}

func TestForecastUnconfigured(t *testing.T) {
	c := NewClient(Config{}, nopLog{})
	if _, err := c.Forecast(context.Background(), "Lyon", 1); !errors.Is(err, geo.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Lyon" || q.Get("appid") != "key" || q.Get("cnt") != "8" {
			t.Errorf("query = %v", q)
		}
		fmt.Fprint(w, `{"list":[{"weather":[{"main":"Snow"}]}]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "key"}, nopLog{})
	fc, err := c.Forecast(context.Background(), "Lyon", 1)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if fc.Condition != "Snow" {
		t.Errorf("condition = %q, want Snow", fc.Condition)
	}
}

func TestForecastEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"list":[]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "key"}, nopLog{})
	if _, err := c.Forecast(context.Background(), "Lyon", 1); !errors.Is(err, geo.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestForecastBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "key"}, nopLog{})
	if _, err := c.Forecast(context.Background(), "Lyon", 1); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}
