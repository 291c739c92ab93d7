package termdat

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/termdeck/internal/domain"
	"github.com/kailas-cloud/termdeck/internal/domain/search/filter"
)

func TestBuildSearchQuery(t *testing.T) {
	f := filter.New(domain.LanguageIT, []domain.LanguageCode{domain.LanguageDE, domain.LanguageFR}, []int{12, 15})

	q, err := BuildSearchQuery(f, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	single := map[string]string{
		"pageindex":           "1",
		"pagesize":            "100",
		"sourceLanguageIds":   "7",
		"collectionsPriority": "true",
		"status":              "1",
		"statusPriority":      "true",
	}
	for k, want := range single {
		if got := q.Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if got := q["targetLanguageIds"]; !reflect.DeepEqual(got, []string{"2", "6"}) {
		t.Errorf("targetLanguageIds = %v", got)
	}
	if got := q["collections"]; !reflect.DeepEqual(got, []string{"12", "15"}) {
		t.Errorf("collections = %v", got)
	}
	for _, field := range disabledFields {
		if got := q.Get(field); got != "false" {
			t.Errorf("%s = %q, want false", field, got)
		}
	}
}

func TestBuildSearchQuery_SkipsUnresolvableCodes(t *testing.T) {
	f := filter.New(domain.LanguageRM, []domain.LanguageCode{domain.LanguageES, domain.LanguageEN}, []int{1})

	q, err := BuildSearchQuery(f, 2, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Has("sourceLanguageIds") {
		t.Errorf("expected no source id for RM, got %q", q.Get("sourceLanguageIds"))
	}
	if got := q["targetLanguageIds"]; !reflect.DeepEqual(got, []string{"3"}) {
		t.Errorf("targetLanguageIds = %v", got)
	}
}

func TestBuildSearchQuery_NoResolvableTargets(t *testing.T) {
	f := filter.New(domain.LanguageIT, []domain.LanguageCode{domain.LanguageES}, []int{1})

	q, err := BuildSearchQuery(f, 1, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Has("targetLanguageIds") {
		t.Errorf("expected no target ids, got %v", q["targetLanguageIds"])
	}
}

func TestBuildSearchQuery_NotReady(t *testing.T) {
	tests := []struct {
		name string
		f    filter.Filters
	}{
		{"no collections", filter.New(domain.LanguageIT, []domain.LanguageCode{domain.LanguageDE}, nil)},
		{"no targets", filter.New(domain.LanguageIT, nil, []int{1})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := BuildSearchQuery(tc.f, 1, 10); !errors.Is(err, domain.ErrNotReady) {
				t.Errorf("expected ErrNotReady, got %v", err)
			}
		})
	}
}

func TestBuildSearchQuery_Deterministic(t *testing.T) {
	f := filter.New(domain.LanguageIT, []domain.LanguageCode{domain.LanguageDE}, []int{3, 1})

	a, _ := BuildSearchQuery(f, 4, 25)
	b, _ := BuildSearchQuery(f, 4, 25)
	if a.Encode() != b.Encode() {
		t.Errorf("expected identical queries:\n%s\n%s", a.Encode(), b.Encode())
	}
}
