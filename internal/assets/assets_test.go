// Notes:
// - The sync tests pin the embedded documents to the in-code defaults, so
//   editing one without the other fails fast.
package assets_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/alnah/go-pms2pass/internal/assets"
	"github.com/alnah/go-pms2pass/internal/config"
	"github.com/alnah/go-pms2pass/internal/layout"
	"github.com/alnah/go-pms2pass/internal/yamlutil"
)

// ---- TestDocument - embedded document loading ----

func TestDocument(t *testing.T) {
	t.Parallel()

	t.Run("config document exists", func(t *testing.T) {
		t.Parallel()
		content, err := assets.Document("config")
		if err != nil {
			t.Fatalf("Document() error = %v", err)
		}
		if len(content) == 0 {
			t.Error("config document is empty")
		}
	})

	t.Run("layout document exists", func(t *testing.T) {
		t.Parallel()
		content, err := assets.Document("layout")
		if err != nil {
			t.Fatalf("Document() error = %v", err)
		}
		if len(content) == 0 {
			t.Error("layout document is empty")
		}
	})

	t.Run("unknown document returns ErrAssetNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := assets.Document("missing")
		if !errors.Is(err, assets.ErrAssetNotFound) {
			t.Errorf("error = %v, want ErrAssetNotFound", err)
		}
	})

	t.Run("empty name returns ErrInvalidAssetName", func(t *testing.T) {
		t.Parallel()
		_, err := assets.Document("")
		if !errors.Is(err, assets.ErrInvalidAssetName) {
			t.Errorf("error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("traversal name returns ErrInvalidAssetName", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"../config", "a/b", `a\b`, "config.yml"} {
			if _, err := assets.Document(name); !errors.Is(err, assets.ErrInvalidAssetName) {
				t.Errorf("Document(%q) error = %v, want ErrInvalidAssetName", name, err)
			}
		}
	})
}

// ---- TestNames - document listing ----

func TestNames(t *testing.T) {
	t.Parallel()

	got := assets.Names()
	want := []string{"config", "layout"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

// ---- TestDocument_MatchesDefaults - embedded documents stay in sync ----

func TestDocument_MatchesDefaults(t *testing.T) {
	t.Parallel()

	t.Run("config document equals DefaultConfig", func(t *testing.T) {
		t.Parallel()
		content, err := assets.Document("config")
		if err != nil {
			t.Fatalf("Document() error = %v", err)
		}

		var parsed config.Config
		if err := yamlutil.UnmarshalStrict(content, &parsed); err != nil {
			t.Fatalf("embedded config does not parse: %v", err)
		}
		if want := config.DefaultConfig(); !reflect.DeepEqual(parsed, want) {
			t.Errorf("embedded config = %+v, want %+v", parsed, want)
		}
	})

	t.Run("layout document equals DefaultSpec", func(t *testing.T) {
		t.Parallel()
		content, err := assets.Document("layout")
		if err != nil {
			t.Fatalf("Document() error = %v", err)
		}

		var parsed layout.Spec
		if err := yamlutil.UnmarshalStrict(content, &parsed); err != nil {
			t.Fatalf("embedded layout does not parse: %v", err)
		}
		if want := layout.DefaultSpec(); !reflect.DeepEqual(parsed, want) {
			t.Errorf("embedded layout = %+v, want %+v", parsed, want)
		}
	})
}
