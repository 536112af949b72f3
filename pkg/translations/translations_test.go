package translations

import (
	"testing"

	"github.com/tidwall/gjson"
)

const template = `{
  "fields": [],
  "formTranslations": {
    "en-us": {
      "country": "Country of Residence",
      "requestType": "What do you need?",
      "orphan": "Not tracked"
    }
  }
}`

const translationsDoc = `{
  "fields": {
    "country": "Country",
    "requestType": "What do you need?"
  },
  "options": {
    "US": "United States"
  }
}`

func TestSyncUpdatesStaleLabels(t *testing.T) {
	updates, out, err := Sync([]byte(template), []byte(translationsDoc))
	if err != nil {
		t.Fatal(err)
	}

	if len(updates) != 1 {
		t.Fatalf("expected 1 update, got %d: %+v", len(updates), updates)
	}
	u := updates[0]
	if u.Field != "country" || u.Old != "Country" || u.New != "Country of Residence" {
		t.Fatalf("unexpected update: %+v", u)
	}

	if got := gjson.GetBytes(out, "fields.country").String(); got != "Country of Residence" {
		t.Fatalf("label not written: %q", got)
	}
}

func TestSyncLeavesOtherSectionsAlone(t *testing.T) {
	_, out, err := Sync([]byte(template), []byte(translationsDoc))
	if err != nil {
		t.Fatal(err)
	}

	if got := gjson.GetBytes(out, "options.US").String(); got != "United States" {
		t.Fatalf("options section was touched: %q", got)
	}
	// Labels with no entry under fields are not added.
	if gjson.GetBytes(out, "fields.orphan").Exists() {
		t.Fatal("orphan label should not be introduced")
	}
}

func TestSyncNoChanges(t *testing.T) {
	inSync := `{"fields": {"requestType": "What do you need?"}}`
	updates, out, err := Sync([]byte(template), []byte(inSync))
	if err != nil {
		t.Fatal(err)
	}
	if len(updates) != 0 {
		t.Fatalf("expected no updates, got %+v", updates)
	}
	if string(out) != inSync {
		t.Fatalf("document changed without updates: %s", out)
	}
}

func TestSyncMissingEnUS(t *testing.T) {
	if _, _, err := Sync([]byte(`{"fields": []}`), []byte(translationsDoc)); err == nil {
		t.Fatal("expected an error when en-us translations are missing")
	}
}

func TestSyncRejectsBadJSON(t *testing.T) {
	if _, _, err := Sync([]byte("nope"), []byte(translationsDoc)); err == nil {
		t.Fatal("expected an error for a non-JSON template")
	}
	if _, _, err := Sync([]byte(template), []byte("nope")); err == nil {
		t.Fatal("expected an error for a non-JSON translations file")
	}
}
