package models

import (
	"strings"
	"testing"
)

// TestParseRetMode verifies token parsing and rejection of unknown modes
func TestParseRetMode(t *testing.T) {
	tests := []struct {
		input   string
		want    RetMode
		wantErr bool
	}{
		{"json", RetModeJSON, false},
		{"JSON", RetModeJSON, false},
		{" xml ", RetModeXML, false},
		{"text", RetModeText, false},
		{"", "", true},
		{"html", "", true},
		{"jsonp", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRetMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseRetMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseRetMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestEInfoRequestValues verifies unset fields never reach the query string
func TestEInfoRequestValues(t *testing.T) {
	empty := EInfoRequest{}
	if got := empty.Values(); len(got) != 0 {
		t.Errorf("empty EInfoRequest serialized to %v, want no parameters", got)
	}

	full := EInfoRequest{Db: "protein", Version: "2.0", RetMode: RetModeJSON}
	v := full.Values()
	if len(v) != 3 {
		t.Errorf("expected 3 parameters, got %v", v)
	}
	if v.Get("db") != "protein" || v.Get("version") != "2.0" || v.Get("retmode") != "json" {
		t.Errorf("unexpected serialization: %v", v)
	}
}

// TestESearchRequestValues verifies only explicitly set fields are transmitted
func TestESearchRequestValues(t *testing.T) {
	t.Run("term only", func(t *testing.T) {
		v := ESearchRequest{Term: "asthma"}.Values()
		if len(v) != 1 || v.Get("term") != "asthma" {
			t.Errorf("ESearchRequest{Term: asthma}.Values() = %v, want only term=asthma", v)
		}
	})

	t.Run("all fields", func(t *testing.T) {
		retStart, retMax := 20, 100
		v := ESearchRequest{
			Db:         "pubmed",
			Term:       "asthma[title]",
			RetMode:    RetModeJSON,
			RetStart:   &retStart,
			RetMax:     &retMax,
			DateType:   "pdat",
			MinDate:    "2020/01/01",
			MaxDate:    "2020/12/31",
			UseHistory: true,
		}.Values()

		want := map[string]string{
			"db":         "pubmed",
			"term":       "asthma[title]",
			"retmode":    "json",
			"retstart":   "20",
			"retmax":     "100",
			"datetype":   "pdat",
			"mindate":    "2020/01/01",
			"maxdate":    "2020/12/31",
			"usehistory": "y",
		}
		if len(v) != len(want) {
			t.Fatalf("expected %d parameters, got %v", len(want), v)
		}
		for key, val := range want {
			if v.Get(key) != val {
				t.Errorf("param %s = %q, want %q", key, v.Get(key), val)
			}
		}
	})

	t.Run("zero-valued pointers are still sent", func(t *testing.T) {
		retStart := 0
		v := ESearchRequest{Term: "asthma", RetStart: &retStart}.Values()
		if v.Get("retstart") != "0" {
			t.Errorf("explicit retstart=0 dropped from query: %v", v)
		}
	})
}

const esearchBody = `{
	"header": {"type": "esearch", "version": "0.3"},
	"esearchresult": {
		"count": "2",
		"retmax": "2",
		"retstart": "0",
		"idlist": ["1", "2"],
		"translationset": [{"from": "asthma", "to": "asthma[MeSH Terms]"}],
		"querytranslation": "asthma[MeSH Terms]"
	}
}`

// TestParseESearchResponse covers both the happy path and schema violations
func TestParseESearchResponse(t *testing.T) {
	resp, err := ParseESearchResponse([]byte(esearchBody))
	if err != nil {
		t.Fatalf("ParseESearchResponse failed: %v", err)
	}
	if len(resp.Result.IDList) != 2 || resp.Result.IDList[0] != "1" || resp.Result.IDList[1] != "2" {
		t.Errorf("IDList = %v, want [1 2]", resp.Result.IDList)
	}
	if resp.Result.Count != "2" {
		t.Errorf("Count = %q, want 2", resp.Result.Count)
	}
	if len(resp.Result.TranslationSet) != 1 || resp.Result.TranslationSet[0].To != "asthma[MeSH Terms]" {
		t.Errorf("TranslationSet = %v", resp.Result.TranslationSet)
	}

	invalid := []struct {
		name string
		body string
		want string
	}{
		{"not json", `<?xml version="1.0"?>`, "failed to parse"},
		{"missing result", `{"header": {"type": "esearch"}}`, "esearchresult"},
		{"missing count", `{"esearchresult": {"idlist": ["1"]}}`, "count"},
		{"missing idlist", `{"esearchresult": {"count": "0"}}`, "idlist"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseESearchResponse([]byte(tt.body)); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			} else if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

const einfoListBody = `{
	"header": {"type": "einfo", "version": "0.3"},
	"einforesult": {"dblist": ["pubmed", "protein", "nuccore"]}
}`

const einfoDbBody = `{
	"header": {"type": "einfo", "version": "0.3"},
	"einforesult": {"dbinfo": [{
		"dbname": "pubmed",
		"menuname": "PubMed",
		"description": "PubMed bibliographic record",
		"dbbuild": "Build-2024.01.01",
		"count": "36000000",
		"lastupdate": "2024/01/01 00:00",
		"fieldlist": [{"name": "TITL", "fullname": "Title", "termcount": "140000000"}],
		"linklist": [{"name": "pubmed_protein", "menu": "Protein Links", "description": "Published protein sequences", "dbto": "protein"}]
	}]}
}`

// TestParseEInfoResponse covers both response forms and schema violations
func TestParseEInfoResponse(t *testing.T) {
	t.Run("database list", func(t *testing.T) {
		resp, err := ParseEInfoResponse([]byte(einfoListBody))
		if err != nil {
			t.Fatalf("ParseEInfoResponse failed: %v", err)
		}
		if len(resp.Result.DbList) != 3 || resp.Result.DbList[0] != "pubmed" {
			t.Errorf("DbList = %v", resp.Result.DbList)
		}
	})

	t.Run("single database", func(t *testing.T) {
		resp, err := ParseEInfoResponse([]byte(einfoDbBody))
		if err != nil {
			t.Fatalf("ParseEInfoResponse failed: %v", err)
		}
		if len(resp.Result.DbInfo) != 1 {
			t.Fatalf("DbInfo = %v, want one entry", resp.Result.DbInfo)
		}
		info := resp.Result.DbInfo[0]
		if info.DbName != "pubmed" || info.Count != "36000000" {
			t.Errorf("unexpected DbInfo: %+v", info)
		}
		if len(info.FieldList) != 1 || info.FieldList[0].TermCount != "140000000" {
			t.Errorf("unexpected FieldList: %+v", info.FieldList)
		}
		if len(info.LinkList) != 1 || info.LinkList[0].DbTo != "protein" {
			t.Errorf("unexpected LinkList: %+v", info.LinkList)
		}
	})

	t.Run("missing result", func(t *testing.T) {
		if _, err := ParseEInfoResponse([]byte(`{"header": {"type": "einfo"}}`)); err == nil {
			t.Error("expected validation error for body without einforesult")
		}
	})

	t.Run("empty result", func(t *testing.T) {
		if _, err := ParseEInfoResponse([]byte(`{"einforesult": {}}`)); err == nil {
			t.Error("expected validation error for result without dblist or dbinfo")
		}
	})
}
