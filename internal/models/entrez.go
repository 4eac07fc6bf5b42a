package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// RetMode identifies the response encoding requested from an E-utility
type RetMode string

const (
	RetModeJSON RetMode = "json"
	RetModeXML  RetMode = "xml"
	RetModeText RetMode = "text"
)

// ParseRetMode converts a user-supplied token into a RetMode
// Matching is case-insensitive; unrecognized tokens are a validation error
func ParseRetMode(s string) (RetMode, error) {
	switch RetMode(strings.ToLower(strings.TrimSpace(s))) {
	case RetModeJSON:
		return RetModeJSON, nil
	case RetModeXML:
		return RetModeXML, nil
	case RetModeText:
		return RetModeText, nil
	}
	return "", fmt.Errorf("unrecognized return mode %q (valid: json, xml, text)", s)
}

// Valid reports whether the mode is one of the known encodings
func (m RetMode) Valid() bool {
	switch m {
	case RetModeJSON, RetModeXML, RetModeText:
		return true
	}
	return false
}

func (m RetMode) String() string {
	return string(m)
}

// EInfoRequest holds query parameters for the EInfo endpoint
// All fields are optional; an empty request lists every Entrez database
type EInfoRequest struct {
	Db      string  // Target database (e.g. "pubmed", "protein")
	Version string  // API version; "2.0" adds IsTruncatable/IsRangeable fields
	RetMode RetMode // Response encoding; empty defaults to JSON
}

// Values serializes the request into query parameters
// Unset fields are excluded entirely - absence signals "not requested"
func (r EInfoRequest) Values() url.Values {
	v := url.Values{}
	if r.Db != "" {
		v.Set("db", r.Db)
	}
	if r.Version != "" {
		v.Set("version", r.Version)
	}
	if r.RetMode != "" {
		v.Set("retmode", string(r.RetMode))
	}
	return v
}

// ESearchRequest holds query parameters for the ESearch endpoint
type ESearchRequest struct {
	Db         string  // Target database; remote defaults to pubmed
	Term       string  // Text query (supports field tags like "asthma[title]")
	RetMode    RetMode // Response encoding; empty defaults to JSON
	RetStart   *int    // Index of the first UID to return (pagination)
	RetMax     *int    // Maximum number of UIDs to return
	DateType   string  // Date field for range filtering (e.g. "pdat", "edat")
	MinDate    string  // Range start, YYYY/MM/DD
	MaxDate    string  // Range end, YYYY/MM/DD
	UseHistory bool    // Store results on the Entrez History server
}

// Values serializes the request into query parameters, omitting unset fields
func (r ESearchRequest) Values() url.Values {
	v := url.Values{}
	if r.Db != "" {
		v.Set("db", r.Db)
	}
	if r.Term != "" {
		v.Set("term", r.Term)
	}
	if r.RetMode != "" {
		v.Set("retmode", string(r.RetMode))
	}
	if r.RetStart != nil {
		v.Set("retstart", strconv.Itoa(*r.RetStart))
	}
	if r.RetMax != nil {
		v.Set("retmax", strconv.Itoa(*r.RetMax))
	}
	if r.DateType != "" {
		v.Set("datetype", r.DateType)
	}
	if r.MinDate != "" {
		v.Set("mindate", r.MinDate)
	}
	if r.MaxDate != "" {
		v.Set("maxdate", r.MaxDate)
	}
	if r.UseHistory {
		// "y" is the only value the E-utilities accept
		v.Set("usehistory", "y")
	}
	return v
}

// Header identifies the E-utility and schema version that produced a response
type Header struct {
	Type    string `json:"type"`
	Version string `json:"version"`
}

// DbField describes one indexed field of an Entrez database
type DbField struct {
	Name          string `json:"name"`
	FullName      string `json:"fullname"`
	Description   string `json:"description"`
	TermCount     string `json:"termcount"` // Numeric, but served as a string
	IsDate        string `json:"isdate"`
	IsNumerical   string `json:"isnumerical"`
	SingleToken   string `json:"singletoken"`
	Hierarchy     string `json:"hierarchy"`
	IsHidden      string `json:"ishidden"`
	IsTruncatable string `json:"istruncatable,omitempty"` // Version 2.0 only
	IsRangeable   string `json:"israngable,omitempty"`    // Version 2.0 only; typo is NCBI's
}

// DbLink describes a computed link from one Entrez database to another
type DbLink struct {
	Name        string `json:"name"`
	Menu        string `json:"menu"`
	Description string `json:"description"`
	DbTo        string `json:"dbto"`
}

// DbInfo describes a single Entrez database
type DbInfo struct {
	DbName      string    `json:"dbname"`
	MenuName    string    `json:"menuname"`
	Description string    `json:"description"`
	DbBuild     string    `json:"dbbuild"`
	Count       string    `json:"count"`
	LastUpdate  string    `json:"lastupdate"`
	FieldList   []DbField `json:"fieldlist"`
	LinkList    []DbLink  `json:"linklist"`
}

// EInfoResult is the payload of an EInfo response: either the list of all
// database names, or detailed info for the requested database
type EInfoResult struct {
	DbList []string `json:"dblist,omitempty"`
	DbInfo []DbInfo `json:"dbinfo,omitempty"`
}

// EInfoResponse is the parsed body of an einfo.fcgi JSON response
type EInfoResponse struct {
	Header Header       `json:"header"`
	Result *EInfoResult `json:"einforesult"`
}

// Validate checks that the response carries the structure EInfo promises
func (r *EInfoResponse) Validate() error {
	if r.Result == nil {
		return fmt.Errorf("einfo response missing required key \"einforesult\"")
	}
	if r.Result.DbList == nil && len(r.Result.DbInfo) == 0 {
		return fmt.Errorf("einfo result contains neither \"dblist\" nor \"dbinfo\"")
	}
	return nil
}

// Translation records how the remote service rewrote part of a query term
type Translation struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ESearchErrors lists query components the remote service could not resolve
type ESearchErrors struct {
	PhrasesNotFound []string `json:"phrasesnotfound"`
	FieldsNotFound  []string `json:"fieldsnotfound"`
}

// ESearchWarnings lists non-fatal issues the remote service reported
type ESearchWarnings struct {
	PhrasesIgnored        []string `json:"phrasesignored"`
	QuotedPhrasesNotFound []string `json:"quotedphrasesnotfound"`
	OutputMessages        []string `json:"outputmessages"`
}

// ESearchResult is the payload of an ESearch response
type ESearchResult struct {
	Count            string           `json:"count"`
	RetMax           string           `json:"retmax"`
	RetStart         string           `json:"retstart"`
	QueryKey         string           `json:"querykey,omitempty"` // Present with usehistory=y
	WebEnv           string           `json:"webenv,omitempty"`   // Present with usehistory=y
	IDList           []string         `json:"idlist"`
	TranslationSet   []Translation    `json:"translationset"`
	QueryTranslation string           `json:"querytranslation"`
	ErrorList        *ESearchErrors   `json:"errorlist,omitempty"`
	WarningList      *ESearchWarnings `json:"warninglist,omitempty"`
}

// ESearchResponse is the parsed body of an esearch.fcgi JSON response
type ESearchResponse struct {
	Header Header         `json:"header"`
	Result *ESearchResult `json:"esearchresult"`
}

// Validate checks that the response carries the structure ESearch promises
func (r *ESearchResponse) Validate() error {
	if r.Result == nil {
		return fmt.Errorf("esearch response missing required key \"esearchresult\"")
	}
	if r.Result.Count == "" {
		return fmt.Errorf("esearch result missing required key \"count\"")
	}
	if r.Result.IDList == nil {
		return fmt.Errorf("esearch result missing required key \"idlist\"")
	}
	return nil
}

// ParseEInfoResponse parses and validates an einfo.fcgi JSON body
func ParseEInfoResponse(data []byte) (*EInfoResponse, error) {
	var resp EInfoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse einfo response: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseESearchResponse parses and validates an esearch.fcgi JSON body
func ParseESearchResponse(data []byte) (*ESearchResponse, error) {
	var resp ESearchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse esearch response: %w", err)
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}
