// Package normalizer turns the procurement catalog's inconsistent response
// trees into one canonical product record.
//
// The upstream service has been observed to answer in three nestings:
//
//	{ "response": { "body": { "items": Item | [Item] | { "item": Item | [Item] } } } }
//	{ "items": Item | [Item] }
//	Item
//
// Each nesting is recognised by one shape in an ordered chain; the first shape
// that matches supplies the candidate records.
package normalizer

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Upstream record field names.
const (
	FieldCatalogID = "prdctIdntNo"
	FieldSpec      = "prdctSpecNm"
	FieldContactor = "cntrctCorpNm"
	FieldMaker     = "prdctMakrNm"
	FieldClass     = "prdctClsfcNoNm"
	FieldPrice     = "cntrctPrceAmt"
	FieldImageURL  = "prdctImgUrl"
)

// Defaults used when a field is absent.
const (
	NoInformation  = "정보 없음"
	GenericProduct = "제품"
)

// Product is the canonical view of one catalog record. Every field is
// populated; absent upstream data degrades to the defaults above.
type Product struct {
	CatalogID   string
	DisplayName string
	Supplier    string
	Spec        string
	UnitPrice   int64
	ImageURL    string
}

type record = map[string]any

// shape is a predicate+extractor pair. ok reports whether the payload has
// this nesting; candidates are the records it carries (possibly none).
type shape struct {
	name    string
	extract func(root record) (candidates []any, ok bool)
}

var shapes = []shape{
	{name: "envelope", extract: envelopeCandidates},
	{name: "items", extract: itemsCandidates},
	{name: "bare", extract: bareCandidates},
}

// Decode parses a raw payload into a generic tree. Malformed input yields nil,
// which Normalize treats as an empty record.
func Decode(raw []byte) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil
	}
	return tree
}

// Normalize selects the record for requestedID from payload and extracts the
// canonical fields. It never fails.
func Normalize(payload any, requestedID string) Product {
	rec := selectRecord(Candidates(payload), requestedID)
	return extract(rec, requestedID)
}

// Candidates returns the records carried by payload according to the first
// matching shape.
func Candidates(payload any) []any {
	root, _ := payload.(record)
	for _, s := range shapes {
		if candidates, ok := s.extract(root); ok {
			return candidates
		}
	}
	return nil
}

// ShapeOf names the shape that matches payload. Used for logging.
func ShapeOf(payload any) string {
	root, _ := payload.(record)
	for _, s := range shapes {
		if _, ok := s.extract(root); ok {
			return s.name
		}
	}
	return ""
}

func envelopeCandidates(root record) ([]any, bool) {
	response, _ := root["response"].(record)
	body, _ := response["body"].(record)
	items, present := body["items"]
	if !present || !truthy(items) {
		return nil, false
	}

	switch v := items.(type) {
	case []any:
		return v, true
	case record:
		if inner, ok := v["item"]; ok && truthy(inner) {
			return asSequence(inner), true
		}
	}
	return nil, true
}

func itemsCandidates(root record) ([]any, bool) {
	items, present := root["items"]
	if !present || !truthy(items) {
		return nil, false
	}
	return asSequence(items), true
}

func bareCandidates(root record) ([]any, bool) {
	if root == nil {
		return []any{record{}}, true
	}
	return []any{root}, true
}

func asSequence(v any) []any {
	if seq, ok := v.([]any); ok {
		return seq
	}
	return []any{v}
}

// selectRecord prefers the entry whose identifier equals requestedID, then
// the first entry, then an empty record.
func selectRecord(candidates []any, requestedID string) record {
	for _, c := range candidates {
		rec, ok := c.(record)
		if !ok {
			continue
		}
		if id, ok := scalarString(rec[FieldCatalogID]); ok && id == requestedID {
			return rec
		}
	}
	if len(candidates) > 0 {
		if rec, ok := candidates[0].(record); ok {
			return rec
		}
	}
	return record{}
}

func extract(rec record, requestedID string) Product {
	supplier := text(rec, FieldContactor)
	if supplier == "" {
		supplier = text(rec, FieldMaker)
	}
	return Product{
		CatalogID:   orDefault(text(rec, FieldCatalogID), requestedID),
		DisplayName: orDefault(text(rec, FieldClass), GenericProduct),
		Supplier:    supplier,
		Spec:        orDefault(text(rec, FieldSpec), NoInformation),
		UnitPrice:   ParsePrice(rec[FieldPrice]),
		ImageURL:    text(rec, FieldImageURL),
	}
}

// ParsePrice reads a price that may arrive as a number or a numeric string.
// Fractions are truncated, thousands separators ignored, and anything
// unparsable or negative becomes 0.
func ParsePrice(v any) int64 {
	s, ok := scalarString(v)
	if !ok {
		return 0
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f <= 0 || f > math.MaxInt64 {
		return 0
	}
	return int64(f)
}

func text(rec record, key string) string {
	v, ok := rec[key]
	if !ok || !truthy(v) {
		return ""
	}
	s, _ := scalarString(v)
	return strings.TrimSpace(s)
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// truthy treats null, false, empty string and numeric zero as absent, which
// is how the upstream marks missing values.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
