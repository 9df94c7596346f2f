package normalizer

import "testing"

func TestNormalizeShapes(t *testing.T) {
	cases := []struct {
		name      string
		payload   string
		requested string
		want      Product
	}{
		{
			name:      "envelope with array",
			payload:   `{"response":{"body":{"items":[{"prdctIdntNo":"A","prdctClsfcNoNm":"모니터","cntrctPrceAmt":"1000"},{"prdctIdntNo":"B","prdctClsfcNoNm":"노트북","cntrctPrceAmt":"2500"}]}}}`,
			requested: "B",
			want:      Product{CatalogID: "B", DisplayName: "노트북", Spec: NoInformation, UnitPrice: 2500},
		},
		{
			name:      "envelope with item array",
			payload:   `{"response":{"body":{"items":{"item":[{"prdctIdntNo":"A","cntrctCorpNm":"가나상사"}]}}}}`,
			requested: "A",
			want:      Product{CatalogID: "A", DisplayName: GenericProduct, Supplier: "가나상사", Spec: NoInformation},
		},
		{
			name:      "envelope with single item",
			payload:   `{"response":{"body":{"items":{"item":{"prdctIdntNo":"A","prdctSpecNm":"27인치","cntrctPrceAmt":350000}}}}}`,
			requested: "A",
			want:      Product{CatalogID: "A", DisplayName: GenericProduct, Spec: "27인치", UnitPrice: 350000},
		},
		{
			name:      "envelope items object without item",
			payload:   `{"response":{"body":{"items":{"other":1}}}}`,
			requested: "Z",
			want:      Product{CatalogID: "Z", DisplayName: GenericProduct, Spec: NoInformation},
		},
		{
			name:      "top level items singleton",
			payload:   `{"items":{"prdctIdntNo":"C","prdctMakrNm":"제조사","prdctImgUrl":"http://img/c.jpg"}}`,
			requested: "C",
			want:      Product{CatalogID: "C", DisplayName: GenericProduct, Supplier: "제조사", Spec: NoInformation, ImageURL: "http://img/c.jpg"},
		},
		{
			name:      "bare item",
			payload:   `{"prdctIdntNo":"D","prdctClsfcNoNm":"프린터","cntrctPrceAmt":"12,000"}`,
			requested: "D",
			want:      Product{CatalogID: "D", DisplayName: "프린터", Spec: NoInformation, UnitPrice: 12000},
		},
		{
			name:      "empty envelope items falls through to bare",
			payload:   `{"response":{"header":{"resultCode":"03"},"body":{"items":""}}}`,
			requested: "E",
			want:      Product{CatalogID: "E", DisplayName: GenericProduct, Spec: NoInformation},
		},
		{
			name:      "malformed",
			payload:   `<xml>nope</xml>`,
			requested: "F",
			want:      Product{CatalogID: "F", DisplayName: GenericProduct, Spec: NoInformation},
		},
		{
			name:      "array root",
			payload:   `[1,2,3]`,
			requested: "G",
			want:      Product{CatalogID: "G", DisplayName: GenericProduct, Spec: NoInformation},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(Decode([]byte(tc.payload)), tc.requested)
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestNormalizeSelection(t *testing.T) {
	payload := Decode([]byte(`{"items":[{"prdctIdntNo":"A"},{"prdctIdntNo":"B"}]}`))

	if got := Normalize(payload, "B").CatalogID; got != "B" {
		t.Fatalf("expected matching record B, got %q", got)
	}
	if got := Normalize(payload, "Z").CatalogID; got != "A" {
		t.Fatalf("expected first record A for unknown id, got %q", got)
	}
}

func TestNormalizeNumericIdentifierMatches(t *testing.T) {
	payload := Decode([]byte(`{"items":[{"prdctIdntNo":1,"cntrctPrceAmt":5},{"prdctIdntNo":24234567,"cntrctPrceAmt":10000}]}`))

	got := Normalize(payload, "24234567")
	if got.CatalogID != "24234567" || got.UnitPrice != 10000 {
		t.Fatalf("unexpected product %+v", got)
	}
}

func TestShapeOf(t *testing.T) {
	cases := map[string]string{
		`{"response":{"body":{"items":[]}}}`: "envelope",
		`{"items":[{"a":1}]}`:                "items",
		`{"prdctIdntNo":"X"}`:                "bare",
		`null`:                               "bare",
	}
	for payload, want := range cases {
		if got := ShapeOf(Decode([]byte(payload))); got != want {
			t.Fatalf("%s: expected %s, got %s", payload, want, got)
		}
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   any
		want int64
	}{
		{"10000", 10000},
		{"10000.9", 10000},
		{"1,234,000", 1234000},
		{"-5", 0},
		{"abc", 0},
		{"", 0},
		{nil, 0},
		{float64(42), 42},
		{true, 0},
	}
	for _, tc := range cases {
		if got := ParsePrice(tc.in); got != tc.want {
			t.Fatalf("ParsePrice(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
