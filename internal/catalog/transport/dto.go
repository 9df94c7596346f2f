package transport

// LookupRequest accepts the identifier under either query name.
type LookupRequest struct {
	CatalogID string `form:"catalogId"`
	ProductNo string `form:"productNo"`
}

// ID returns the identifier, preferring catalogId.
func (r LookupRequest) ID() string {
	if r.CatalogID != "" {
		return r.CatalogID
	}
	return r.ProductNo
}
