package backend

import "encoding/json"

// Query is a single document filter, serialized to the platform's JSON query
// format and passed as a repeated "queries[]" URL parameter.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// Equal matches documents whose attribute equals value.
func Equal(attribute string, value any) Query {
	return Query{Method: "equal", Attribute: attribute, Values: []any{value}}
}

// Search matches documents whose attribute full-text-matches value. The
// attribute needs a fulltext index on the platform side.
func Search(attribute string, value string) Query {
	return Query{Method: "search", Attribute: attribute, Values: []any{value}}
}

// OrderAsc sorts results by attribute, ascending.
func OrderAsc(attribute string) Query {
	return Query{Method: "orderAsc", Attribute: attribute}
}

// String renders the wire form. Marshalling a struct of strings and
// primitives cannot fail, so errors are ignored.
func (q Query) String() string {
	b, _ := json.Marshal(q)
	return string(b)
}
