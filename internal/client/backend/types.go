package backend

import "encoding/json"

// Account is the platform's own identity record, distinct from the profile
// document stored in the users collection.
type Account struct {
	ID    string `json:"$id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is the opaque server-side credential. Only its existence matters to
// the flows; the actual secret travels in the session cookie.
type Session struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
}

// Document is a single record from the document database. System attributes
// ($-prefixed) are split out; everything else lands in Data.
type Document struct {
	ID           string
	CollectionID string
	Data         map[string]any
}

// UnmarshalJSON separates system attributes from user data. The platform
// returns both at the top level of the same object.
func (d *Document) UnmarshalJSON(b []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	data := make(map[string]any, len(raw))
	for k, v := range raw {
		switch k {
		case "$id":
			d.ID, _ = v.(string)
		case "$collectionId":
			d.CollectionID, _ = v.(string)
		default:
			if len(k) > 0 && k[0] == '$' {
				continue
			}
			data[k] = v
		}
	}
	d.Data = data
	return nil
}

// StringField returns the named data field as a string, "" if absent or not
// a string.
func (d *Document) StringField(name string) string {
	s, _ := d.Data[name].(string)
	return s
}

// DocumentList is a page of documents plus the total match count.
type DocumentList struct {
	Total     int        `json:"total"`
	Documents []Document `json:"documents"`
}

// File is a stored binary object's metadata.
type File struct {
	ID       string `json:"$id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"sizeOriginal"`
}

// FileList is a page of files plus the total count.
type FileList struct {
	Total int    `json:"total"`
	Files []File `json:"files"`
}
