package entity

type Student struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Grade         string `json:"grade"`
	ContactNumber string `json:"contactNumber"`
}

// OpKind discriminates which CRUD operation a store currently has in
// flight, so the UI can disable just the affordance tied to it.
type OpKind string

const (
	OpNone   OpKind = "none"
	OpCreate OpKind = "create"
	OpUpdate OpKind = "update"
	OpDelete OpKind = "delete"
	OpFetch  OpKind = "fetch"
)
