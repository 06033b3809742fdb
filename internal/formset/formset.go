// Package formset parses prefixed child collections out of a form submission.
//
// A collection with prefix "ingredients" is described by the management fields
// ingredients-TOTAL_FORMS and ingredients-INITIAL_FORMS, and each row i by
// fields named ingredients-{i}-{field}. A row may carry ingredients-{i}-id to
// address an existing child and ingredients-{i}-DELETE to remove it.
package formset

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pageza/cookbook/backend/internal/validation"
)

// MaxForms bounds the rows accepted for one collection
const MaxForms = 1000

const (
	TotalFormsField   = "TOTAL_FORMS"
	InitialFormsField = "INITIAL_FORMS"
	IDField           = "id"
	DeleteField       = "DELETE"
)

var (
	ErrManagementForm = errors.New("management form data is missing or has been tampered with")
	ErrTooManyForms   = fmt.Errorf("please submit at most %d forms", MaxForms)
)

// Row is one submitted row. Values and Files are keyed by the unprefixed
// field name and exclude the id and DELETE fields.
type Row struct {
	Index  int
	ID     string
	Delete bool
	Values map[string]string
	Files  map[string]*multipart.FileHeader
}

func (r Row) Value(field string) string {
	return r.Values[field]
}

func (r Row) File(field string) *multipart.FileHeader {
	return r.Files[field]
}

// IsNew reports whether the row does not address an existing child
func (r Row) IsNew() bool {
	return strings.TrimSpace(r.ID) == ""
}

// Blank reports whether no field carries a value. Unchecked checkboxes are
// simply absent, so they count as blank.
func (r Row) Blank() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return len(r.Files) == 0
}

// Submission is a parsed collection
type Submission struct {
	Prefix  string
	Total   int
	Initial int
	Rows    []Row
}

// Field returns the full form name of a row field
func Field(prefix string, index int, field string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, index, field)
}

// ManagementField returns the full name of a management field
func ManagementField(prefix, field string) string {
	return prefix + "-" + field
}

// Parse extracts the collection with the given prefix. files may be nil for
// urlencoded submissions.
func Parse(prefix string, values url.Values, files map[string][]*multipart.FileHeader) (*Submission, error) {
	total, err := managementInt(values, ManagementField(prefix, TotalFormsField))
	if err != nil {
		return nil, err
	}
	initial, err := managementInt(values, ManagementField(prefix, InitialFormsField))
	if err != nil {
		return nil, err
	}
	if total > MaxForms {
		return nil, ErrTooManyForms
	}

	rows := make([]Row, total)
	for i := range rows {
		rows[i] = Row{Index: i, Values: map[string]string{}}
	}

	for key, vals := range values {
		i, field, ok := splitKey(prefix, key, total)
		if !ok || len(vals) == 0 {
			continue
		}
		switch field {
		case IDField:
			rows[i].ID = strings.TrimSpace(vals[0])
		case DeleteField:
			rows[i].Delete = validation.Checked(vals[0])
		default:
			rows[i].Values[field] = vals[0]
		}
	}

	for key, fhs := range files {
		i, field, ok := splitKey(prefix, key, total)
		if !ok || len(fhs) == 0 || fhs[0] == nil || (fhs[0].Size == 0 && fhs[0].Filename == "") {
			continue
		}
		if rows[i].Files == nil {
			rows[i].Files = map[string]*multipart.FileHeader{}
		}
		rows[i].Files[field] = fhs[0]
	}

	return &Submission{Prefix: prefix, Total: total, Initial: initial, Rows: rows}, nil
}

func managementInt(values url.Values, key string) (int, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return 0, ErrManagementForm
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, ErrManagementForm
	}
	return n, nil
}

// splitKey parses "{prefix}-{i}-{field}" with 0 <= i < total
func splitKey(prefix, key string, total int) (int, string, bool) {
	rest, ok := strings.CutPrefix(key, prefix+"-")
	if !ok {
		return 0, "", false
	}
	num, field, ok := strings.Cut(rest, "-")
	if !ok || field == "" {
		return 0, "", false
	}
	i, err := strconv.Atoi(num)
	if err != nil || i < 0 || i >= total {
		return 0, "", false
	}
	return i, field, true
}

// Values encodes rows back into form fields. Used to build submissions in
// tests and seed re-rendered forms.
func Values(prefix string, initial int, rows []map[string]string) url.Values {
	v := url.Values{}
	v.Set(ManagementField(prefix, TotalFormsField), strconv.Itoa(len(rows)))
	v.Set(ManagementField(prefix, InitialFormsField), strconv.Itoa(initial))
	for i, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v.Set(Field(prefix, i, k), row[k])
		}
	}
	return v
}
