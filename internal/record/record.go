// Package record holds the values a run produces: extracted records, the
// search criteria they were filtered with and the per-run result.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sitescrape/internal/normalize"
)

var (
	ErrNavigation        = errors.New("navigation failed")
	ErrSelectorExhausted = errors.New("no selector matched")
	ErrParse             = errors.New("value could not be parsed")
)

// Field is one named value of a record. A nil Value means the field was
// not found on the page.
type Field struct {
	Name  string
	Value *string
}

// Fields keeps field order as declared by the site.
type Fields []Field

// MarshalJSON writes an object in field order; absent values become null.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object written by MarshalJSON, keeping key order.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields: expected object, got %v", tok)
	}
	out := Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("fields: %s: %w", name, err)
		}
		out = append(out, Field{Name: name, Value: value})
	}
	*f = out
	return nil
}

// Record is one extracted item.
type Record struct {
	Position int                   `json:"position"`
	Fields   Fields                `json:"fields"`
	Price    *float64              `json:"price"`
	Flags    map[string]bool       `json:"flags,omitempty"`
	Hours    normalize.WeeklyHours `json:"hours,omitempty"`
}

// Set stores value under name, replacing an earlier value of that name.
func (r *Record) Set(name string, value *string) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// SetString is Set for a value that is known to be present.
func (r *Record) SetString(name, value string) {
	r.Set(name, &value)
}

// Get returns the value stored under name. ok is false when the record has
// no such field or the field is absent.
func (r Record) Get(name string) (value string, ok bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			if f.Value == nil {
				return "", false
			}
			return *f.Value, true
		}
	}
	return "", false
}

// Flag reports a keyword classification; unknown flags are false.
func (r Record) Flag(name string) bool {
	return r.Flags[name]
}

// SetFlag records a keyword classification.
func (r *Record) SetFlag(name string, v bool) {
	if r.Flags == nil {
		r.Flags = make(map[string]bool)
	}
	r.Flags[name] = v
}

// Title is the value of the first field, used as the record heading.
func (r Record) Title() string {
	if len(r.Fields) == 0 || r.Fields[0].Value == nil {
		return ""
	}
	return *r.Fields[0].Value
}

// SearchCriteria is the immutable description of what a run looked for.
type SearchCriteria struct {
	Query    string   `yaml:"query" json:"query,omitempty"`
	Location string   `yaml:"location" json:"location,omitempty"`
	Arg      string   `yaml:"arg" json:"arg,omitempty"`
	PriceMin *float64 `yaml:"price_min" json:"price_min,omitempty"`
	PriceMax *float64 `yaml:"price_max" json:"price_max,omitempty"`
	// Require lists flags a record must carry to be a match.
	Require []string `yaml:"require" json:"require,omitempty"`
}

// Stage is where a run ended.
type Stage string

const (
	StageInit      Stage = "INIT"
	StageNavigated Stage = "NAVIGATED"
	StageExtracted Stage = "EXTRACTED"
	StageSaved     Stage = "SAVED"
	StageFailed    Stage = "FAILED"
)

// RunResult is produced once per run and serialized to every output.
type RunResult struct {
	Success    bool           `json:"success"`
	Site       string         `json:"site"`
	Title      string         `json:"title"`
	URL        string         `json:"url"`
	Timestamp  time.Time      `json:"timestamp"`
	Stage      Stage          `json:"stage"`
	Error      string         `json:"error,omitempty"`
	Criteria   SearchCriteria `json:"search_criteria"`
	Total      int            `json:"total_items"`
	Records    []Record       `json:"items"`
	Matches    []Record       `json:"matches"`
	Warnings   []string       `json:"warnings,omitempty"`
	Screenshot string         `json:"screenshot,omitempty"`
}

// Fail moves the result to FAILED and records err.
func (r *RunResult) Fail(err error) {
	r.Success = false
	r.Stage = StageFailed
	if err != nil {
		r.Error = err.Error()
	}
}

// Warn appends a non-fatal problem.
func (r *RunResult) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
