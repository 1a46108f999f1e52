package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// LocalizedText is a display string the backend sends either as a plain string
// or as an object keyed by locale, e.g. {"en": "Animals", "ar": "حيوانات"}.
type LocalizedText struct {
	Plain    string
	ByLocale map[string]string
}

func Plain(s string) LocalizedText {
	return LocalizedText{Plain: s}
}

func ByLocale(m map[string]string) LocalizedText {
	return LocalizedText{ByLocale: m}
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = LocalizedText{Plain: s}
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err == nil {
		*t = LocalizedText{ByLocale: m}
		return nil
	}

	// null and anything else degrade to empty text
	if string(data) == "null" {
		*t = LocalizedText{}
		return nil
	}
	return fmt.Errorf("localized text must be a string or a locale object, got %s", data)
}

func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if t.ByLocale != nil {
		return json.Marshal(t.ByLocale)
	}
	return json.Marshal(t.Plain)
}

// Resolve picks a single display string: the first configured locale with a
// non-empty variant wins, then any remaining variant, then "".
func (t LocalizedText) Resolve(locales []string) string {
	if t.ByLocale == nil {
		return t.Plain
	}
	for _, loc := range locales {
		if v := t.ByLocale[loc]; v != "" {
			return v
		}
	}
	for _, v := range t.ByLocale {
		if v != "" {
			return v
		}
	}
	return ""
}

func (t LocalizedText) IsEmpty() bool {
	if t.ByLocale == nil {
		return t.Plain == ""
	}
	for _, v := range t.ByLocale {
		if v != "" {
			return false
		}
	}
	return true
}

// ID is a numeric identifier the backend sends either as a JSON number or as
// a numeric string.
type ID int64

func (id *ID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("id must be a number or numeric string, got %s", data)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("parse id %q: %w", s, err)
	}
	*id = ID(n)
	return nil
}

func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
