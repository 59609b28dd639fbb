package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// naiveLayout is how the remote service renders timestamps stored without a
// zone. Such values are read as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// timestamp decodes RFC 3339 timestamps and zone-less ones.
type timestamp time.Time

func (ts *timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ts = timestamp(time.Time{})
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	if s == "" {
		*ts = timestamp(time.Time{})
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*ts = timestamp(t)
		return nil
	}
	t, err := time.ParseInLocation(naiveLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	*ts = timestamp(t)
	return nil
}

type recipeJSON Recipe

// UnmarshalJSON implements json.Unmarshaler
func (r *Recipe) UnmarshalJSON(data []byte) error {
	aux := struct {
		*recipeJSON
		CreatedAt timestamp `json:"created_at"`
	}{recipeJSON: (*recipeJSON)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.CreatedAt = time.Time(aux.CreatedAt)
	return nil
}

type userJSON User

// UnmarshalJSON implements json.Unmarshaler
func (u *User) UnmarshalJSON(data []byte) error {
	aux := struct {
		*userJSON
		CreatedAt timestamp `json:"created_at"`
	}{userJSON: (*userJSON)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	u.CreatedAt = time.Time(aux.CreatedAt)
	return nil
}

type reviewJSON Review

// UnmarshalJSON implements json.Unmarshaler
func (rv *Review) UnmarshalJSON(data []byte) error {
	aux := struct {
		*reviewJSON
		CreatedAt timestamp `json:"created_at"`
	}{reviewJSON: (*reviewJSON)(rv)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	rv.CreatedAt = time.Time(aux.CreatedAt)
	return nil
}
