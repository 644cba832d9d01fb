package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Movie is one record of the backend's movie list.
type Movie struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Rating      Rating `json:"rating"`
	URL         string `json:"url"`
}

// UnmarshalJSON accepts the id as either a string or a number.
func (m *Movie) UnmarshalJSON(data []byte) error {
	type plain Movie
	var raw struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Movie(raw.plain)
	m.ID = rawID(raw.ID)
	return nil
}

func rawID(b json.RawMessage) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	return string(b)
}

// Rating is a score in [0,10]. It decodes from a number, a numeric string or
// null; anything else decodes as 0 instead of failing the document.
type Rating float64

func (r *Rating) UnmarshalJSON(data []byte) error {
	*r = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var s string
		if json.Unmarshal(data, &s) != nil {
			return nil
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
	}
	*r = Rating(f).clamped()
	return nil
}

func (r Rating) clamped() Rating {
	f := float64(r)
	switch {
	case math.IsNaN(f), math.IsInf(f, 0):
		return 0
	case f < 0:
		return 0
	case f > 10:
		return 10
	}
	return r
}

// Float returns the rating as a float64 in [0,10].
func (r Rating) Float() float64 { return float64(r.clamped()) }

// document is the body shape served by /api/movies.
type document struct {
	Results []Movie `json:"results"`
}
