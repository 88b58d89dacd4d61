package diagnosis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errEmptyResponse = errors.New("empty model response")

type resultWire struct {
	Summary         *string              `json:"summary"`
	Imbalance       *string              `json:"imbalance"`
	Logic           *string              `json:"logic"`
	Recommendations *recommendationsWire `json:"recommendations"`
}

// Items are pointers so a null element can be told apart from "".
type recommendationsWire struct {
	Food      *[]*string `json:"food"`
	Lifestyle *[]*string `json:"lifestyle"`
	Herbs     *[]*string `json:"herbs"`
}

// DecodeResult parses model output into a Result. Any missing key, wrong
// type, unknown key or out-of-enum imbalance fails the whole decode.
func DecodeResult(raw string) (Result, error) {
	payload := stripCodeFence(raw)
	if payload == "" {
		return Result{}, errEmptyResponse
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.DisallowUnknownFields()
	var wire resultWire
	if err := dec.Decode(&wire); err != nil {
		return Result{}, fmt.Errorf("decode diagnosis: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Result{}, errors.New("decode diagnosis: trailing data after object")
	}

	if err := wire.validate(); err != nil {
		return Result{}, err
	}
	rec := wire.Recommendations
	food, err := stringList("recommendations.food", *rec.Food)
	if err != nil {
		return Result{}, err
	}
	lifestyle, err := stringList("recommendations.lifestyle", *rec.Lifestyle)
	if err != nil {
		return Result{}, err
	}
	herbs, err := stringList("recommendations.herbs", *rec.Herbs)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Summary:   *wire.Summary,
		Imbalance: Imbalance(*wire.Imbalance),
		Logic:     *wire.Logic,
		Recommendations: Recommendations{
			Food:      food,
			Lifestyle: lifestyle,
			Herbs:     herbs,
		},
	}, nil
}

func (w resultWire) validate() error {
	switch {
	case w.Summary == nil:
		return missingKey("summary")
	case w.Imbalance == nil:
		return missingKey("imbalance")
	case w.Logic == nil:
		return missingKey("logic")
	case w.Recommendations == nil:
		return missingKey("recommendations")
	case w.Recommendations.Food == nil:
		return missingKey("recommendations.food")
	case w.Recommendations.Lifestyle == nil:
		return missingKey("recommendations.lifestyle")
	case w.Recommendations.Herbs == nil:
		return missingKey("recommendations.herbs")
	}
	if !Imbalance(*w.Imbalance).Valid() {
		return fmt.Errorf("imbalance %q is not one of Pitta, Wata, Semha, Mixed", *w.Imbalance)
	}
	return nil
}

func missingKey(name string) error {
	return fmt.Errorf("required key %q missing or null", name)
}

func stripCodeFence(raw string) string {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimPrefix(sanitized, "```")
	sanitized = strings.TrimSuffix(sanitized, "```")
	return strings.TrimSpace(sanitized)
}

func stringList(name string, items []*string) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%s[%d] is null", name, i)
		}
		out = append(out, *item)
	}
	return out, nil
}
