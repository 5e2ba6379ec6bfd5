package model

import (
	"encoding/json"
	"fmt"
)

// ExtraParams is the population-specific part of a guard's population settings.
// Each population type has its own concrete variant, resolved through Registry.
type ExtraParams interface {
	// Values returns the parameters keyed by score schema column id
	Values() map[string]any
}

// HogerExtraParams are the extra parameters of the Hoger population
type HogerExtraParams struct {
	NumHolidays int `json:"num_holidays"`
}

func (p HogerExtraParams) Values() map[string]any {
	return map[string]any{"num_holidays": p.NumHolidays}
}

// OfficerExtraParams are the extra parameters of the Officer population
type OfficerExtraParams struct {
	NumHolidays int  `json:"num_holidays"`
	HasDoneBHD1 bool `json:"has_done_bhd1"`
}

func (p OfficerExtraParams) Values() map[string]any {
	return map[string]any{
		"num_holidays":  p.NumHolidays,
		"has_done_bhd1": p.HasDoneBHD1,
	}
}

// GenericExtraParams holds parameters of a population type with no registered variant
type GenericExtraParams map[string]any

func (p GenericExtraParams) Values() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ExtraParamsDecoder decodes the raw JSON of one population type's extra parameters
type ExtraParamsDecoder func(raw json.RawMessage) (ExtraParams, error)

// Registry maps each population type to the decoder of its extra parameter shape
var Registry = map[PopulationType]ExtraParamsDecoder{
	PopulationHoger:   decodeAs[HogerExtraParams],
	PopulationOfficer: decodeAs[OfficerExtraParams],
}

// NewExtraParams returns the zeroed extra parameters for a population type
func NewExtraParams(populationType PopulationType) ExtraParams {
	switch populationType {
	case PopulationHoger:
		return HogerExtraParams{}
	case PopulationOfficer:
		return OfficerExtraParams{}
	default:
		return GenericExtraParams{}
	}
}

// DecodeExtraParams resolves the variant for populationType and decodes raw into it
func DecodeExtraParams(populationType PopulationType, raw json.RawMessage) (ExtraParams, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return NewExtraParams(populationType), nil
	}

	decode, ok := Registry[populationType]
	if !ok {
		decode = decodeAs[GenericExtraParams]
	}

	params, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode extra params for %q: %w", populationType, err)
	}
	return params, nil
}

func decodeAs[T ExtraParams](raw json.RawMessage) (ExtraParams, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalJSON decodes population settings, resolving the extra params variant from the population type
func (ps *PopulationSettings) UnmarshalJSON(data []byte) error {
	// Alias drops the method set so the default decoder can be reused
	type alias PopulationSettings
	aux := struct {
		*alias
		ExtraParams json.RawMessage `json:"extra_params"`
	}{alias: (*alias)(ps)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	params, err := DecodeExtraParams(ps.PopulationType, aux.ExtraParams)
	if err != nil {
		return err
	}
	ps.ExtraParams = params
	return nil
}
