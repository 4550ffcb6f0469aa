package harvest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// jsonObjectWriter builds a JSON object with a stable field order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Embed merges the fields of a raw JSON object into the object being built.
func (w *jsonObjectWriter) Embed(rawJSON []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	trimmed := bytes.TrimSpace(rawJSON)
	if len(trimmed) >= 2 && trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}' {
		trimmed = bytes.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	if len(trimmed) > 0 {
		w.Write(trimmed)
		w.WriteString(",")
	}
	return w
}

// EmbedFrom marshals v, that must marshal to an object, and merges its fields.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	rawJSON, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal for embedding: %w", err)
		return w
	}
	return w.Embed(rawJSON)
}

// Append adds a key-value pair.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	valBytes, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %q: %w", key, err)
		return w
	}
	fmt.Fprintf(w, "%q:", key)
	w.Write(valBytes)
	w.WriteString(",")
	return w
}

// Optional adds a key-value pair unless value is its type's zero value.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.IsZero() {
		return w
	}
	if v.Kind() == reflect.Slice && v.Len() == 0 {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON closes the object.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+2)
	final = append(final, '{')
	final = append(final, content...)
	final = append(final, '}')
	return final, nil
}

// MarshalJSON flattens the lot fields next to the candidate metrics.
func (c TLHCandidate) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("rank", c.Rank)
	w.EmbedFrom(c.Lot)
	w.Append("price", c.Price)
	w.Append("value", c.Value)
	w.Append("basis", c.Basis)
	w.Append("gain", c.Gain)
	w.Append("loss_percent", c.LossPercent)
	w.Append("term", c.Term)
	w.Append("days_held", c.DaysHeld)
	w.Optional("days_to_long_term", c.DaysToLongTerm)
	w.Append("near_long_term", c.NearLongTerm)
	w.Append("wash_sale", c.WashSale)
	w.Append("budget_remaining", c.BudgetRemaining)
	w.Optional("notes", c.Notes)
	return w.MarshalJSON()
}

// MarshalJSON flattens the lot fields next to the sale.
func (it SellPlanItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("lot_id", it.Lot.ID)
	w.Append("symbol", it.Lot.Symbol)
	w.Append("acquired", it.Lot.Acquired)
	w.Append("tier", it.Tier)
	w.Append("term", it.Term)
	w.Append("quantity", it.Quantity)
	w.Optional("partial", it.Partial)
	w.Append("price", it.Price)
	w.Append("proceeds", it.Proceeds)
	w.Append("basis", it.Basis)
	w.Append("gain", it.Gain)
	w.Append("estimated_tax", it.EstimatedTax)
	w.Append("rationale", it.Rationale)
	return w.MarshalJSON()
}
