package backend

import (
	"encoding/json"
	"fmt"
)

// Decode convierte filas genéricas al tipo de dominio usando sus tags json.
func Decode[T any](rows []Row) ([]T, error) {
	if len(rows) == 0 {
		return []T{}, nil
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("backend: encode rows: %w", err)
	}
	out := make([]T, 0, len(rows))
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("backend: decode rows: %w", err)
	}
	return out, nil
}

// DecodeOne es Decode para una sola fila (p.ej. el resultado de Insert).
func DecodeOne[T any](row Row) (T, error) {
	var out T
	b, err := json.Marshal(row)
	if err != nil {
		return out, fmt.Errorf("backend: encode row: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("backend: decode row: %w", err)
	}
	return out, nil
}

// Encode convierte un struct de inserción en Row.
func Encode(v any) (Row, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("backend: encode: %w", err)
	}
	var row Row
	if err := json.Unmarshal(b, &row); err != nil {
		return nil, fmt.Errorf("backend: encode: %w", err)
	}
	return row, nil
}
