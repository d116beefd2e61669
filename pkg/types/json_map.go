package types

// JSONMap is a loosely-typed JSONB payload.
type JSONMap map[string]any
