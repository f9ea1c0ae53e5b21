package common

import "errors"

// ErrDecode signals a payload that is not well-formed structured telemetry. The message is dropped.
var ErrDecode = errors.New("decode error")

// ErrConfiguration signals invalid session parameters (capacity, schema or gap policy)
var ErrConfiguration = errors.New("configuration error")

// ErrSchemaGap is advisory: a snapshot missed a schema metric and the gap policy value was used
var ErrSchemaGap = errors.New("schema gap")
